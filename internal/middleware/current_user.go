package middleware

import (
	"net/http"

	"actalibro/internal/apierror"
	"actalibro/internal/model"
	"actalibro/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const UsuarioKey = "usuario"

// CargarUsuario loads the authenticated user (grants preloaded) after JWTAuth.
// A token whose user was deleted or deactivated since issuance is rejected.
func CargarUsuario(usuarios repository.UsuarioRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido"))
			return
		}
		user, err := usuarios.FindByID(c.Request.Context(), id)
		if err != nil || !user.Activo {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Usuario inexistente o desactivado"))
			return
		}
		c.Set(UsuarioKey, user)
		c.Next()
	}
}

// GetUsuario retrieves the loaded user from the Gin context.
func GetUsuario(c *gin.Context) *model.Usuario {
	u, _ := c.MustGet(UsuarioKey).(*model.Usuario)
	return u
}
