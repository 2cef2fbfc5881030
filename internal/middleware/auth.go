package middleware

import (
	"net/http"
	"strings"

	"actalibro/internal/apierror"
	"actalibro/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
// The jti lands in RegisteredClaims.ID and is matched against the Redis
// session store: a valid signature alone is not enough once the session
// was revoked (logout or FIN JORNADA).
type JWTClaims struct {
	UserID string `json:"user_id"`
	DNI    string `json:"dni"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route and verifies
// the session behind it is still alive.
func JWTAuth(secret string, sesiones *infra.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado"))
			return
		}

		alive, err := sesiones.Alive(c.Request.Context(), claims.ID)
		if err != nil || !alive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sesión terminada, iniciá sesión de nuevo"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRol rejects requests whose JWT role is not in the allowed list.
func RequireRol(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !allowed[claims.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}
