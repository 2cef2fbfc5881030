package handler

import (
	"net/http"

	"actalibro/internal/apierror"
	"actalibro/internal/dto"
	"actalibro/internal/metrics"
	"actalibro/internal/middleware"
	"actalibro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	svc service.AuthService
	reg *metrics.Registry
}

func NewAuthHandler(svc service.AuthService, reg *metrics.Registry) *AuthHandler {
	return &AuthHandler{svc: svc, reg: reg}
}

// Login godoc
// @Summary Login por DNI
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.reg.LoginsTotal.WithLabelValues("rechazado").Inc()
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	h.reg.LoginsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Cierra la sesión actual
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 204
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.svc.Logout(c.Request.Context(), claims.ID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo cerrar la sesión"))
		return
	}
	c.Status(http.StatusNoContent)
}

// CambiarPassword godoc
// @Summary Cambia la contraseña del usuario autenticado
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CambiarPasswordRequest true "Contraseñas"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/password [put]
func (h *AuthHandler) CambiarPassword(c *gin.Context) {
	var req dto.CambiarPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token inválido"))
		return
	}
	if err := h.svc.CambiarPassword(c.Request.Context(), id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Perfil del usuario autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UsuarioResponse
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.GetUsuario(c)
	c.JSON(http.StatusOK, service.UsuarioToResponse(user))
}
