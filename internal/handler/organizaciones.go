package handler

import (
	"net/http"

	"actalibro/internal/dto"
	"actalibro/internal/service"

	"github.com/gin-gonic/gin"
)

// OrganizacionesHandler is the super-admin provisioning panel.
type OrganizacionesHandler struct{ svc service.OrganizacionService }

func NewOrganizacionesHandler(svc service.OrganizacionService) *OrganizacionesHandler {
	return &OrganizacionesHandler{svc: svc}
}

// Crear godoc
// @Summary Crea una organización con su primer administrador
// @Tags organizaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearOrganizacionRequest true "Organización"
// @Success 201 {object} dto.OrganizacionResponse
// @Failure 409 {object} apierror.ValidationError
// @Router /v1/organizaciones [post]
func (h *OrganizacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearOrganizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista las organizaciones
// @Tags organizaciones
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.OrganizacionResponse
// @Router /v1/organizaciones [get]
func (h *OrganizacionesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPlanes godoc
// @Summary Lista los planes de suscripción disponibles
// @Tags organizaciones
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PlanResponse
// @Router /v1/planes [get]
func (h *OrganizacionesHandler) ListarPlanes(c *gin.Context) {
	resp, err := h.svc.ListarPlanes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearBarrio godoc
// @Summary Provisiona un barrio
// @Tags organizaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearBarrioRequest true "Barrio"
// @Success 201 {object} dto.BarrioResponse
// @Failure 409 {object} apierror.ValidationError
// @Router /v1/organizaciones/barrios [post]
func (h *OrganizacionesHandler) CrearBarrio(c *gin.Context) {
	var req dto.CrearBarrioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearBarrio(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
