package handler

import (
	"net/http"

	"actalibro/internal/apierror"
	"actalibro/internal/dto"
	"actalibro/internal/middleware"
	"actalibro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PuestosHandler struct{ svc service.PuestoService }

func NewPuestosHandler(svc service.PuestoService) *PuestosHandler {
	return &PuestosHandler{svc: svc}
}

// Listar godoc
// @Summary Lista los puestos de un barrio administrado
// @Tags puestos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Barrio"
// @Success 200 {array} dto.PuestoResponse
// @Router /v1/barrios/{id}/puestos [get]
func (h *PuestosHandler) Listar(c *gin.Context) {
	barrioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("barrio_id inválido"))
		return
	}
	actor := middleware.GetUsuario(c)

	resp, err := h.svc.Listar(c.Request.Context(), actor, barrioID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Crea un puesto (requiere plan con gestión de puestos)
// @Tags puestos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Barrio"
// @Param body body dto.CrearPuestoRequest true "Puesto"
// @Success 201 {object} dto.PuestoResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/barrios/{id}/puestos [post]
func (h *PuestosHandler) Crear(c *gin.Context) {
	barrioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("barrio_id inválido"))
		return
	}
	var req dto.CrearPuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetUsuario(c)

	resp, err := h.svc.Crear(c.Request.Context(), actor, barrioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Renombrar godoc
// @Summary Renombra un puesto
// @Tags puestos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Puesto"
// @Param body body dto.RenombrarPuestoRequest true "Nuevo nombre"
// @Success 200 {object} dto.PuestoResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/puestos/{id} [put]
func (h *PuestosHandler) Renombrar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	var req dto.RenombrarPuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.GetUsuario(c)

	resp, err := h.svc.Renombrar(c.Request.Context(), actor, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina un puesto sin actas
// @Tags puestos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Puesto"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/puestos/{id} [delete]
func (h *PuestosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	actor := middleware.GetUsuario(c)

	if err := h.svc.Eliminar(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
