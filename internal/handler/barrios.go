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

type BarriosHandler struct{ acceso service.AccesoService }

func NewBarriosHandler(acceso service.AccesoService) *BarriosHandler {
	return &BarriosHandler{acceso: acceso}
}

// Listar godoc
// @Summary Barrios en los que el usuario puede trabajar
// @Tags barrios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.BarrioResponse
// @Router /v1/barrios [get]
func (h *BarriosHandler) Listar(c *gin.Context) {
	actor := middleware.GetUsuario(c)
	barrios, err := h.acceso.BarriosDeUsuario(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp := make([]dto.BarrioResponse, len(barrios))
	for i, b := range barrios {
		resp[i] = dto.BarrioResponse{ID: b.ID.String(), Nombre: b.Nombre, Zona: b.Zona}
	}
	c.JSON(http.StatusOK, resp)
}

// Acceso godoc
// @Summary Resuelve el acceso del usuario dentro de un barrio
// @Tags barrios
// @Produce json
// @Security BearerAuth
// @Param id path string true "Barrio"
// @Param puesto_id query string false "Puesto solicitado"
// @Success 200 {object} dto.AccesoResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/barrios/{id}/acceso [get]
func (h *BarriosHandler) Acceso(c *gin.Context) {
	barrioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	var puestoSolicitado *uuid.UUID
	if q := c.Query("puesto_id"); q != "" {
		pid, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("puesto_id inválido"))
			return
		}
		puestoSolicitado = &pid
	}
	actor := middleware.GetUsuario(c)

	acceso, err := h.acceso.Resolver(c.Request.Context(), actor, barrioID, puestoSolicitado)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.AccesoToResponse(acceso))
}
