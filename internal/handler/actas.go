package handler

import (
	"net/http"

	"actalibro/internal/dto"
	"actalibro/internal/metrics"
	"actalibro/internal/middleware"
	"actalibro/internal/model"
	"actalibro/internal/service"

	"github.com/gin-gonic/gin"
)

type ActasHandler struct {
	svc service.ActaService
	reg *metrics.Registry
}

func NewActasHandler(svc service.ActaService, reg *metrics.Registry) *ActasHandler {
	return &ActasHandler{svc: svc, reg: reg}
}

// Registrar godoc
// @Summary Registra un acta en el puesto seleccionado
// @Tags actas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarActaRequest true "Acta"
// @Success 201 {object} dto.RegistrarActaResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/actas [post]
func (h *ActasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarActaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actor := middleware.GetUsuario(c)

	resp, err := h.svc.Registrar(c.Request.Context(), actor, claims.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.reg.ActasRegistradasTotal.WithLabelValues(req.Clasificacion).Inc()
	if resp.SesionTerminada {
		h.reg.SesionesTerminadasTotal.Inc()
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista las actas del puesto resuelto, paginadas
// @Tags actas
// @Produce json
// @Security BearerAuth
// @Param barrio_id query string true "Barrio"
// @Param puesto_id query string false "Puesto solicitado"
// @Param query query string false "Búsqueda en clasificación y cuerpo"
// @Param desde query string false "Fecha desde (YYYY-MM-DD)"
// @Param hasta query string false "Fecha hasta (YYYY-MM-DD)"
// @Param page query int false "Página"
// @Param por_pagina query int false "Tamaño de página"
// @Success 200 {object} dto.ActaListResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/actas [get]
func (h *ActasHandler) Listar(c *gin.Context) {
	var f dto.ActaFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}
	actor := middleware.GetUsuario(c)

	resp, err := h.svc.Listar(c.Request.Context(), actor, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Clasificaciones godoc
// @Summary Catálogo de clasificaciones disponibles
// @Tags actas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Router /v1/actas/clasificaciones [get]
func (h *ActasHandler) Clasificaciones(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clasificaciones": model.Clasificaciones})
}
