package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"actalibro/internal/dto"
	"actalibro/internal/metrics"
	"actalibro/internal/middleware"
	"actalibro/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	svc service.ExportService
	reg *metrics.Registry
}

func NewExportHandler(svc service.ExportService, reg *metrics.Registry) *ExportHandler {
	return &ExportHandler{svc: svc, reg: reg}
}

// PDF godoc
// @Summary Exporta el libro de actas del puesto resuelto como PDF
// @Tags export
// @Produce application/pdf
// @Security BearerAuth
// @Param barrio_id query string true "Barrio"
// @Param puesto_id query string false "Puesto solicitado"
// @Param query query string false "Búsqueda"
// @Param desde query string false "Fecha desde (YYYY-MM-DD)"
// @Param hasta query string false "Fecha hasta (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 403 {object} apierror.APIError
// @Router /v1/actas/export/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	var f dto.ActaFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}
	actor := middleware.GetUsuario(c)

	// Buffer first: a resolver or render error after writing headers would
	// corrupt the download.
	var buf bytes.Buffer
	nombre, err := h.svc.ExportarPDF(c.Request.Context(), actor, f, &buf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.reg.ExportacionesTotal.WithLabelValues("pdf").Inc()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// XLSX godoc
// @Summary Exporta el libro de actas del puesto resuelto como planilla
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param barrio_id query string true "Barrio"
// @Param puesto_id query string false "Puesto solicitado"
// @Param query query string false "Búsqueda"
// @Param desde query string false "Fecha desde (YYYY-MM-DD)"
// @Param hasta query string false "Fecha hasta (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 403 {object} apierror.APIError
// @Router /v1/actas/export/xlsx [get]
func (h *ExportHandler) XLSX(c *gin.Context) {
	var f dto.ActaFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}
	actor := middleware.GetUsuario(c)

	var buf bytes.Buffer
	nombre, err := h.svc.ExportarXLSX(c.Request.Context(), actor, f, &buf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.reg.ExportacionesTotal.WithLabelValues("xlsx").Inc()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
