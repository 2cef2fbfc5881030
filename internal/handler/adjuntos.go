package handler

import (
	"errors"
	"net/http"

	"actalibro/internal/apierror"
	"actalibro/internal/dto"
	"actalibro/internal/infra"
	"actalibro/internal/middleware"
	"actalibro/internal/service"

	"github.com/gin-gonic/gin"
)

type AdjuntosHandler struct {
	storage *infra.AdjuntoStorage
	actas   service.ActaService
}

func NewAdjuntosHandler(storage *infra.AdjuntoStorage, actas service.ActaService) *AdjuntosHandler {
	return &AdjuntosHandler{storage: storage, actas: actas}
}

// Subir godoc
// @Summary Sube un adjunto para referenciar desde un acta
// @Tags adjuntos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param archivo formData file true "Archivo"
// @Success 201 {object} dto.AdjuntoResponse
// @Failure 413 {object} apierror.APIError
// @Router /v1/adjuntos [post]
func (h *AdjuntosHandler) Subir(c *gin.Context) {
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el campo 'archivo'"))
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer src.Close()

	nombre, err := h.storage.Guardar(src, fh.Filename, fh.Size)
	if err != nil {
		if errors.Is(err, infra.ErrAdjuntoMuyGrande) {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo guardar el archivo"))
		return
	}
	c.JSON(http.StatusCreated, dto.AdjuntoResponse{Archivo: nombre})
}

// Descargar godoc
// @Summary Descarga el adjunto de un acta visible para el usuario
// @Tags adjuntos
// @Produce octet-stream
// @Security BearerAuth
// @Param archivo path string true "Nombre almacenado"
// @Success 200 {file} binary
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/adjuntos/{archivo} [get]
func (h *AdjuntosHandler) Descargar(c *gin.Context) {
	archivo := c.Param("archivo")
	actor := middleware.GetUsuario(c)

	// Access runs through the acta owning the attachment; an orphan upload is
	// not downloadable.
	if _, err := h.actas.ActaPorAdjunto(c.Request.Context(), actor, archivo); err != nil {
		respondServiceError(c, err)
		return
	}

	path, err := h.storage.Ruta(archivo)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Adjunto no encontrado"))
		return
	}
	c.FileAttachment(path, archivo)
}
