package handler

import (
	"net/http"
	"strconv"

	"actalibro/internal/apierror"
	"actalibro/internal/dto"
	"actalibro/internal/middleware"
	"actalibro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un usuario con permisos en el barrio administrado
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearUsuarioRequest true "Usuario"
// @Success 201 {object} dto.UsuarioResponse
// @Failure 409 {object} apierror.ValidationError
// @Router /v1/usuarios [post]
func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	admin := middleware.GetUsuario(c)

	resp, err := h.svc.Crear(c.Request.Context(), admin, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista los usuarios con permisos en el barrio administrado
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página"
// @Param por_pagina query int false "Tamaño de página"
// @Success 200 {object} dto.UsuarioListResponse
// @Router /v1/usuarios [get]
func (h *UsuariosHandler) Listar(c *gin.Context) {
	admin := middleware.GetUsuario(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("por_pagina", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	resp, err := h.svc.Listar(c.Request.Context(), admin, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza un usuario y reemplaza sus permisos en el barrio
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Usuario"
// @Param body body dto.ActualizarUsuarioRequest true "Cambios"
// @Success 200 {object} dto.UsuarioResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/usuarios/{id} [put]
func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	admin := middleware.GetUsuario(c)

	resp, err := h.svc.Actualizar(c.Request.Context(), admin, id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina un usuario sin actas registradas
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "Usuario"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/usuarios/{id} [delete]
func (h *UsuariosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	admin := middleware.GetUsuario(c)

	if err := h.svc.Eliminar(c.Request.Context(), admin, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
