package handler

import (
	"errors"
	"net/http"
	"strings"

	"actalibro/internal/apierror"
	"actalibro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQueryAndValidate is the query-string variant for list endpoints.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError translates domain errors into HTTP responses. Unknown
// errors become a 400 with the (already client-safe) service message.
func respondServiceError(c *gin.Context, err error) {
	var conflicto *service.ConflictoError
	switch {
	case errors.As(err, &conflicto):
		c.JSON(http.StatusConflict, apierror.NewConflicto(conflicto.Field, conflicto.Mensaje))
	case errors.Is(err, service.ErrSinAcceso),
		errors.Is(err, service.ErrFueraDeBarrio),
		errors.Is(err, service.ErrSinPermisoRegistro),
		errors.Is(err, service.ErrPlanSinPuestos):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUsuarioConActas),
		errors.Is(err, service.ErrUltimoAdmin),
		errors.Is(err, service.ErrPuestoConActas):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case strings.Contains(err.Error(), "no encontrado"):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
