package service

import (
	"errors"
	"fmt"

	"actalibro/internal/repository"
)

// Referential guards: refused operations that leave the store untouched.
var (
	ErrUsuarioConActas = errors.New("el usuario tiene actas registradas y no puede eliminarse")
	ErrUltimoAdmin     = errors.New("el barrio quedaría sin administrador; asigná otro antes de eliminar")
	ErrFueraDeBarrio   = errors.New("el usuario no pertenece al barrio que administrás")
	ErrPuestoConActas  = errors.New("el puesto tiene actas registradas y no puede eliminarse")
	ErrPlanSinPuestos  = errors.New("tu plan de suscripción no permite gestionar puestos")
)

// ConflictoError is a uniqueness violation mapped to the offending field.
type ConflictoError struct {
	Field   string
	Mensaje string
}

func (e *ConflictoError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Mensaje)
}

// mapUniqueViolation translates SQLSTATE 23505 into a field-specific
// ConflictoError. Anything else passes through untouched.
func mapUniqueViolation(err error) error {
	switch repository.UniqueViolation(err) {
	case "":
		return err
	case repository.ConstraintUsuarioDNI:
		return &ConflictoError{Field: "dni", Mensaje: "ya existe un usuario con este DNI"}
	case repository.ConstraintUsuarioEmail:
		return &ConflictoError{Field: "email", Mensaje: "ya existe un usuario con este email"}
	case repository.ConstraintPermisoUnico:
		return &ConflictoError{Field: "permisos", Mensaje: "permiso duplicado para el mismo puesto"}
	case repository.ConstraintBarrioNombre:
		return &ConflictoError{Field: "nombre", Mensaje: "ya existe un barrio con este nombre"}
	case repository.ConstraintPlanNombre:
		return &ConflictoError{Field: "nombre", Mensaje: "ya existe un plan con este nombre"}
	default:
		return &ConflictoError{Field: "datos", Mensaje: "el registro ya existe"}
	}
}
