package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsNotFound reports whether err is GORM's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// UniqueViolation extracts the constraint name of a PostgreSQL unique
// violation (SQLSTATE 23505), or "" when err is something else. Services map
// the constraint to a field-specific message; the raw driver error never
// reaches a client.
func UniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "duplicated_key"
	}
	return ""
}

// Constraint names as created by AutoMigrate / schema patches.
const (
	ConstraintUsuarioDNI    = "idx_usuarios_dni"
	ConstraintUsuarioEmail  = "idx_usuarios_email_lower"
	ConstraintPermisoUnico  = "idx_usuario_puesto"
	ConstraintBarrioNombre  = "idx_barrios_nombre"
	ConstraintPlanNombre    = "idx_planes_nombre"
)
