package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores the people who log in. DNI is the login key.
// BarrioAdminID, when set on an administrador, is the barrio they manage with
// implicit full access. VerTodosPuestos expands only the viewable set within
// the barrio being resolved — never the editable one.
type Usuario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DNI            string    `gorm:"type:varchar(15);uniqueIndex;not null"`
	NombreCompleto string    `gorm:"not null"`
	// Uniqueness is enforced case-insensitively by the lower(email) schema
	// patch; this plain index only serves lookups.
	Email           *string    `gorm:"index"`
	PasswordHash    string     `gorm:"not null"`
	Rol             Rol        `gorm:"type:varchar(20);not null"`
	OrganizacionID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	BarrioAdminID   *uuid.UUID `gorm:"type:uuid;index"`
	VerTodosPuestos bool       `gorm:"not null;default:false"`
	Activo          bool       `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Organizacion *Organizacion   `gorm:"foreignKey:OrganizacionID"`
	BarrioAdmin  *Barrio         `gorm:"foreignKey:BarrioAdminID"`
	Permisos     []PermisoPuesto `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE"`
}

// EsAdminDe reports whether u administers the given barrio. Super admins are
// handled by the caller; this is strictly the barrio-administrator branch.
func (u *Usuario) EsAdminDe(barrioID uuid.UUID) bool {
	return u.Rol == RolAdministrador && u.BarrioAdminID != nil && *u.BarrioAdminID == barrioID
}

// PermisoPuesto grants a user view and/or edit rights on one puesto.
// The (usuario, puesto) pair is unique.
type PermisoPuesto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usuario_puesto"`
	PuestoID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usuario_puesto"`
	PuedeVer    bool      `gorm:"not null;default:true"`
	PuedeEditar bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time

	Puesto *Puesto `gorm:"foreignKey:PuestoID"`
}
