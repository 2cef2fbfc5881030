package model

// Rol is the closed set of user roles. Role checks switch exhaustively on
// these values; an unknown role never falls through to a permissive branch.
type Rol string

const (
	RolSuperAdmin    Rol = "super_admin"
	RolAdministrador Rol = "administrador"
	RolUsuario       Rol = "usuario"
)

// Valid reports whether r is one of the declared roles.
func (r Rol) Valid() bool {
	switch r {
	case RolSuperAdmin, RolAdministrador, RolUsuario:
		return true
	}
	return false
}

func (r Rol) String() string { return string(r) }
