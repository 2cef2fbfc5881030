package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	DNI      string `json:"dni"      validate:"required,min=1,max=15"`
	Password string `json:"password" validate:"required,min=4"`
}

type CambiarPasswordRequest struct {
	PasswordActual string `json:"password_actual" validate:"required"`
	PasswordNueva  string `json:"password_nueva"  validate:"required,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PermisoResponse struct {
	PuestoID    string `json:"puesto_id"`
	Puesto      string `json:"puesto,omitempty"`
	PuedeVer    bool   `json:"puede_ver"`
	PuedeEditar bool   `json:"puede_editar"`
}

type UsuarioResponse struct {
	ID              string            `json:"id"`
	DNI             string            `json:"dni"`
	NombreCompleto  string            `json:"nombre_completo"`
	Email           *string           `json:"email"`
	Rol             string            `json:"rol"`
	OrganizacionID  string            `json:"organizacion_id"`
	BarrioAdminID   *string           `json:"barrio_admin_id"`
	VerTodosPuestos bool              `json:"ver_todos_puestos"`
	Activo          bool              `json:"activo"`
	Permisos        []PermisoResponse `json:"permisos,omitempty"`
}

// LoginResponse carries the session token plus the barrios the user may pick
// as working context. An empty Barrios list never reaches the client — login
// fails with "sin acceso" instead.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"` // seconds
	User        UsuarioResponse  `json:"user"`
	Barrios     []BarrioResponse `json:"barrios"`
}
