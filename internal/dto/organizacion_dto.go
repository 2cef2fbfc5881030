package dto

// ─── Super-admin panel ───────────────────────────────────────────────────────

// CrearOrganizacionRequest creates a tenant and its first barrio administrator
// in one transaction, mirroring the onboarding flow.
type CrearOrganizacionRequest struct {
	Nombre        string `json:"nombre"          validate:"required,min=2,max=150"`
	PlanID        string `json:"plan_id"         validate:"required,uuid"`
	BarrioID      string `json:"barrio_id"       validate:"required,uuid"`
	AdminDNI      string `json:"admin_dni"       validate:"required,min=1,max=15"`
	AdminNombre   string `json:"admin_nombre"    validate:"required,min=2,max=128"`
	AdminEmail    string `json:"admin_email"     validate:"required,email"`
	AdminPassword string `json:"admin_password"  validate:"required,min=8"`
}

type OrganizacionResponse struct {
	ID     string       `json:"id"`
	Nombre string       `json:"nombre"`
	Plan   PlanResponse `json:"plan"`
}

type PlanResponse struct {
	ID                string `json:"id"`
	Nombre            string `json:"nombre"`
	Precio            string `json:"precio"`
	PuedeCrearPuestos bool   `json:"puede_crear_puestos"`
}
