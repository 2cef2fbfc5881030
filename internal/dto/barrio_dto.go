package dto

// ─── Barrios / Puestos ───────────────────────────────────────────────────────

type BarrioResponse struct {
	ID     string  `json:"id"`
	Nombre string  `json:"nombre"`
	Zona   *string `json:"zona,omitempty"`
}

type PuestoResponse struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	BarrioID string `json:"barrio_id"`
}

// CrearBarrioRequest is super-admin only: barrios are provisioned before the
// organization that will run them.
type CrearBarrioRequest struct {
	Nombre string  `json:"nombre" validate:"required,min=2,max=150"`
	Zona   *string `json:"zona"   validate:"omitempty,max=150"`
}

type CrearPuestoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=150"`
}

type RenombrarPuestoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=150"`
}

// AccesoResponse is the resolver output for GET /v1/barrios/:id/acceso and is
// embedded in ledger listings: which puestos the caller may see and register
// into, and which puesto is currently selected.
type AccesoResponse struct {
	PuestosVisibles  []PuestoResponse `json:"puestos_visibles"`
	PuestosEditables []PuestoResponse `json:"puestos_editables"`
	PuestoActual     *PuestoResponse  `json:"puesto_actual,omitempty"`
	PuedeRegistrar   bool             `json:"puede_registrar"`
}
