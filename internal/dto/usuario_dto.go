package dto

// ─── User administration (per-barrio) ────────────────────────────────────────

// PermisoInput selects one puesto with its flags. PuedeEditar without
// PuedeVer is accepted; the resolver treats edit as implying view.
type PermisoInput struct {
	PuestoID    string `json:"puesto_id" validate:"required,uuid"`
	PuedeVer    bool   `json:"puede_ver"`
	PuedeEditar bool   `json:"puede_editar"`
}

type CrearUsuarioRequest struct {
	DNI            string         `json:"dni"             validate:"required,min=1,max=15"`
	NombreCompleto string         `json:"nombre_completo" validate:"required,min=2,max=128"`
	Email          *string        `json:"email"           validate:"omitempty,email"`
	Password       string         `json:"password"        validate:"required,min=8"`
	Permisos       []PermisoInput `json:"permisos"        validate:"required,min=1,dive"`
}

// ActualizarUsuarioRequest replaces the user's grant set within the admin's
// barrio atomically. Empty Password keeps the current one.
type ActualizarUsuarioRequest struct {
	DNI            string         `json:"dni"             validate:"omitempty,min=1,max=15"`
	NombreCompleto string         `json:"nombre_completo" validate:"omitempty,min=2,max=128"`
	Email          *string        `json:"email"           validate:"omitempty,email"`
	Password       string         `json:"password"        validate:"omitempty,min=8"`
	Permisos       []PermisoInput `json:"permisos"        validate:"required,min=1,dive"`
}

type UsuarioListResponse struct {
	Usuarios []UsuarioResponse `json:"usuarios"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PorPag   int               `json:"por_pagina"`
}
