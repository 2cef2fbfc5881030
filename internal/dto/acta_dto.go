package dto

// ─── Actas ───────────────────────────────────────────────────────────────────

type RegistrarActaRequest struct {
	BarrioID      string `json:"barrio_id"     validate:"required,uuid"`
	PuestoID      string `json:"puesto_id"     validate:"required,uuid"`
	Clasificacion string `json:"clasificacion" validate:"required,max=128"`
	Cuerpo        string `json:"cuerpo"        validate:"required,min=5,max=500"`
	FechaEvento   string `json:"fecha_evento"  validate:"required,datetime=2006-01-02"`
	HoraEvento    string `json:"hora_evento"   validate:"required,datetime=15:04"`
	// Adjunto references a file previously uploaded via POST /v1/adjuntos.
	Adjunto *string `json:"adjunto" validate:"omitempty,max=512"`
}

// ActaFilter is bound from the query string of GET /v1/actas.
type ActaFilter struct {
	BarrioID string `form:"barrio_id" validate:"required,uuid"`
	PuestoID string `form:"puesto_id" validate:"omitempty,uuid"`
	Query    string `form:"query"`
	Desde    string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta    string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page,default=1"     validate:"min=1"`
	PorPag   int    `form:"por_pagina,default=15" validate:"min=1,max=100"`
}

type ActaResponse struct {
	ID            string  `json:"id"`
	Clasificacion string  `json:"clasificacion"`
	Cuerpo        string  `json:"cuerpo"`
	FechaEvento   string  `json:"fecha_evento"`
	HoraEvento    string  `json:"hora_evento"`
	FechaCreacion string  `json:"fecha_creacion"`
	Autor         string  `json:"autor"`
	PuestoID      string  `json:"puesto_id"`
	Puesto        string  `json:"puesto,omitempty"`
	Adjunto       *string `json:"adjunto,omitempty"`
}

// RegistrarActaResponse flags session termination so the client can drop its
// token and return to login after a FIN JORNADA entry.
type RegistrarActaResponse struct {
	Acta            ActaResponse `json:"acta"`
	SesionTerminada bool         `json:"sesion_terminada"`
}

type ActaListResponse struct {
	Acceso AccesoResponse `json:"acceso"`
	Actas  []ActaResponse `json:"actas"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	PorPag int            `json:"por_pagina"`
}

type AdjuntoResponse struct {
	Archivo string `json:"archivo"`
}
