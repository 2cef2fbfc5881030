package model

import (
	"time"

	"github.com/google/uuid"
)

// Acta is one logged, classified entry in a puesto's ledger.
// Actas are write-once: there is no update or delete path, and deleting a
// user with authored actas is refused at the service layer.
type Acta struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Clasificacion string    `gorm:"type:varchar(128);not null;index"`
	Cuerpo        string    `gorm:"type:text;not null"`
	// FechaEvento/HoraEvento are what the guard reports; FechaCreacion is
	// the server clock at insert (UTC).
	FechaEvento   time.Time `gorm:"type:date;not null"`
	HoraEvento    string    `gorm:"type:varchar(5);not null"`
	FechaCreacion time.Time `gorm:"not null;index"`
	UsuarioID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PuestoID      uuid.UUID `gorm:"type:uuid;not null;index"`
	// Adjunto is the stored filename under the upload dir, never the
	// client-supplied name.
	Adjunto *string `gorm:"type:varchar(512)"`

	Autor  *Usuario `gorm:"foreignKey:UsuarioID"`
	Puesto *Puesto  `gorm:"foreignKey:PuestoID"`
}

// Classification values offered by the entry form. FinJornada additionally
// terminates the submitting user's session; IncidenteMayor notifies the
// barrio's administrators by email.
const (
	ClasificacionFinJornada     = "FIN JORNADA"
	ClasificacionIncidenteMayor = "Incidente Mayor"
)

// Clasificaciones is the closed catalog served to clients.
var Clasificaciones = []string{
	"Correo Recibido",
	"Llamada Recibida",
	"Visita Anunciada",
	"Visita No Anunciada",
	"Ronda de Seguridad",
	"Incidente Menor",
	ClasificacionIncidenteMayor,
	"Mantenimiento",
	"Solicitud Residente",
	ClasificacionFinJornada,
	"Otro",
}

// ClasificacionValida reports whether c is in the catalog.
func ClasificacionValida(c string) bool {
	for _, v := range Clasificaciones {
		if v == c {
			return true
		}
	}
	return false
}
