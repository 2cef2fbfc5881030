package model

import (
	"time"

	"github.com/google/uuid"
)

// Barrio is a physical site (residential complex, building, store).
type Barrio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Zona      *string   `gorm:"type:varchar(50)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Puestos are cascade-deleted with their barrio.
	Puestos []Puesto `gorm:"foreignKey:BarrioID;constraint:OnDelete:CASCADE"`
}

// Puesto is a post within a Barrio where logbook entries are made.
type Puesto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	BarrioID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Barrio *Barrio `gorm:"foreignKey:BarrioID"`
}
