package model

import (
	"time"

	"github.com/google/uuid"
)

// Organizacion is a paying tenant. Feature gating comes from its Plan.
type Organizacion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	PlanID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Plan *Plan `gorm:"foreignKey:PlanID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Organizacion) TableName() string { return "organizaciones" }
