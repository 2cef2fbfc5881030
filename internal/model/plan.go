package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is a subscription tier. PuedeCrearPuestos gates puesto management
// for every organizacion subscribed to the plan.
type Plan struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre            string          `gorm:"uniqueIndex;not null"`
	Precio            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PuedeCrearPuestos bool            `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Plan) TableName() string { return "planes" }
