package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle pertence ao catálogo; aqui só lemos status/preço/dono
// e escrevemos status nas transições de reserva.
type Vehicle struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;index;not null" json:"provider_id"`

	Brand    string `gorm:"size:60;not null" json:"brand"`
	Model    string `gorm:"size:60;not null" json:"model"`
	Year     int    `json:"year"`
	Type     string `gorm:"size:30" json:"type"`
	Location string `gorm:"size:120" json:"location"`

	DailyRate int64  `gorm:"not null" json:"daily_rate"`
	Status    string `gorm:"size:20;default:'available'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
