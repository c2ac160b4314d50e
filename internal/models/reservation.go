package models

import (
	"time"

	"github.com/google/uuid"
)

type Reservation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`
	Client   Client    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	ProviderID uuid.UUID `gorm:"type:uuid;index;not null" json:"provider_id"`

	VehicleID uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	Vehicle   Vehicle   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	// intervalo semiaberto [start, end)
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	PickupLocation string `gorm:"size:255" json:"pickup_location"`
	ReturnLocation string `gorm:"size:255" json:"return_location"`
	Notes          string `gorm:"size:500" json:"notes"`

	Status string `gorm:"size:20;index;default:'pending'" json:"status"`

	// valores em centavos, congelados na criação
	VehiclePrice int64  `gorm:"not null" json:"vehicle_price"`
	TotalAmount  int64  `gorm:"not null" json:"total_amount"`
	Currency     string `gorm:"size:3;default:'PEN'" json:"currency"`

	PaymentStatus        string     `gorm:"size:20;default:'pending'" json:"payment_status"`
	PaymentMethod        string     `gorm:"size:30" json:"payment_method"`
	PaymentTransactionID string     `gorm:"size:64" json:"payment_transaction_id"`
	PaymentNotes         string     `gorm:"size:255" json:"payment_notes"`
	PaidAt               *time.Time `json:"paid_at"`

	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	ConfirmedAt        *time.Time `json:"confirmed_at"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
