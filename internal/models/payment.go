package models

import (
	"time"

	"github.com/google/uuid"
)

// Uma linha por tentativa de liquidação
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationID uuid.UUID  `gorm:"type:uuid;index;not null" json:"reservation_id"`
	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`

	Amount   int64  `gorm:"not null" json:"amount"`
	Currency string `gorm:"size:3;default:'PEN'" json:"currency"`
	Method   string `gorm:"size:30" json:"method"`

	Status        string     `gorm:"size:20;default:'pending'" json:"status"`
	TransactionID string     `gorm:"size:64" json:"transaction_id"`
	PaymentDate   *time.Time `json:"payment_date"`
	Notes         string     `gorm:"size:255" json:"notes"`
	FailureReason string     `gorm:"size:40" json:"failure_reason,omitempty"`

	CardLast4 string `gorm:"size:4" json:"card_last4"`
	CardType  string `gorm:"size:20" json:"card_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
