package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	Type string `gorm:"size:20;not null" json:"type"`

	// nunca guardamos o número completo
	CardLast4      string `gorm:"size:4" json:"card_last4"`
	CardType       string `gorm:"size:20" json:"card_type"`
	CardHolderName string `gorm:"size:100" json:"card_holder_name"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`

	PaypalEmail string `gorm:"size:100" json:"paypal_email"`

	BankName          string `gorm:"size:100" json:"bank_name"`
	AccountLast4      string `gorm:"size:4" json:"account_last4"`
	AccountHolderName string `gorm:"size:100" json:"account_holder_name"`

	IsDefault bool `gorm:"default:false" json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
