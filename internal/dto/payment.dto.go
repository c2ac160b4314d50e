package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

type PaymentMethodDTO struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	IsDefault bool      `json:"is_default"`

	CardLast4      string `json:"card_last4,omitempty"`
	CardType       string `json:"card_type,omitempty"`
	CardHolderName string `json:"card_holder_name,omitempty"`
	ExpiryMonth    int    `json:"expiry_month,omitempty"`
	ExpiryYear     int    `json:"expiry_year,omitempty"`

	PaypalEmail string `json:"paypal_email,omitempty"`

	BankName     string `json:"bank_name,omitempty"`
	AccountLast4 string `json:"account_last4,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	ReservationID uuid.UUID  `json:"reservation_id"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CardLast4     string     `json:"card_last4,omitempty"`
	CardType      string     `json:"card_type,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func PaymentMethodFromModel(m *models.PaymentMethod) PaymentMethodDTO {
	return PaymentMethodDTO{
		ID:             m.ID,
		Type:           m.Type,
		IsDefault:      m.IsDefault,
		CardLast4:      m.CardLast4,
		CardType:       m.CardType,
		CardHolderName: m.CardHolderName,
		ExpiryMonth:    m.ExpiryMonth,
		ExpiryYear:     m.ExpiryYear,
		PaypalEmail:    m.PaypalEmail,
		BankName:       m.BankName,
		AccountLast4:   m.AccountLast4,
		CreatedAt:      m.CreatedAt,
	}
}

func PaymentMethodsFromModels(list []models.PaymentMethod) []PaymentMethodDTO {
	out := make([]PaymentMethodDTO, 0, len(list))
	for i := range list {
		out = append(out, PaymentMethodFromModel(&list[i]))
	}
	return out
}

func PaymentFromModel(p *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		PaymentDate:   p.PaymentDate,
		Notes:         p.Notes,
		CardLast4:     p.CardLast4,
		CardType:      p.CardType,
		CreatedAt:     p.CreatedAt,
	}
}

func PaymentsFromModels(list []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(list))
	for i := range list {
		out = append(out, PaymentFromModel(&list[i]))
	}
	return out
}
