package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

const (
	ReasonDeclined          = "payment_declined"
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonProcessingError   = "processing_error"
	ReasonTimedOut          = "timed_out"
	ReasonUnavailable       = "settlement_unavailable"
)

type CardData struct {
	Number      string
	HolderName  string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
	SaveCard    bool

	// token do cartão emitido pelo gateway real
	Token string
}

// Charge é a instrução enviada ao gateway numa única tentativa.
type Charge struct {
	PaymentID     uuid.UUID
	ReservationID uuid.UUID
	Amount        int64
	Currency      string
	Method        string
	Card          *CardData
	PayerEmail    string
}

type Result struct {
	Outcome       Outcome
	TransactionID string
	Reason        string
}

// Gateway é chamado uma vez por liquidação; síncrono do ponto de vista do worker.
type Gateway interface {
	Attempt(ctx context.Context, ch Charge) (Result, error)
}

// TransactionID no formato TXN_yyyyMMddHHmmss_<8 primeiros do pagamento>.
func TransactionID(paymentID uuid.UUID, at time.Time) string {
	return "TXN_" + at.UTC().Format("20060102150405") + "_" + paymentID.String()[:8]
}
