package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
)

func charge(number string) payment.Charge {
	return payment.Charge{
		PaymentID:     uuid.New(),
		ReservationID: uuid.New(),
		Amount:        15000,
		Currency:      "PEN",
		Method:        "credit_card",
		Card:          &payment.CardData{Number: number},
	}
}

func TestSandboxOutcomesBySuffix(t *testing.T) {
	gw := NewSandbox(0)

	cases := map[string]string{
		"4000 0000 0000 0002": payment.ReasonDeclined,
		"4000 0000 0000 9995": payment.ReasonInsufficientFunds,
		"4000 0000 0000 0341": payment.ReasonProcessingError,
	}

	for number, reason := range cases {
		res, err := gw.Attempt(context.Background(), charge(number))
		require.NoError(t, err)
		assert.Equal(t, payment.OutcomeFailed, res.Outcome, number)
		assert.Equal(t, reason, res.Reason, number)
		assert.Empty(t, res.TransactionID)
	}
}

func TestSandboxSuccessCarriesTransactionID(t *testing.T) {
	gw := NewSandbox(0)
	gw.now = func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) }

	ch := charge("4111111111111111")
	res, err := gw.Attempt(context.Background(), ch)

	require.NoError(t, err)
	assert.Equal(t, payment.OutcomeSucceeded, res.Outcome)
	assert.Equal(t, "TXN_20260501100000_"+ch.PaymentID.String()[:8], res.TransactionID)
}

func TestSandboxWithoutCardSucceeds(t *testing.T) {
	ch := charge("")
	ch.Card = nil

	res, err := NewSandbox(0).Attempt(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, payment.OutcomeSucceeded, res.Outcome)
}

func TestSandboxHonorsDeadline(t *testing.T) {
	gw := NewSandbox(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := gw.Attempt(ctx, charge("4111111111111111"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMapMercadoPagoStatus(t *testing.T) {
	res := mapMercadoPagoStatus("approved", "accredited", "123")
	assert.Equal(t, payment.OutcomeSucceeded, res.Outcome)
	assert.Equal(t, "123", res.TransactionID)

	res = mapMercadoPagoStatus("rejected", "cc_rejected_insufficient_amount", "1")
	assert.Equal(t, payment.ReasonInsufficientFunds, res.Reason)

	res = mapMercadoPagoStatus("rejected", "cc_rejected_bad_filled_security_code", "1")
	assert.Equal(t, payment.ReasonDeclined, res.Reason)

	res = mapMercadoPagoStatus("in_process", "pending_contingency", "1")
	assert.Equal(t, payment.OutcomeFailed, res.Outcome)
	assert.Equal(t, payment.ReasonProcessingError, res.Reason)
}

func TestMercadoPagoMethodID(t *testing.T) {
	assert.Equal(t, "visa", mercadoPagoMethodID(payment.DetectCardType("4111111111111111")))
	assert.Equal(t, "master", mercadoPagoMethodID(payment.DetectCardType("5555555555554444")))
	assert.Equal(t, "amex", mercadoPagoMethodID(payment.DetectCardType("378282246310005")))

	assert.Empty(t, mercadoPagoMethodID(payment.CardUnknown))
	assert.Empty(t, mercadoPagoMethodID(payment.DetectCardType("")))
}
