package payment_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
)

func TestDetectCardType(t *testing.T) {
	cases := map[string]payment.CardType{
		"4111 1111 1111 1111": payment.CardVisa,
		"5500-0000-0000-0004": payment.CardMastercard,
		"5105105105105100":    payment.CardMastercard,
		"2221000000000009":    payment.CardMastercard,
		"2720990000000000":    payment.CardMastercard,
		"2721000000000000":    payment.CardUnknown,
		"2220990000000000":    payment.CardUnknown,
		"340000000000009":     payment.CardAmex,
		"371449635398431":     payment.CardAmex,
		"6011000000000004":    payment.CardUnknown,
		"":                    payment.CardUnknown,
		"abcd":                payment.CardUnknown,
	}

	for number, want := range cases {
		assert.Equal(t, want, payment.DetectCardType(number), number)
	}
}

func TestLast4(t *testing.T) {
	assert.Equal(t, "1111", payment.Last4("4111 1111 1111 1111"))
	assert.Equal(t, "0004", payment.Last4("5500-0000-0000-0004"))
	assert.Equal(t, "12", payment.Last4("12"))
}

func TestTransactionIDFormat(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-0000-0000-0000-000000000000")
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("PET", -5*3600))

	assert.Equal(t, "TXN_20260102080405_1a2b3c4d", payment.TransactionID(id, at))
}

func TestParseMethodType(t *testing.T) {
	m, err := payment.ParseMethodType(" PayPal ")
	assert.NoError(t, err)
	assert.Equal(t, payment.MethodPaypal, m)

	_, err = payment.ParseMethodType("cash")
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_method_type"))
}
