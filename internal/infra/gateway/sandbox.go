package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
)

// finais de cartão com resultado fixo no sandbox
var sandboxOutcomes = map[string]string{
	"0002": payment.ReasonDeclined,
	"9995": payment.ReasonInsufficientFunds,
	"0341": payment.ReasonProcessingError,
}

type Sandbox struct {
	delay time.Duration
	now   func() time.Time
}

func NewSandbox(delay time.Duration) *Sandbox {
	return &Sandbox{
		delay: delay,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Sandbox) Attempt(ctx context.Context, ch payment.Charge) (payment.Result, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return payment.Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	if ch.Card != nil {
		number := payment.NormalizeCardNumber(ch.Card.Number)
		for suffix, reason := range sandboxOutcomes {
			if strings.HasSuffix(number, suffix) {
				return payment.Result{
					Outcome: payment.OutcomeFailed,
					Reason:  reason,
				}, nil
			}
		}
	}

	return payment.Result{
		Outcome:       payment.OutcomeSucceeded,
		TransactionID: payment.TransactionID(ch.PaymentID, s.now()),
	}, nil
}

var _ payment.Gateway = (*Sandbox)(nil)
