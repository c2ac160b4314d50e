package gateway

import (
	"context"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
)

type MercadoPago struct {
	client mppayment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, errors.Wrap(err, "mercadopago config")
	}
	return &MercadoPago{client: mppayment.NewClient(cfg)}, nil
}

// Attempt faz uma única cobrança. O token do cartão vem do front;
// o número, quando presente, só serve para identificar a bandeira.
func (m *MercadoPago) Attempt(ctx context.Context, ch payment.Charge) (payment.Result, error) {
	req := mppayment.Request{
		TransactionAmount: float64(ch.Amount) / 100,
		Description:       "Reserva " + ch.ReservationID.String(),
		ExternalReference: ch.PaymentID.String(),
		Installments:      1,
		Payer: &mppayment.PayerRequest{
			Email: ch.PayerEmail,
		},
	}

	if ch.Card != nil {
		req.Token = ch.Card.Token
		req.PaymentMethodID = mercadoPagoMethodID(payment.DetectCardType(ch.Card.Number))
	}

	res, err := m.client.Create(ctx, req)
	if err != nil {
		return payment.Result{}, errors.Wrap(err, "mercadopago create payment")
	}

	return mapMercadoPagoStatus(res.Status, res.StatusDetail, strconv.Itoa(res.ID)), nil
}

// ids de payment_method do MercadoPago; bandeira desconhecida vai vazia
var mercadoPagoMethods = map[payment.CardType]string{
	payment.CardVisa:       "visa",
	payment.CardMastercard: "master",
	payment.CardAmex:       "amex",
}

func mercadoPagoMethodID(t payment.CardType) string {
	return mercadoPagoMethods[t]
}

func mapMercadoPagoStatus(status, detail, id string) payment.Result {
	switch status {
	case "approved":
		return payment.Result{Outcome: payment.OutcomeSucceeded, TransactionID: id}
	case "rejected":
		if strings.Contains(detail, "insufficient_amount") {
			return payment.Result{Outcome: payment.OutcomeFailed, Reason: payment.ReasonInsufficientFunds}
		}
		return payment.Result{Outcome: payment.OutcomeFailed, Reason: payment.ReasonDeclined}
	}

	// in_process / pending não são terminais; sem retry, fechamos como erro
	return payment.Result{Outcome: payment.OutcomeFailed, Reason: payment.ReasonProcessingError}
}

var _ payment.Gateway = (*MercadoPago)(nil)
