package payment

import (
	"strings"

	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
)

type MethodType string

const (
	MethodCreditCard  MethodType = "credit_card"
	MethodPaypal      MethodType = "paypal"
	MethodBankAccount MethodType = "bank_account"
)

func ParseMethodType(s string) (MethodType, error) {
	switch t := MethodType(strings.ToLower(strings.TrimSpace(s))); t {
	case MethodCreditCard, MethodPaypal, MethodBankAccount:
		return t, nil
	}
	return "", httperr.ErrBusiness(httperr.KindValidation, "invalid_payment_method_type")
}
