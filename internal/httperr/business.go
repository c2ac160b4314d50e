package httperr

import (
	"github.com/pkg/errors"
)

// ===============================
// Kinds
// ===============================

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindTooLate           Kind = "too_late"
	KindUnavailable       Kind = "unavailable"
	KindSelfOverlap       Kind = "self_overlap"
	KindUnauthorized      Kind = "unauthorized"
	KindSettlementFailed  Kind = "settlement_failed"
	KindValidation        Kind = "validation"
	KindInfra             Kind = "infra"
)

// ===============================
// Business Error
// ===============================

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(kind Kind, code string) error {
	return BusinessError{Kind: kind, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// KindOf devolve o kind do erro; qualquer coisa fora da taxonomia é infra.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if be, ok := AsBusiness(err); ok {
		return be.Kind
	}
	return KindInfra
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ===============================
// Infra Error
// ===============================

type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

// Infra embrulha falhas de banco/rede. Erros de negócio passam intactos.
func Infra(err error, op string) error {
	if err == nil {
		return nil
	}

	var be BusinessError
	if errors.As(err, &be) {
		return err
	}

	var ie *InfraError
	if errors.As(err, &ie) {
		return err
	}

	return &InfraError{Op: op, Err: errors.WithStack(err)}
}
