package reservation

import "github.com/BruksfildServices01/rental-scheduler/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func InitialStatus() Status {
	return StatusPending
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", httperr.ErrBusiness(httperr.KindValidation, "invalid_status")
	}
	return st, nil
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsExclusive: confirmed/in_progress bloqueiam o veículo
func (s Status) IsExclusive() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// ExclusiveStatuses são os status que participam da checagem de sobreposição.
func ExclusiveStatuses() []Status {
	return []Status{StatusConfirmed, StatusInProgress}
}

// ActiveStatuses: tudo que não é terminal
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusInProgress}
}

// ===============================
// Payment Status
// ===============================

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// SettleableStatuses são os payment_status que a liquidação ainda pode sobrescrever.
func SettleableStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPending, PaymentPaid}
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return httperr.ErrBusiness(httperr.KindInvalidTransition, "invalid_transition")
	}
	return nil
}
