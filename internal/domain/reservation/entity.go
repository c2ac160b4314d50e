package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

const (
	UpdateWindow = 48 * time.Hour
	CancelWindow = 24 * time.Hour

	DefaultCurrency = "PEN"
)

// ConfirmPolicy decide se a confirmação marca o pagamento como pago.
type ConfirmPolicy struct {
	MarkPaid bool
}

// ===============================
// Pricing
// ===============================

// DayCount conta dias completos de [start, end).
func DayCount(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}

func ValidateRange(start, end time.Time) error {
	if !start.Before(end) {
		return httperr.ErrBusiness(httperr.KindValidation, "invalid_date_range")
	}
	if DayCount(start, end) < 1 {
		return httperr.ErrBusiness(httperr.KindValidation, "minimum_one_day")
	}
	return nil
}

func Total(dailyRate int64, start, end time.Time) int64 {
	return dailyRate * int64(DayCount(start, end))
}

// ===============================
// Creation
// ===============================

type Draft struct {
	ClientID       uuid.UUID
	Vehicle        *models.Vehicle
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
	ReturnLocation string
	Notes          string
	PaymentMethod  string
}

func New(d Draft, now time.Time) (*models.Reservation, error) {
	if err := ValidateRange(d.StartDate, d.EndDate); err != nil {
		return nil, err
	}
	if !d.StartDate.After(now) {
		return nil, httperr.ErrBusiness(httperr.KindValidation, "start_in_past")
	}

	return &models.Reservation{
		ID:             uuid.New(),
		ClientID:       d.ClientID,
		ProviderID:     d.Vehicle.ProviderID,
		VehicleID:      d.Vehicle.ID,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		PickupLocation: d.PickupLocation,
		ReturnLocation: d.ReturnLocation,
		Notes:          d.Notes,
		Status:         string(InitialStatus()),
		VehiclePrice:   d.Vehicle.DailyRate,
		TotalAmount:    Total(d.Vehicle.DailyRate, d.StartDate, d.EndDate),
		Currency:       DefaultCurrency,
		PaymentStatus:  string(PaymentPending),
		PaymentMethod:  d.PaymentMethod,
	}, nil
}

// ===============================
// Consumer Gates
// ===============================

// CanConsumerUpdate: prazo primeiro, depois estado.
func CanConsumerUpdate(r *models.Reservation, now time.Time) error {
	if !r.StartDate.After(now.Add(UpdateWindow)) {
		return httperr.ErrBusiness(httperr.KindTooLate, "too_late_to_update")
	}

	switch Status(r.Status) {
	case StatusPending, StatusConfirmed:
		return nil
	}
	return httperr.ErrBusiness(httperr.KindInvalidTransition, "invalid_state_for_update")
}

func CanConsumerCancel(r *models.Reservation, now time.Time) error {
	if !r.StartDate.After(now.Add(CancelWindow)) {
		return httperr.ErrBusiness(httperr.KindTooLate, "too_late_to_cancel")
	}

	if Status(r.Status).IsTerminal() {
		return httperr.ErrBusiness(httperr.KindInvalidTransition, "invalid_state_for_cancel")
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

type Changes struct {
	StartDate      *time.Time
	EndDate        *time.Time
	PickupLocation *string
	ReturnLocation *string
	Notes          *string
}

func (c Changes) TouchesDates() bool {
	return c.StartDate != nil || c.EndDate != nil
}

// ApplyUpdate valida num rascunho e só copia para r se tudo passar.
func ApplyUpdate(r *models.Reservation, ch Changes, now time.Time) error {
	if err := CanConsumerUpdate(r, now); err != nil {
		return err
	}

	next := *r

	if ch.StartDate != nil {
		next.StartDate = *ch.StartDate
	}
	if ch.EndDate != nil {
		next.EndDate = *ch.EndDate
	}

	if ch.TouchesDates() {
		if err := ValidateRange(next.StartDate, next.EndDate); err != nil {
			return err
		}
		if !next.StartDate.After(now) {
			return httperr.ErrBusiness(httperr.KindValidation, "start_in_past")
		}
		next.TotalAmount = Total(next.VehiclePrice, next.StartDate, next.EndDate)
	}

	if ch.PickupLocation != nil {
		next.PickupLocation = *ch.PickupLocation
	}
	if ch.ReturnLocation != nil {
		next.ReturnLocation = *ch.ReturnLocation
	}
	if ch.Notes != nil {
		next.Notes = *ch.Notes
	}

	*r = next
	return nil
}

func Confirm(r *models.Reservation, policy ConfirmPolicy, now time.Time) error {
	if err := CanTransition(Status(r.Status), StatusConfirmed); err != nil {
		return err
	}

	r.Status = string(StatusConfirmed)
	r.ConfirmedAt = &now

	if policy.MarkPaid && PaymentStatus(r.PaymentStatus) == PaymentPending {
		r.PaymentStatus = string(PaymentPaid)
	}
	return nil
}

func Start(r *models.Reservation, now time.Time) error {
	if err := CanTransition(Status(r.Status), StatusInProgress); err != nil {
		return err
	}

	r.Status = string(StatusInProgress)
	r.StartedAt = &now
	return nil
}

func Complete(r *models.Reservation, now time.Time) error {
	if err := CanTransition(Status(r.Status), StatusCompleted); err != nil {
		return err
	}

	r.Status = string(StatusCompleted)
	r.CompletedAt = &now
	return nil
}

func Cancel(r *models.Reservation, reason string, now time.Time) error {
	if err := CanTransition(Status(r.Status), StatusCancelled); err != nil {
		return err
	}

	r.Status = string(StatusCancelled)
	r.PaymentStatus = string(PaymentRefunded)
	r.CancellationReason = reason
	r.CancelledAt = &now
	return nil
}

// Reject só vale para pendentes; vira cancelled com motivo.
func Reject(r *models.Reservation, reason string, now time.Time) error {
	if Status(r.Status) != StatusPending {
		return httperr.ErrBusiness(httperr.KindInvalidTransition, "only_pending_can_be_rejected")
	}
	if reason == "" {
		reason = "rejected_by_provider"
	}
	return Cancel(r, reason, now)
}

// Apply aplica uma transição genérica pedida pelo provedor.
func Apply(
	r *models.Reservation,
	to Status,
	reason string,
	policy ConfirmPolicy,
	now time.Time,
) error {

	switch to {
	case StatusConfirmed:
		return Confirm(r, policy, now)
	case StatusInProgress:
		return Start(r, now)
	case StatusCompleted:
		return Complete(r, now)
	case StatusCancelled:
		return Cancel(r, reason, now)
	}
	return httperr.ErrBusiness(httperr.KindInvalidTransition, "invalid_transition")
}
