package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

type VehicleSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Brand    string    `json:"brand"`
	Model    string    `json:"model"`
	Year     int       `json:"year"`
	Type     string    `json:"type"`
	Location string    `json:"location"`
	Status   string    `json:"status"`
}

type ReservationDTO struct {
	ID        uuid.UUID `json:"id"`
	VehicleID uuid.UUID `json:"vehicle_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`

	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`
	Notes          string `json:"notes"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method"`

	VehiclePrice int64  `json:"vehicle_price"`
	TotalAmount  int64  `json:"total_amount"`
	Currency     string `json:"currency"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	CanUpdate bool `json:"can_update"`
	CanCancel bool `json:"can_cancel"`

	Vehicle *VehicleSummaryDTO `json:"vehicle,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ProviderReservationDTO é a visão do provedor, com o cliente e as ações possíveis.
type ProviderReservationDTO struct {
	ID uuid.UUID `json:"id"`

	ClientID    uuid.UUID `json:"client_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone"`

	Vehicle *VehicleSummaryDTO `json:"vehicle,omitempty"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`

	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`
	Notes          string `json:"notes"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TotalAmount   int64  `json:"total_amount"`
	Currency      string `json:"currency"`

	CancellationReason string `json:"cancellation_reason,omitempty"`

	CanBeConfirmed bool `json:"can_be_confirmed"`
	CanBeRejected  bool `json:"can_be_rejected"`
	CanBeStarted   bool `json:"can_be_started"`
	CanBeCompleted bool `json:"can_be_completed"`

	CreatedAt time.Time `json:"created_at"`
}

// ======================================================
// MAPPERS
// ======================================================

func VehicleSummaryFromModel(v *models.Vehicle) *VehicleSummaryDTO {
	if v == nil || v.ID == uuid.Nil {
		return nil
	}
	return &VehicleSummaryDTO{
		ID:       v.ID,
		Brand:    v.Brand,
		Model:    v.Model,
		Year:     v.Year,
		Type:     v.Type,
		Location: v.Location,
		Status:   v.Status,
	}
}

func ReservationFromModel(r *models.Reservation, now time.Time) ReservationDTO {
	return ReservationDTO{
		ID:                 r.ID,
		VehicleID:          r.VehicleID,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		Days:               reservation.DayCount(r.StartDate, r.EndDate),
		PickupLocation:     r.PickupLocation,
		ReturnLocation:     r.ReturnLocation,
		Notes:              r.Notes,
		Status:             r.Status,
		PaymentStatus:      r.PaymentStatus,
		PaymentMethod:      r.PaymentMethod,
		VehiclePrice:       r.VehiclePrice,
		TotalAmount:        r.TotalAmount,
		Currency:           r.Currency,
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		CanUpdate:          reservation.CanConsumerUpdate(r, now) == nil,
		CanCancel:          reservation.CanConsumerCancel(r, now) == nil,
		Vehicle:            VehicleSummaryFromModel(&r.Vehicle),
		CreatedAt:          r.CreatedAt,
	}
}

func ReservationsFromModels(list []models.Reservation, now time.Time) []ReservationDTO {
	out := make([]ReservationDTO, 0, len(list))
	for i := range list {
		out = append(out, ReservationFromModel(&list[i], now))
	}
	return out
}

func ProviderReservationFromModel(r *models.Reservation) ProviderReservationDTO {
	st := reservation.Status(r.Status)

	return ProviderReservationDTO{
		ID:                 r.ID,
		ClientID:           r.ClientID,
		ClientName:         r.Client.Name,
		ClientEmail:        r.Client.Email,
		ClientPhone:        r.Client.Phone,
		Vehicle:            VehicleSummaryFromModel(&r.Vehicle),
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		Days:               reservation.DayCount(r.StartDate, r.EndDate),
		PickupLocation:     r.PickupLocation,
		ReturnLocation:     r.ReturnLocation,
		Notes:              r.Notes,
		Status:             r.Status,
		PaymentStatus:      r.PaymentStatus,
		TotalAmount:        r.TotalAmount,
		Currency:           r.Currency,
		CancellationReason: r.CancellationReason,
		CanBeConfirmed:     st.CanTransitionTo(reservation.StatusConfirmed),
		CanBeRejected:      st == reservation.StatusPending,
		CanBeStarted:       st.CanTransitionTo(reservation.StatusInProgress),
		CanBeCompleted:     st.CanTransitionTo(reservation.StatusCompleted),
		CreatedAt:          r.CreatedAt,
	}
}

func ProviderReservationsFromModels(list []models.Reservation) []ProviderReservationDTO {
	out := make([]ProviderReservationDTO, 0, len(list))
	for i := range list {
		out = append(out, ProviderReservationFromModel(&list[i]))
	}
	return out
}
