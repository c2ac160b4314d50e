package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

// OverlapQuery descreve uma única consulta de sobreposição [Start, End).
type OverlapQuery struct {
	VehicleID uuid.UUID
	Start     time.Time
	End       time.Time
	Statuses  []Status

	ClientID  *uuid.UUID
	ExcludeID *uuid.UUID
}

type ProviderFilter struct {
	ProviderID uuid.UUID
	Status     *Status
	VehicleID  *uuid.UUID

	// reservas que tocam [From, To]
	From *time.Time
	To   *time.Time
}

type Repository interface {
	// -------- Identity --------
	GetClientByUserID(
		ctx context.Context,
		userID uuid.UUID,
	) (*models.Client, error)

	GetProviderByUserID(
		ctx context.Context,
		userID uuid.UUID,
	) (*models.Provider, error)

	// -------- Vehicle catalog --------
	GetVehicle(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Vehicle, error)

	SetVehicleStatus(
		ctx context.Context,
		id uuid.UUID,
		status VehicleStatus,
	) error

	// -------- Reservation (create / overlap) --------
	CreateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	HasOverlap(
		ctx context.Context,
		q OverlapQuery,
	) (bool, error)

	// -------- Reservation (scoped reads) --------
	GetReservationForClient(
		ctx context.Context,
		id uuid.UUID,
		clientID uuid.UUID,
	) (*models.Reservation, error)

	GetReservationForProvider(
		ctx context.Context,
		id uuid.UUID,
		providerID uuid.UUID,
	) (*models.Reservation, error)

	ListByClient(
		ctx context.Context,
		clientID uuid.UUID,
		status *Status,
	) ([]models.Reservation, error)

	ListByProvider(
		ctx context.Context,
		f ProviderFilter,
	) ([]models.Reservation, error)

	// -------- Reservation (state change) --------
	UpdateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error
}

type TxOptions struct {
	Serializable bool
}

// Store abre a fronteira transacional. Qualquer erro de fn faz rollback.
type Store interface {
	Repository

	WithinTx(
		ctx context.Context,
		opts TxOptions,
		fn func(tx Repository) error,
	) error
}
