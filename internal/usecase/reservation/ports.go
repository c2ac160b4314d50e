package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/settlement"
)

// Submitter entrega a liquidação para fora da request.
type Submitter interface {
	Submit(job settlement.Job)
}

// Locker serializa check+insert por veículo entre processos.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ======================================================
// Identity
// ======================================================

func resolveClient(
	ctx context.Context,
	repo domain.Repository,
	userID uuid.UUID,
) (*models.Client, error) {

	client, err := repo.GetClientByUserID(ctx, userID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return nil, httperr.ErrBusiness(httperr.KindUnauthorized, "client_profile_required")
		}
		return nil, err
	}
	return client, nil
}

func resolveProvider(
	ctx context.Context,
	repo domain.Repository,
	userID uuid.UUID,
) (*models.Provider, error) {

	provider, err := repo.GetProviderByUserID(ctx, userID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return nil, httperr.ErrBusiness(httperr.KindUnauthorized, "provider_profile_required")
		}
		return nil, err
	}
	return provider, nil
}

// ======================================================
// Vehicle side effects
// ======================================================

// qualquer reserva exclusiva, em qualquer data
var (
	holdFrom = time.Unix(0, 0).UTC()
	holdTo   = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// syncVehicle aplica o efeito da transição no veículo, na mesma transação.
func syncVehicle(
	ctx context.Context,
	tx domain.Repository,
	r *models.Reservation,
	from domain.Status,
	to domain.Status,
) error {

	if to != domain.StatusCompleted && to != domain.StatusCancelled {
		return nil
	}
	// pendente nunca reteve o veículo
	if to == domain.StatusCancelled && !from.IsExclusive() {
		return nil
	}

	vehicle, err := tx.GetVehicle(ctx, r.VehicleID)
	if err != nil {
		return err
	}
	current := domain.VehicleStatus(vehicle.Status)

	stillHeld := false
	if to == domain.StatusCancelled && current.IsReservationHold() {
		stillHeld, err = tx.HasOverlap(ctx, domain.OverlapQuery{
			VehicleID: r.VehicleID,
			Start:     holdFrom,
			End:       holdTo,
			Statuses:  domain.ExclusiveStatuses(),
			ExcludeID: &r.ID,
		})
		if err != nil {
			return err
		}
	}

	next, changed := domain.VehicleStatusAfter(from, to, current, stillHeld)
	if !changed {
		return nil
	}
	return tx.SetVehicleStatus(ctx, r.VehicleID, next)
}

func dispatch(
	em audit.Emitter,
	actor uuid.UUID,
	role string,
	action string,
	r *models.Reservation,
	meta any,
) {
	if em == nil {
		return
	}
	id := r.ID
	em.Dispatch(audit.Event{
		ActorID:  &actor,
		Role:     role,
		Action:   action,
		Entity:   "reservation",
		EntityID: &id,
		Metadata: meta,
	})
}
