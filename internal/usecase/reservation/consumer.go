package reservation

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
)

// ======================================================
// GET / LIST
// ======================================================

type GetReservation struct {
	repo domain.Repository
}

func NewGetReservation(repo domain.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

func (uc *GetReservation) Execute(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
) (*models.Reservation, error) {

	client, err := resolveClient(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	return uc.repo.GetReservationForClient(ctx, reservationID, client.ID)
}

type ListReservations struct {
	repo domain.Repository
}

func NewListReservations(repo domain.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

// Execute lista as reservas do cliente; status vazio traz todas.
func (uc *ListReservations) Execute(
	ctx context.Context,
	userID uuid.UUID,
	status string,
) ([]models.Reservation, error) {

	client, err := resolveClient(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	var filter *domain.Status
	if status != "" {
		st, err := domain.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}

	return uc.repo.ListByClient(ctx, client.ID, filter)
}

// ======================================================
// UPDATE
// ======================================================

type UpdateReservation struct {
	store  domain.Store
	audit  audit.Emitter
	clock  timezone.Clock
	txOpts domain.TxOptions
}

func NewUpdateReservation(
	store domain.Store,
	audit audit.Emitter,
	clock timezone.Clock,
	txOpts domain.TxOptions,
) *UpdateReservation {
	return &UpdateReservation{
		store:  store,
		audit:  audit,
		clock:  clock,
		txOpts: txOpts,
	}
}

func (uc *UpdateReservation) Execute(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
	changes domain.Changes,
) (*models.Reservation, error) {

	client, err := resolveClient(ctx, uc.store, userID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var updated *models.Reservation

	err = uc.store.WithinTx(ctx, uc.txOpts, func(tx domain.Repository) error {
		r, err := tx.GetReservationForClient(ctx, reservationID, client.ID)
		if err != nil {
			return err
		}

		if err := domain.ApplyUpdate(r, changes, now); err != nil {
			return err
		}

		if changes.TouchesDates() {
			oracle := domain.NewOracle(tx)

			if err := oracle.CheckClientOverlap(
				ctx, client.ID, r.VehicleID, r.StartDate, r.EndDate, &r.ID,
			); err != nil {
				return err
			}

			// confirmada já segura o veículo; só a sobreposição importa
			if domain.Status(r.Status).IsExclusive() {
				err = oracle.CheckOverlap(ctx, r.VehicleID, r.StartDate, r.EndDate, &r.ID)
			} else {
				err = oracle.Check(ctx, r.VehicleID, r.StartDate, r.EndDate, &r.ID)
			}
			if err != nil {
				return err
			}
		}

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}

		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, userID, "client", "reservation_updated", updated, nil)
	return updated, nil
}

// ======================================================
// CANCEL
// ======================================================

type CancelReservation struct {
	store domain.Store
	audit audit.Emitter
	clock timezone.Clock
}

func NewCancelReservation(
	store domain.Store,
	audit audit.Emitter,
	clock timezone.Clock,
) *CancelReservation {
	return &CancelReservation{
		store: store,
		audit: audit,
		clock: clock,
	}
}

func (uc *CancelReservation) Execute(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
	reason string,
) (*models.Reservation, error) {

	client, err := resolveClient(ctx, uc.store, userID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var cancelled *models.Reservation

	err = uc.store.WithinTx(ctx, domain.TxOptions{}, func(tx domain.Repository) error {
		r, err := tx.GetReservationForClient(ctx, reservationID, client.ID)
		if err != nil {
			return err
		}

		if err := domain.CanConsumerCancel(r, now); err != nil {
			return err
		}
		from := domain.Status(r.Status)

		if reason == "" {
			reason = "cancelled_by_client"
		}
		if err := domain.Cancel(r, reason, now); err != nil {
			return err
		}

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		if err := syncVehicle(ctx, tx, r, from, domain.StatusCancelled); err != nil {
			return err
		}

		cancelled = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, userID, "client", "reservation_cancelled", cancelled, map[string]any{
		"reason": cancelled.CancellationReason,
	})
	return cancelled, nil
}

// ======================================================
// COMPLETE (devolução pelo cliente)
// ======================================================

type CompleteReservation struct {
	store domain.Store
	audit audit.Emitter
	clock timezone.Clock
}

func NewCompleteReservation(
	store domain.Store,
	audit audit.Emitter,
	clock timezone.Clock,
) *CompleteReservation {
	return &CompleteReservation{
		store: store,
		audit: audit,
		clock: clock,
	}
}

func (uc *CompleteReservation) Execute(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
) (*models.Reservation, error) {

	client, err := resolveClient(ctx, uc.store, userID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var completed *models.Reservation

	err = uc.store.WithinTx(ctx, domain.TxOptions{}, func(tx domain.Repository) error {
		r, err := tx.GetReservationForClient(ctx, reservationID, client.ID)
		if err != nil {
			return err
		}

		from := domain.Status(r.Status)
		if err := domain.Complete(r, now); err != nil {
			return err
		}

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		if err := syncVehicle(ctx, tx, r, from, domain.StatusCompleted); err != nil {
			return err
		}

		completed = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, userID, "client", "reservation_completed", completed, nil)
	return completed, nil
}
