package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
)

// ======================================================
// TRANSITIONS
// ======================================================

type ProviderTransition struct {
	store  domain.Store
	audit  audit.Emitter
	clock  timezone.Clock
	policy domain.ConfirmPolicy
}

func NewProviderTransition(
	store domain.Store,
	audit audit.Emitter,
	clock timezone.Clock,
	policy domain.ConfirmPolicy,
) *ProviderTransition {
	return &ProviderTransition{
		store:  store,
		audit:  audit,
		clock:  clock,
		policy: policy,
	}
}

func (uc *ProviderTransition) Confirm(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
) (*models.Reservation, error) {
	return uc.UpdateStatus(ctx, userID, reservationID, domain.StatusConfirmed, "")
}

func (uc *ProviderTransition) Start(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
) (*models.Reservation, error) {
	return uc.UpdateStatus(ctx, userID, reservationID, domain.StatusInProgress, "")
}

func (uc *ProviderTransition) Complete(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
) (*models.Reservation, error) {
	return uc.UpdateStatus(ctx, userID, reservationID, domain.StatusCompleted, "")
}

func (uc *ProviderTransition) Reject(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
	reason string,
) (*models.Reservation, error) {

	return uc.execute(ctx, userID, reservationID, "reservation_rejected",
		func(tx domain.Repository, r *models.Reservation, now time.Time) (domain.Status, error) {
			return domain.StatusCancelled, domain.Reject(r, reason, now)
		},
	)
}

// UpdateStatus aceita qualquer transição legal, inclusive cancelar
// confirmada/em andamento.
func (uc *ProviderTransition) UpdateStatus(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
	target domain.Status,
	reason string,
) (*models.Reservation, error) {

	if target == domain.StatusCancelled && reason == "" {
		reason = "cancelled_by_provider"
	}

	return uc.execute(ctx, userID, reservationID, "reservation_"+string(target),
		func(tx domain.Repository, r *models.Reservation, now time.Time) (domain.Status, error) {
			if err := domain.Apply(r, target, reason, uc.policy, now); err != nil {
				return "", err
			}

			// ao virar exclusiva, nenhuma outra exclusiva pode sobrepor
			if target == domain.StatusConfirmed {
				oracle := domain.NewOracle(tx)
				if err := oracle.CheckOverlap(ctx, r.VehicleID, r.StartDate, r.EndDate, &r.ID); err != nil {
					return "", err
				}
			}
			return target, nil
		},
	)
}

type transitionFunc func(
	tx domain.Repository,
	r *models.Reservation,
	now time.Time,
) (domain.Status, error)

func (uc *ProviderTransition) execute(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
	action string,
	fn transitionFunc,
) (*models.Reservation, error) {

	provider, err := resolveProvider(ctx, uc.store, userID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var result *models.Reservation
	var from domain.Status

	err = uc.store.WithinTx(ctx, domain.TxOptions{}, func(tx domain.Repository) error {
		r, err := tx.GetReservationForProvider(ctx, reservationID, provider.ID)
		if err != nil {
			return err
		}
		from = domain.Status(r.Status)

		to, err := fn(tx, r, now)
		if err != nil {
			return err
		}

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		if err := syncVehicle(ctx, tx, r, from, to); err != nil {
			return err
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.audit, userID, "provider", action, result, map[string]any{
		"from":   from,
		"to":     result.Status,
		"reason": result.CancellationReason,
	})
	return result, nil
}

// ======================================================
// GET / LIST
// ======================================================

type ProviderListInput struct {
	Status    string
	VehicleID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

type ListProviderReservations struct {
	repo domain.Repository
}

func NewListProviderReservations(repo domain.Repository) *ListProviderReservations {
	return &ListProviderReservations{repo: repo}
}

func (uc *ListProviderReservations) Execute(
	ctx context.Context,
	userID uuid.UUID,
	in ProviderListInput,
) ([]models.Reservation, error) {

	provider, err := resolveProvider(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	f := domain.ProviderFilter{
		ProviderID: provider.ID,
		From:       in.From,
		To:         in.To,
	}

	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f.Status = &st
	}

	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, httperr.ErrBusiness(httperr.KindValidation, "invalid_date_range")
	}

	// -------- veículo precisa ser do provedor --------
	if in.VehicleID != nil {
		vehicle, err := uc.repo.GetVehicle(ctx, *in.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle.ProviderID != provider.ID {
			return nil, httperr.ErrBusiness(httperr.KindUnauthorized, "vehicle_not_owned")
		}
		f.VehicleID = in.VehicleID
	}

	return uc.repo.ListByProvider(ctx, f)
}

type GetProviderReservation struct {
	repo domain.Repository
}

func NewGetProviderReservation(repo domain.Repository) *GetProviderReservation {
	return &GetProviderReservation{repo: repo}
}

func (uc *GetProviderReservation) Execute(
	ctx context.Context,
	userID uuid.UUID,
	reservationID uuid.UUID,
) (*models.Reservation, error) {

	provider, err := resolveProvider(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	return uc.repo.GetReservationForProvider(ctx, reservationID, provider.ID)
}
