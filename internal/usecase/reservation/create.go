package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/audit"
	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/settlement"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateReservationInput struct {
	UserID     uuid.UUID
	PayerEmail string

	VehicleID uuid.UUID
	StartDate time.Time
	EndDate   time.Time

	PickupLocation string
	ReturnLocation string
	Notes          string

	PaymentMethod string
	Card          *payment.CardData
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	store      domain.Store
	settlement Submitter
	locker     Locker
	audit      audit.Emitter
	clock      timezone.Clock
	txOpts     domain.TxOptions
}

func NewCreateReservation(
	store domain.Store,
	settlement Submitter,
	locker Locker,
	audit audit.Emitter,
	clock timezone.Clock,
	txOpts domain.TxOptions,
) *CreateReservation {
	return &CreateReservation{
		store:      store,
		settlement: settlement,
		locker:     locker,
		audit:      audit,
		clock:      clock,
		txOpts:     txOpts,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateReservationInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// 1️⃣ Cliente
	// --------------------------------------------------
	client, err := resolveClient(ctx, uc.store, in.UserID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Datas e método
	// --------------------------------------------------
	if err := domain.ValidateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	method := payment.MethodCreditCard
	if in.PaymentMethod != "" {
		if method, err = payment.ParseMethodType(in.PaymentMethod); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 3️⃣ Lock por veículo (entre processos)
	// --------------------------------------------------
	unlock, err := uc.locker.Lock(ctx, in.VehicleID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	// --------------------------------------------------
	// 4️⃣ Disponibilidade + criação (mesma transação)
	// --------------------------------------------------
	now := uc.clock.Now()
	var created *models.Reservation

	err = uc.store.WithinTx(ctx, uc.txOpts, func(tx domain.Repository) error {
		oracle := domain.NewOracle(tx)

		if err := oracle.CheckClientOverlap(
			ctx,
			client.ID,
			in.VehicleID,
			in.StartDate,
			in.EndDate,
			nil,
		); err != nil {
			return err
		}

		if err := oracle.Check(ctx, in.VehicleID, in.StartDate, in.EndDate, nil); err != nil {
			return err
		}

		vehicle, err := tx.GetVehicle(ctx, in.VehicleID)
		if err != nil {
			return err
		}

		r, err := domain.New(domain.Draft{
			ClientID:       client.ID,
			Vehicle:        vehicle,
			StartDate:      in.StartDate,
			EndDate:        in.EndDate,
			PickupLocation: in.PickupLocation,
			ReturnLocation: in.ReturnLocation,
			Notes:          in.Notes,
			PaymentMethod:  string(method),
		}, now)
		if err != nil {
			return err
		}

		if err := tx.CreateReservation(ctx, r); err != nil {
			return err
		}

		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Liquidação só depois do commit
	// --------------------------------------------------
	userID := in.UserID
	uc.settlement.Submit(settlement.Job{
		ReservationID: created.ID,
		UserID:        &userID,
		Amount:        created.TotalAmount,
		Currency:      created.Currency,
		Method:        created.PaymentMethod,
		Card:          in.Card,
		PayerEmail:    in.PayerEmail,
	})

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	dispatch(uc.audit, in.UserID, "client", "reservation_created", created, map[string]any{
		"vehicle_id":   created.VehicleID,
		"total_amount": created.TotalAmount,
	})

	return created, nil
}
