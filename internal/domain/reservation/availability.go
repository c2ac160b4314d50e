package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
)

type AvailabilityInput struct {
	VehicleID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// Oracle responde se um veículo pode ser reservado num intervalo.
// Deve ser construído sobre o repositório da transação corrente.
type Oracle struct {
	repo Repository
}

func NewOracle(repo Repository) *Oracle {
	return &Oracle{repo: repo}
}

// IsVehicleBookable falha fechado: qualquer erro vira "indisponível".
func (o *Oracle) IsVehicleBookable(
	ctx context.Context,
	vehicleID uuid.UUID,
	start time.Time,
	end time.Time,
) bool {
	return o.Check(ctx, vehicleID, start, end, nil) == nil
}

// Check devolve Unavailable, NotFound ou Infra. exclude ignora a própria
// reserva quando ela é reavaliada (update de datas, confirmação).
func (o *Oracle) Check(
	ctx context.Context,
	vehicleID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) error {

	vehicle, err := o.repo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}

	if VehicleStatus(vehicle.Status) != VehicleAvailable {
		return httperr.ErrBusiness(httperr.KindUnavailable, "vehicle_not_available")
	}

	return o.CheckOverlap(ctx, vehicleID, start, end, exclude)
}

// CheckOverlap ignora o status do veículo; usado na confirmação/início,
// quando o veículo já pode estar retido.
func (o *Oracle) CheckOverlap(
	ctx context.Context,
	vehicleID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) error {

	taken, err := o.repo.HasOverlap(ctx, OverlapQuery{
		VehicleID: vehicleID,
		Start:     start,
		End:       end,
		Statuses:  ExclusiveStatuses(),
		ExcludeID: exclude,
	})
	if err != nil {
		return httperr.Infra(err, "availability.overlap")
	}
	if taken {
		return httperr.ErrBusiness(httperr.KindUnavailable, "vehicle_already_booked")
	}
	return nil
}

// CheckClientOverlap impede o mesmo cliente de reservar duas vezes,
// mesmo em pending.
func (o *Oracle) CheckClientOverlap(
	ctx context.Context,
	clientID uuid.UUID,
	vehicleID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) error {

	taken, err := o.repo.HasOverlap(ctx, OverlapQuery{
		VehicleID: vehicleID,
		Start:     start,
		End:       end,
		Statuses:  ActiveStatuses(),
		ClientID:  &clientID,
		ExcludeID: exclude,
	})
	if err != nil {
		return httperr.Infra(err, "availability.client_overlap")
	}
	if taken {
		return httperr.ErrBusiness(httperr.KindSelfOverlap, "client_already_booked")
	}
	return nil
}

// Overlaps é a mesma regra semiaberta da consulta, para uso em memória.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
