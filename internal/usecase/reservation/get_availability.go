package reservation

import (
	"context"

	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute responde direto pelo oráculo; erro só para intervalo inválido.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (bool, error) {

	if err := domain.ValidateRange(in.StartDate, in.EndDate); err != nil {
		return false, err
	}

	oracle := domain.NewOracle(uc.repo)
	return oracle.IsVehicleBookable(ctx, in.VehicleID, in.StartDate, in.EndDate), nil
}
