package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
)

type ProviderStats struct {
	Total      int `json:"total_reservations"`
	Pending    int `json:"pending_reservations"`
	Confirmed  int `json:"confirmed_reservations"`
	InProgress int `json:"in_progress_reservations"`
	Completed  int `json:"completed_reservations"`
	Cancelled  int `json:"cancelled_reservations"`

	// centavos, já descontada a taxa da plataforma
	TotalEarnings   int64 `json:"total_earnings"`
	MonthlyEarnings int64 `json:"monthly_earnings"`
}

type GetProviderStats struct {
	repo       domain.Repository
	clock      timezone.Clock
	feePercent int64
}

func NewGetProviderStats(
	repo domain.Repository,
	clock timezone.Clock,
	feePercent int64,
) *GetProviderStats {
	return &GetProviderStats{
		repo:       repo,
		clock:      clock,
		feePercent: feePercent,
	}
}

func (uc *GetProviderStats) Execute(
	ctx context.Context,
	userID uuid.UUID,
) (*ProviderStats, error) {

	provider, err := resolveProvider(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	list, err := uc.repo.ListByProvider(ctx, domain.ProviderFilter{ProviderID: provider.ID})
	if err != nil {
		return nil, err
	}

	return Summarize(list, uc.clock.Now().AddDate(0, -1, 0), uc.feePercent), nil
}

// Summarize conta por status e soma os ganhos das concluídas.
// monthStart delimita o "último mês" pela data de criação.
func Summarize(list []models.Reservation, monthStart time.Time, feePercent int64) *ProviderStats {
	s := &ProviderStats{Total: len(list)}

	for _, r := range list {
		switch domain.Status(r.Status) {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusConfirmed:
			s.Confirmed++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusCompleted:
			s.Completed++

			net := ProviderShare(r.TotalAmount, feePercent)
			s.TotalEarnings += net
			if !r.CreatedAt.Before(monthStart) {
				s.MonthlyEarnings += net
			}
		case domain.StatusCancelled:
			s.Cancelled++
		}
	}

	return s
}

func ProviderShare(amount int64, feePercent int64) int64 {
	return amount * (100 - feePercent) / 100
}
