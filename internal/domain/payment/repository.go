package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

type Repository interface {
	// -------- Payment methods --------
	CreateMethod(
		ctx context.Context,
		m *models.PaymentMethod,
	) error

	ListMethods(
		ctx context.Context,
		userID uuid.UUID,
	) ([]models.PaymentMethod, error)

	GetDefaultMethod(
		ctx context.Context,
		userID uuid.UUID,
	) (*models.PaymentMethod, error)

	SetDefaultMethod(
		ctx context.Context,
		userID uuid.UUID,
		methodID uuid.UUID,
	) (*models.PaymentMethod, error)

	DeleteMethod(
		ctx context.Context,
		userID uuid.UUID,
		methodID uuid.UUID,
	) error

	// -------- Payments --------
	ListPayments(
		ctx context.Context,
		userID uuid.UUID,
	) ([]models.Payment, error)
}

// Settlement é o resultado terminal de uma tentativa, gravado numa transação própria.
type Settlement struct {
	Payment *models.Payment

	// opcional; só com usuário explícito
	SaveMethod *models.PaymentMethod
}

type SettlementWriter interface {
	// RecordSettlement devolve false quando o payment_status da reserva
	// já não aceita a escrita (update perdido).
	RecordSettlement(
		ctx context.Context,
		s Settlement,
	) (bool, error)
}
