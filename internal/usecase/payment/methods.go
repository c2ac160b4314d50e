package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
	"github.com/BruksfildServices01/rental-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreatePaymentMethodInput struct {
	UserID uuid.UUID
	Type   string

	CardNumber     string
	CardHolderName string
	ExpiryMonth    int
	ExpiryYear     int

	PaypalEmail string

	BankName          string
	AccountNumber     string
	AccountHolderName string

	IsDefault bool
}

// ======================================================
// CREATE
// ======================================================

type CreatePaymentMethod struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewCreatePaymentMethod(repo domain.Repository, clock timezone.Clock) *CreatePaymentMethod {
	return &CreatePaymentMethod{repo: repo, clock: clock}
}

// Execute exige o usuário autenticado; não existe dono implícito.
func (uc *CreatePaymentMethod) Execute(
	ctx context.Context,
	in CreatePaymentMethodInput,
) (*models.PaymentMethod, error) {

	if in.UserID == uuid.Nil {
		return nil, httperr.ErrBusiness(httperr.KindValidation, "user_required")
	}

	kind, err := domain.ParseMethodType(in.Type)
	if err != nil {
		return nil, err
	}

	m := &models.PaymentMethod{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Type:      string(kind),
		IsDefault: in.IsDefault,
	}

	switch kind {
	case domain.MethodCreditCard:
		if err := validateCard(in, uc.clock.Now()); err != nil {
			return nil, err
		}
		m.CardLast4 = domain.Last4(in.CardNumber)
		m.CardType = string(domain.DetectCardType(in.CardNumber))
		m.CardHolderName = strings.TrimSpace(in.CardHolderName)
		m.ExpiryMonth = in.ExpiryMonth
		m.ExpiryYear = in.ExpiryYear

	case domain.MethodPaypal:
		email := strings.TrimSpace(in.PaypalEmail)
		if !validators.IsEmail(email) {
			return nil, httperr.ErrBusiness(httperr.KindValidation, "invalid_paypal_email")
		}
		m.PaypalEmail = email

	case domain.MethodBankAccount:
		account := domain.NormalizeCardNumber(in.AccountNumber)
		if in.BankName == "" || len(account) < 4 {
			return nil, httperr.ErrBusiness(httperr.KindValidation, "invalid_bank_account")
		}
		m.BankName = in.BankName
		m.AccountLast4 = account[len(account)-4:]
		m.AccountHolderName = in.AccountHolderName
	}

	if err := uc.repo.CreateMethod(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func validateCard(in CreatePaymentMethodInput, now time.Time) error {
	number := domain.NormalizeCardNumber(in.CardNumber)
	if len(number) < 12 || len(number) > 19 {
		return httperr.ErrBusiness(httperr.KindValidation, "invalid_card_number")
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return httperr.ErrBusiness(httperr.KindValidation, "invalid_card_number")
		}
	}

	if in.ExpiryMonth < 1 || in.ExpiryMonth > 12 {
		return httperr.ErrBusiness(httperr.KindValidation, "invalid_card_expiry")
	}

	// válido até o fim do mês de expiração
	expires := time.Date(in.ExpiryYear, time.Month(in.ExpiryMonth)+1, 1, 0, 0, 0, 0, time.UTC)
	if !expires.After(now) {
		return httperr.ErrBusiness(httperr.KindValidation, "card_expired")
	}
	return nil
}

// ======================================================
// MANAGE
// ======================================================

type ManagePaymentMethods struct {
	repo domain.Repository
}

func NewManagePaymentMethods(repo domain.Repository) *ManagePaymentMethods {
	return &ManagePaymentMethods{repo: repo}
}

func (uc *ManagePaymentMethods) List(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.PaymentMethod, error) {
	return uc.repo.ListMethods(ctx, userID)
}

func (uc *ManagePaymentMethods) Default(
	ctx context.Context,
	userID uuid.UUID,
) (*models.PaymentMethod, error) {
	return uc.repo.GetDefaultMethod(ctx, userID)
}

func (uc *ManagePaymentMethods) SetDefault(
	ctx context.Context,
	userID uuid.UUID,
	methodID uuid.UUID,
) (*models.PaymentMethod, error) {
	return uc.repo.SetDefaultMethod(ctx, userID, methodID)
}

func (uc *ManagePaymentMethods) Delete(
	ctx context.Context,
	userID uuid.UUID,
	methodID uuid.UUID,
) error {
	return uc.repo.DeleteMethod(ctx, userID, methodID)
}

// ======================================================
// HISTORY
// ======================================================

type ListPayments struct {
	repo domain.Repository
}

func NewListPayments(repo domain.Repository) *ListPayments {
	return &ListPayments{repo: repo}
}

func (uc *ListPayments) Execute(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.Payment, error) {
	return uc.repo.ListPayments(ctx, userID)
}
