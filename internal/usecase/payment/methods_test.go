package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
	uc "github.com/BruksfildServices01/rental-scheduler/internal/usecase/payment"
)

// --- Mock ---

type mockRepo struct {
	domain.Repository

	created []*models.PaymentMethod
}

func (m *mockRepo) CreateMethod(_ context.Context, pm *models.PaymentMethod) error {
	m.created = append(m.created, pm)
	return nil
}

// --- Setup ---

func setupCreate(t *testing.T) (*uc.CreatePaymentMethod, *mockRepo) {
	t.Helper()
	repo := &mockRepo{}
	clock := timezone.Fixed(time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC))
	return uc.NewCreatePaymentMethod(repo, clock), repo
}

// --- Tests ---

func TestCreateCardMethodStoresOnlyLast4(t *testing.T) {
	create, repo := setupCreate(t)
	user := uuid.New()

	m, err := create.Execute(context.Background(), uc.CreatePaymentMethodInput{
		UserID:         user,
		Type:           "credit_card",
		CardNumber:     "2221 0000 0000 0009",
		CardHolderName: " Ana Quispe ",
		ExpiryMonth:    7,
		ExpiryYear:     2026,
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	assert.Equal(t, user, m.UserID)
	assert.Equal(t, "0009", m.CardLast4)
	assert.Equal(t, string(domain.CardMastercard), m.CardType)
	assert.Equal(t, "Ana Quispe", m.CardHolderName)
}

func TestCreateCardMethodRejectsExpired(t *testing.T) {
	create, repo := setupCreate(t)

	_, err := create.Execute(context.Background(), uc.CreatePaymentMethodInput{
		UserID:      uuid.New(),
		Type:        "credit_card",
		CardNumber:  "4111111111111111",
		ExpiryMonth: 6,
		ExpiryYear:  2026,
	})
	assert.True(t, httperr.IsBusiness(err, "card_expired"))
	assert.Empty(t, repo.created)
}

func TestCreateCardMethodRejectsBadNumber(t *testing.T) {
	create, _ := setupCreate(t)

	for _, number := range []string{"4111", "4111-1111-1111-111x", "41111111111111111111"} {
		_, err := create.Execute(context.Background(), uc.CreatePaymentMethodInput{
			UserID:      uuid.New(),
			Type:        "credit_card",
			CardNumber:  number,
			ExpiryMonth: 1,
			ExpiryYear:  2030,
		})
		assert.True(t, httperr.IsBusiness(err, "invalid_card_number"), number)
	}
}

func TestCreatePaypalAndBankMethods(t *testing.T) {
	create, repo := setupCreate(t)
	user := uuid.New()

	_, err := create.Execute(context.Background(), uc.CreatePaymentMethodInput{
		UserID:      user,
		Type:        "paypal",
		PaypalEmail: "ana@example.com",
	})
	require.NoError(t, err)

	_, err = create.Execute(context.Background(), uc.CreatePaymentMethodInput{
		UserID:        user,
		Type:          "bank_account",
		BankName:      "BCP",
		AccountNumber: "191-2345678-0-55",
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 2)
	assert.Equal(t, "ana@example.com", repo.created[0].PaypalEmail)
	assert.Equal(t, "8055", repo.created[1].AccountLast4)

	_, err = create.Execute(context.Background(), uc.CreatePaymentMethodInput{
		UserID:      user,
		Type:        "paypal",
		PaypalEmail: "not-an-email",
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_paypal_email"))
}

func TestCreateMethodRequiresUser(t *testing.T) {
	create, repo := setupCreate(t)

	_, err := create.Execute(context.Background(), uc.CreatePaymentMethodInput{
		Type:        "paypal",
		PaypalEmail: "ana@example.com",
	})
	assert.True(t, httperr.IsBusiness(err, "user_required"))
	assert.Empty(t, repo.created)
}
