package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

// --------------------------------------------------
// Payment methods
// --------------------------------------------------

// CreateMethod: o primeiro método do usuário vira padrão; um novo padrão
// desmarca os demais.
func (r *PaymentGormRepository) CreateMethod(
	ctx context.Context,
	m *models.PaymentMethod,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PaymentMethod{}).
			Where("user_id = ?", m.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			m.IsDefault = true
		}

		if m.IsDefault {
			if err := unsetDefaults(tx, m.UserID); err != nil {
				return err
			}
		}

		return tx.Create(m).Error
	})

	return httperr.Infra(err, "payment_method.create")
}

func (r *PaymentGormRepository) ListMethods(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.PaymentMethod, error) {

	var list []models.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&list).Error; err != nil {
		return nil, httperr.Infra(err, "payment_method.list")
	}
	return list, nil
}

func (r *PaymentGormRepository) GetDefaultMethod(
	ctx context.Context,
	userID uuid.UUID,
) (*models.PaymentMethod, error) {

	var m models.PaymentMethod
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = true", userID).
		First(&m).Error; err != nil {
		return nil, notFoundOr(err, "payment_method_not_found", "payment_method.default")
	}
	return &m, nil
}

func (r *PaymentGormRepository) SetDefaultMethod(
	ctx context.Context,
	userID uuid.UUID,
	methodID uuid.UUID,
) (*models.PaymentMethod, error) {

	var m models.PaymentMethod

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ? AND user_id = ?", methodID, userID).
			First(&m).Error; err != nil {
			return notFoundOr(err, "payment_method_not_found", "payment_method.get")
		}

		if err := unsetDefaults(tx, userID); err != nil {
			return err
		}

		m.IsDefault = true
		return tx.Model(&m).Update("is_default", true).Error
	})
	if err != nil {
		return nil, httperr.Infra(err, "payment_method.set_default")
	}
	return &m, nil
}

func (r *PaymentGormRepository) DeleteMethod(
	ctx context.Context,
	userID uuid.UUID,
	methodID uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", methodID, userID).
		Delete(&models.PaymentMethod{})
	if res.Error != nil {
		return httperr.Infra(res.Error, "payment_method.delete")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.KindNotFound, "payment_method_not_found")
	}
	return nil
}

func unsetDefaults(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Model(&models.PaymentMethod{}).
		Where("user_id = ? AND is_default = true", userID).
		Update("is_default", false).Error
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *PaymentGormRepository) ListPayments(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.Payment, error) {

	var list []models.Payment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, httperr.Infra(err, "payment.list")
	}
	return list, nil
}

// --------------------------------------------------
// Settlement write-back
// --------------------------------------------------

// RecordSettlement grava o pagamento e atualiza só os campos de pagamento
// da reserva. O status da reserva não é lido nem escrito.
func (r *PaymentGormRepository) RecordSettlement(
	ctx context.Context,
	s payment.Settlement,
) (bool, error) {

	settleable := make([]string, 0, 2)
	for _, ps := range reservation.SettleableStatuses() {
		settleable = append(settleable, string(ps))
	}

	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(s.Payment).Error; err != nil {
			return err
		}

		if s.SaveMethod != nil {
			if err := unsetDefaults(tx, s.SaveMethod.UserID); err != nil {
				return err
			}
			s.SaveMethod.IsDefault = true
			if err := tx.Create(s.SaveMethod).Error; err != nil {
				return err
			}
		}

		res := tx.Model(&models.Reservation{}).
			Where("id = ? AND payment_status IN ?", s.Payment.ReservationID, settleable).
			Updates(map[string]any{
				"payment_status":         s.Payment.Status,
				"payment_transaction_id": s.Payment.TransactionID,
				"paid_at":                s.Payment.PaymentDate,
				"payment_notes":          s.Payment.Notes,
				"updated_at":             time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}

		applied = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, httperr.Infra(err, "settlement.record")
	}
	return applied, nil
}

var (
	_ payment.Repository       = (*PaymentGormRepository)(nil)
	_ payment.SettlementWriter = (*PaymentGormRepository)(nil)
)
