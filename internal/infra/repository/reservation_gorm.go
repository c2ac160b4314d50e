package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Transaction boundary
// --------------------------------------------------

func (r *ReservationGormRepository) WithinTx(
	ctx context.Context,
	opts domain.TxOptions,
	fn func(tx domain.Repository) error,
) error {

	var txOpts []*sql.TxOptions
	if opts.Serializable {
		txOpts = append(txOpts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReservationGormRepository{db: tx})
	}, txOpts...)

	return classify(err, "reservation.tx")
}

// --------------------------------------------------
// Identity
// --------------------------------------------------

func (r *ReservationGormRepository) GetClientByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&client).Error; err != nil {
		return nil, notFoundOr(err, "client_not_found", "client.get")
	}
	return &client, nil
}

func (r *ReservationGormRepository) GetProviderByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*models.Provider, error) {

	var provider models.Provider
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&provider).Error; err != nil {
		return nil, notFoundOr(err, "provider_not_found", "provider.get")
	}
	return &provider, nil
}

// --------------------------------------------------
// Vehicle catalog
// --------------------------------------------------

func (r *ReservationGormRepository) GetVehicle(
	ctx context.Context,
	id uuid.UUID,
) (*models.Vehicle, error) {

	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "vehicle_not_found", "vehicle.get")
	}
	return &vehicle, nil
}

func (r *ReservationGormRepository) SetVehicleStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.VehicleStatus,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return httperr.Infra(res.Error, "vehicle.set_status")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.KindNotFound, "vehicle_not_found")
	}
	return nil
}

// --------------------------------------------------
// Reservation (create / overlap)
// --------------------------------------------------

func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(res).Error

	return classify(err, "reservation.create")
}

// HasOverlap trava as linhas conflitantes (FOR UPDATE) dentro da transação.
func (r *ReservationGormRepository) HasOverlap(
	ctx context.Context,
	q domain.OverlapQuery,
) (bool, error) {

	statuses := make([]string, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses = append(statuses, string(s))
	}

	tx := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"vehicle_id = ? AND status IN ? AND start_date < ? AND end_date > ?",
			q.VehicleID,
			statuses,
			q.End,
			q.Start,
		)

	if q.ClientID != nil {
		tx = tx.Where("client_id = ?", *q.ClientID)
	}
	if q.ExcludeID != nil {
		tx = tx.Where("id <> ?", *q.ExcludeID)
	}

	var ids []uuid.UUID
	if err := tx.Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, classify(err, "reservation.overlap")
	}

	return len(ids) > 0, nil
}

// --------------------------------------------------
// Reservation (scoped reads)
// --------------------------------------------------

func (r *ReservationGormRepository) getReservation(
	ctx context.Context,
	id uuid.UUID,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}).
		Preload("Vehicle").
		Preload("Client").
		First(&res, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "reservation_not_found", "reservation.get")
	}
	return &res, nil
}

func (r *ReservationGormRepository) GetReservationForClient(
	ctx context.Context,
	id uuid.UUID,
	clientID uuid.UUID,
) (*models.Reservation, error) {

	res, err := r.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.ClientID != clientID {
		return nil, httperr.ErrBusiness(httperr.KindUnauthorized, "reservation_not_owned")
	}
	return res, nil
}

func (r *ReservationGormRepository) GetReservationForProvider(
	ctx context.Context,
	id uuid.UUID,
	providerID uuid.UUID,
) (*models.Reservation, error) {

	res, err := r.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.ProviderID != providerID {
		return nil, httperr.ErrBusiness(httperr.KindUnauthorized, "reservation_not_owned")
	}
	return res, nil
}

func (r *ReservationGormRepository) ListByClient(
	ctx context.Context,
	clientID uuid.UUID,
	status *domain.Status,
) ([]models.Reservation, error) {

	q := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("client_id = ?", clientID)

	if status != nil {
		q = q.Where("status = ?", string(*status))
	}

	var list []models.Reservation
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, httperr.Infra(err, "reservation.list_client")
	}
	return list, nil
}

func (r *ReservationGormRepository) ListByProvider(
	ctx context.Context,
	f domain.ProviderFilter,
) ([]models.Reservation, error) {

	q := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Client").
		Where("provider_id = ?", f.ProviderID)

	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.VehicleID != nil {
		q = q.Where("vehicle_id = ?", *f.VehicleID)
	}
	if f.From != nil {
		q = q.Where("end_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_date <= ?", *f.To)
	}

	var list []models.Reservation
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, httperr.Infra(err, "reservation.list_provider")
	}
	return list, nil
}

// --------------------------------------------------
// Reservation (state change)
// --------------------------------------------------

// UpdateReservation substitui só os campos mutáveis; associações ficam de fora.
func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {

	res.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).
		Model(&models.Reservation{ID: res.ID}).
		Select(
			"start_date", "end_date",
			"pickup_location", "return_location", "notes",
			"status", "total_amount",
			"payment_status",
			"cancellation_reason", "cancelled_at",
			"confirmed_at", "started_at", "completed_at",
			"updated_at",
		).
		Updates(res).Error

	return classify(err, "reservation.update")
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func notFoundOr(err error, code string, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(httperr.KindNotFound, code)
	}
	return classify(err, op)
}

// Compile-time check
var _ domain.Store = (*ReservationGormRepository)(nil)
