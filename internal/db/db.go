package db

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/rental-scheduler/internal/config"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// AutoMigrate cria/ajusta as tabelas; as constraints ficam nos .sql.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Client{},
		&models.Provider{},
		&models.Vehicle{},
		&models.Reservation{},
		&models.Payment{},
		&models.PaymentMethod{},
		&models.AuditLog{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	// reservas antigas sem moeda
	if err := db.Exec(`
        UPDATE reservations
        SET currency = 'PEN'
        WHERE currency IS NULL OR currency = ''
    `).Error; err != nil {
		return errors.Wrap(err, "backfill currency")
	}

	return nil
}
