package repository

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
)

const (
	sqlStateExclusionViolation   = "23P01"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// classify traduz violações do motor em erros de negócio; o resto é infra.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.AsBusiness(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateExclusionViolation:
			return httperr.ErrBusiness(httperr.KindUnavailable, "vehicle_already_booked")
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return httperr.ErrBusiness(httperr.KindUnavailable, "booking_conflict")
		}
	}

	return httperr.Infra(err, op)
}
