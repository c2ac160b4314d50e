package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
)

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return uuid.Nil, false
	}
	return id, true
}

// optionalDate devolve nil para string vazia.
func optionalDate(value, tz string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := timezone.ParseDate(value, tz)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
