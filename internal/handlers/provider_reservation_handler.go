package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/dto"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/rental-scheduler/internal/middleware"
	"github.com/BruksfildServices01/rental-scheduler/internal/models"
	ucReservation "github.com/BruksfildServices01/rental-scheduler/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ProviderReservationHandler struct {
	transition *ucReservation.ProviderTransition
	list       *ucReservation.ListProviderReservations
	get        *ucReservation.GetProviderReservation
	stats      *ucReservation.GetProviderStats

	timezone string
}

func NewProviderReservationHandler(
	transition *ucReservation.ProviderTransition,
	list *ucReservation.ListProviderReservations,
	get *ucReservation.GetProviderReservation,
	stats *ucReservation.GetProviderStats,
	tz string,
) *ProviderReservationHandler {
	return &ProviderReservationHandler{
		transition: transition,
		list:       list,
		get:        get,
		stats:      stats,
		timezone:   tz,
	}
}

type RejectReservationRequest struct {
	Reason string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ======================================================
// LIST / GET / STATS
// ======================================================

// List aceita ?status=&vehicle_id=&from=&to=
func (h *ProviderReservationHandler) List(c *gin.Context) {
	vehicleID, err := optionalUUID(c.Query("vehicle_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_vehicle_id", "Veículo inválido.")
		return
	}

	from, err := optionalDate(c.Query("from"), h.timezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_from", "Data inicial inválida.")
		return
	}
	to, err := optionalDate(c.Query("to"), h.timezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_to", "Data final inválida.")
		return
	}

	list, err := h.list.Execute(c.Request.Context(), middleware.UserID(c), ucReservation.ProviderListInput{
		Status:    c.Query("status"),
		VehicleID: vehicleID,
		From:      from,
		To:        to,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.ProviderReservationsFromModels(list))
}

func (h *ProviderReservationHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	r, err := h.get.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.ProviderReservationFromModel(r))
}

func (h *ProviderReservationHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, stats)
}

// ======================================================
// TRANSITIONS
// ======================================================

type providerAction func(c *gin.Context, userID, id uuid.UUID) (*models.Reservation, error)

func (h *ProviderReservationHandler) run(c *gin.Context, action providerAction) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	r, err := action(c, middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.ProviderReservationFromModel(r))
}

func (h *ProviderReservationHandler) Confirm(c *gin.Context) {
	h.run(c, func(c *gin.Context, userID, id uuid.UUID) (*models.Reservation, error) {
		return h.transition.Confirm(c.Request.Context(), userID, id)
	})
}

func (h *ProviderReservationHandler) Start(c *gin.Context) {
	h.run(c, func(c *gin.Context, userID, id uuid.UUID) (*models.Reservation, error) {
		return h.transition.Start(c.Request.Context(), userID, id)
	})
}

func (h *ProviderReservationHandler) Complete(c *gin.Context) {
	h.run(c, func(c *gin.Context, userID, id uuid.UUID) (*models.Reservation, error) {
		return h.transition.Complete(c.Request.Context(), userID, id)
	})
}

func (h *ProviderReservationHandler) Reject(c *gin.Context) {
	var req RejectReservationRequest
	_ = c.ShouldBindJSON(&req)

	h.run(c, func(c *gin.Context, userID, id uuid.UUID) (*models.Reservation, error) {
		return h.transition.Reject(c.Request.Context(), userID, id, req.Reason)
	})
}

func (h *ProviderReservationHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.run(c, func(c *gin.Context, userID, id uuid.UUID) (*models.Reservation, error) {
		return h.transition.UpdateStatus(c.Request.Context(), userID, id, target, req.Reason)
	})
}
