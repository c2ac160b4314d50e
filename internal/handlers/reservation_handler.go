package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/rental-scheduler/internal/domain/payment"
	domain "github.com/BruksfildServices01/rental-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/dto"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/rental-scheduler/internal/middleware"
	"github.com/BruksfildServices01/rental-scheduler/internal/timezone"
	ucReservation "github.com/BruksfildServices01/rental-scheduler/internal/usecase/reservation"
	"github.com/BruksfildServices01/rental-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	create   *ucReservation.CreateReservation
	get      *ucReservation.GetReservation
	list     *ucReservation.ListReservations
	update   *ucReservation.UpdateReservation
	cancel   *ucReservation.CancelReservation
	complete *ucReservation.CompleteReservation

	clock    timezone.Clock
	timezone string

	// gateway tokenizado: o cartão pode chegar só com token
	cardTokens bool
}

func NewReservationHandler(
	create *ucReservation.CreateReservation,
	get *ucReservation.GetReservation,
	list *ucReservation.ListReservations,
	update *ucReservation.UpdateReservation,
	cancel *ucReservation.CancelReservation,
	complete *ucReservation.CompleteReservation,
	clock timezone.Clock,
	tz string,
	cardTokens bool,
) *ReservationHandler {
	return &ReservationHandler{
		create:     create,
		get:        get,
		list:       list,
		update:     update,
		cancel:     cancel,
		complete:   complete,
		clock:      clock,
		timezone:   tz,
		cardTokens: cardTokens,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CardRequest struct {
	Number      string `json:"card_number"`
	HolderName  string `json:"card_holder_name"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	CVV         string `json:"cvv"`
	SaveCard    bool   `json:"save_card"`
	Token       string `json:"token"`
}

type CreateReservationRequest struct {
	VehicleID      string       `json:"vehicle_id" binding:"required"`
	StartDate      string       `json:"start_date" binding:"required"`
	EndDate        string       `json:"end_date" binding:"required"`
	PickupLocation string       `json:"pickup_location"`
	ReturnLocation string       `json:"return_location"`
	Notes          string       `json:"notes"`
	PaymentMethod  string       `json:"payment_method"`
	PayerEmail     string       `json:"payer_email"`
	Card           *CardRequest `json:"card"`
}

type UpdateReservationRequest struct {
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	PickupLocation *string `json:"pickup_location"`
	ReturnLocation *string `json:"return_location"`
	Notes          *string `json:"notes"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.PayerEmail != "" && !validators.IsEmail(req.PayerEmail) {
		httperr.BadRequest(c, "invalid_payer_email", "E-mail inválido.")
		return
	}

	if req.Card != nil && !h.cardAccepted(req.Card) {
		httperr.BadRequest(c, "card_number_required", "Número do cartão obrigatório.")
		return
	}

	vehicleID, err := optionalUUID(req.VehicleID)
	if err != nil || vehicleID == nil {
		httperr.BadRequest(c, "invalid_vehicle_id", "Veículo inválido.")
		return
	}

	start, err := timezone.ParseDate(req.StartDate, h.timezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_date", "Data inicial inválida.")
		return
	}
	end, err := timezone.ParseDate(req.EndDate, h.timezone)
	if err != nil {
		httperr.BadRequest(c, "invalid_end_date", "Data final inválida.")
		return
	}

	in := ucReservation.CreateReservationInput{
		UserID:         middleware.UserID(c),
		PayerEmail:     req.PayerEmail,
		VehicleID:      *vehicleID,
		StartDate:      start,
		EndDate:        end,
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		Notes:          req.Notes,
		PaymentMethod:  req.PaymentMethod,
	}

	if req.Card != nil {
		in.Card = &payment.CardData{
			Number:      req.Card.Number,
			HolderName:  req.Card.HolderName,
			ExpiryMonth: req.Card.ExpiryMonth,
			ExpiryYear:  req.Card.ExpiryYear,
			CVV:         req.Card.CVV,
			SaveCard:    req.Card.SaveCard,
			Token:       req.Card.Token,
		}
	}

	created, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.ReservationFromModel(created, h.clock.Now()))
}

// cardAccepted exige o número, exceto com gateway tokenizado e token presente.
func (h *ReservationHandler) cardAccepted(card *CardRequest) bool {
	if card.Number != "" {
		return true
	}
	return h.cardTokens && card.Token != ""
}

// ======================================================
// GET / LIST
// ======================================================

func (h *ReservationHandler) List(c *gin.Context) {
	list, err := h.list.Execute(c.Request.Context(), middleware.UserID(c), c.Query("status"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.ReservationsFromModels(list, h.clock.Now()))
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	r, err := h.get.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.ReservationFromModel(r, h.clock.Now()))
}

// ======================================================
// UPDATE
// ======================================================

func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	changes := domain.Changes{
		PickupLocation: req.PickupLocation,
		ReturnLocation: req.ReturnLocation,
		Notes:          req.Notes,
	}

	if req.StartDate != nil {
		start, err := timezone.ParseDate(*req.StartDate, h.timezone)
		if err != nil {
			httperr.BadRequest(c, "invalid_start_date", "Data inicial inválida.")
			return
		}
		changes.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := timezone.ParseDate(*req.EndDate, h.timezone)
		if err != nil {
			httperr.BadRequest(c, "invalid_end_date", "Data final inválida.")
			return
		}
		changes.EndDate = &end
	}

	updated, err := h.update.Execute(c.Request.Context(), middleware.UserID(c), id, changes)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.ReservationFromModel(updated, h.clock.Now()))
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	// corpo opcional
	var req CancelReservationRequest
	_ = c.ShouldBindJSON(&req)

	cancelled, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), id, req.Reason)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.ReservationFromModel(cancelled, h.clock.Now()))
}

func (h *ReservationHandler) Complete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	completed, err := h.complete.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.ReservationFromModel(completed, h.clock.Now()))
}
