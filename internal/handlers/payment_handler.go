package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/rental-scheduler/internal/dto"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
	"github.com/BruksfildServices01/rental-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/rental-scheduler/internal/middleware"
	ucPayment "github.com/BruksfildServices01/rental-scheduler/internal/usecase/payment"
)

type PaymentHandler struct {
	create   *ucPayment.CreatePaymentMethod
	methods  *ucPayment.ManagePaymentMethods
	payments *ucPayment.ListPayments
}

func NewPaymentHandler(
	create *ucPayment.CreatePaymentMethod,
	methods *ucPayment.ManagePaymentMethods,
	payments *ucPayment.ListPayments,
) *PaymentHandler {
	return &PaymentHandler{
		create:   create,
		methods:  methods,
		payments: payments,
	}
}

type CreatePaymentMethodRequest struct {
	Type string `json:"type" binding:"required"`

	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`

	PaypalEmail string `json:"paypal_email"`

	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	AccountHolderName string `json:"account_holder_name"`

	IsDefault bool `json:"is_default"`
}

// ======================================================
// PAYMENT METHODS
// ======================================================

func (h *PaymentHandler) CreateMethod(c *gin.Context) {
	var req CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	m, err := h.create.Execute(c.Request.Context(), ucPayment.CreatePaymentMethodInput{
		UserID:            middleware.UserID(c),
		Type:              req.Type,
		CardNumber:        req.CardNumber,
		CardHolderName:    req.CardHolderName,
		ExpiryMonth:       req.ExpiryMonth,
		ExpiryYear:        req.ExpiryYear,
		PaypalEmail:       req.PaypalEmail,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		AccountHolderName: req.AccountHolderName,
		IsDefault:         req.IsDefault,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.PaymentMethodFromModel(m))
}

func (h *PaymentHandler) ListMethods(c *gin.Context) {
	list, err := h.methods.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.PaymentMethodsFromModels(list))
}

func (h *PaymentHandler) DefaultMethod(c *gin.Context) {
	m, err := h.methods.Default(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.PaymentMethodFromModel(m))
}

func (h *PaymentHandler) SetDefaultMethod(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.methods.SetDefault(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.PaymentMethodFromModel(m))
}

func (h *PaymentHandler) DeleteMethod(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.methods.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// HISTORY
// ======================================================

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	list, err := h.payments.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.PaymentsFromModels(list))
}
