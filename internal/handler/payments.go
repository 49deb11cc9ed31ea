package handler

import (
	"net/http"

	"bistro/internal/dto"
	"bistro/internal/middleware"
	"bistro/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// History godoc
// @Summary      Payment history of the caller
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        email path     string true "Owner email (must match the token)"
// @Success      200   {array}  model.Payment
// @Failure      403   {object} apierror.APIError
// @Router       /payments/{email} [get]
func (h *PaymentsHandler) History(c *gin.Context) {
	list, err := h.svc.History(c.Request.Context(), middleware.ActorEmail(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateIntent godoc
// @Summary      Create a card payment intent
// @Description  The price is charged in USD; fractional cents are truncated.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.PaymentIntentRequest true "Amount"
// @Success      200  {object} dto.PaymentIntentResponse
// @Failure      502  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /create-payment-intent [post]
func (h *PaymentsHandler) CreateIntent(c *gin.Context) {
	var req dto.PaymentIntentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateIntent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Record godoc
// @Summary      Record a completed payment and clear the paid cart entries
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreatePaymentRequest true "Payment"
// @Success      200  {object} dto.PaymentResponse
// @Failure      400  {object} apierror.APIError
// @Router       /payments [post]
func (h *PaymentsHandler) Record(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), middleware.ActorEmail(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
