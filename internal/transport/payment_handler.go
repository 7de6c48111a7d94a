package transport

import (
	"errors"
	"net/http"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreatePaymentOrderRequest struct {
	OrderID  uuid.UUID `json:"orderId" validate:"required"`
	Amount   int       `json:"amount" validate:"gte=0"`
	Currency string    `json:"currency" validate:"omitempty,len=3"`
}

type VerifyPaymentRequest struct {
	OrderID           uuid.UUID `json:"orderId" validate:"required"`
	RazorpayOrderID   string    `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string    `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string    `json:"razorpay_signature" validate:"required"`
}

type PaymentHandler struct {
	base
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService, logger *zap.Logger, production bool) *PaymentHandler {
	return &PaymentHandler{base: base{logger: logger, production: production}, payments: payments}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router, authMiddleware Middleware) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/create-order", h.CreateOrder)
		r.Post("/verify-payment", h.VerifyPayment)
	})
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req CreatePaymentOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	gwOrder, err := h.payments.CreateGatewayOrder(r.Context(), id, req.OrderID, req.Amount, req.Currency)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, gwOrder, "")
}

func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	order, err := h.payments.VerifyPayment(r.Context(), id, service.VerifyPaymentInput{
		OrderID:        req.OrderID,
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPaymentVerification) {
			h.log(r).Warn("Payment verification failed", zap.String("order_id", req.OrderID.String()))
			middleware.RespondWithError(w, http.StatusBadRequest, "Payment verification failed")
			return
		}
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, order, "Payment verified successfully")
}
