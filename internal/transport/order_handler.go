package transport

import (
	"net/http"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

type ShippingAddressRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Pincode   string `json:"pincode" validate:"required"`
	Country   string `json:"country"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod" validate:"required,oneof=card upi cod"`
	Subtotal        int                    `json:"subtotal" validate:"gte=0"`
	Shipping        int                    `json:"shipping" validate:"gte=0"`
	Tax             int                    `json:"tax" validate:"gte=0"`
	Total           int                    `json:"total" validate:"gte=0"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus   *domain.OrderStatus   `json:"orderStatus"`
	PaymentStatus *domain.PaymentStatus `json:"paymentStatus"`
}

type OrderHandler struct {
	base
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService, logger *zap.Logger, production bool) *OrderHandler {
	return &OrderHandler{base: base{logger: logger, production: production}, orders: orders}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware Middleware) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.UpdateStatus)
	})
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	lines := make([]service.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	country := req.ShippingAddress.Country
	if country == "" {
		country = "India"
	}

	order, err := h.orders.CreateOrder(r.Context(), id.UserID, service.CreateOrderInput{
		Items: lines,
		ShippingAddress: domain.ShippingAddress{
			FirstName: req.ShippingAddress.FirstName,
			LastName:  req.ShippingAddress.LastName,
			Email:     req.ShippingAddress.Email,
			Phone:     req.ShippingAddress.Phone,
			Address:   req.ShippingAddress.Address,
			City:      req.ShippingAddress.City,
			State:     req.ShippingAddress.State,
			Pincode:   req.ShippingAddress.Pincode,
			Country:   country,
		},
		PaymentMethod: req.PaymentMethod,
		Subtotal:      req.Subtotal,
		Shipping:      req.Shipping,
		Tax:           req.Tax,
		Total:         req.Total,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	middleware.RespondWithSuccess(w, http.StatusCreated, order, "Order placed successfully")
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	middleware.RespondWithSuccess(w, http.StatusOK, orders, "")
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id, orderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, order, "")
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, orderID, service.StatusUpdate{
		OrderStatus:   req.OrderStatus,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, order, "Order updated successfully")
}
