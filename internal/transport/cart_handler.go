package transport

import (
	"net/http"

	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"omitempty,gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CartHandler struct {
	base
	cart service.CartService
}

func NewCartHandler(cart service.CartService, logger *zap.Logger, production bool) *CartHandler {
	return &CartHandler{base: base{logger: logger, production: production}, cart: cart}
}

func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware Middleware) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Post("/add", h.AddItem)
		r.Put("/item/{itemId}", h.UpdateItem)
		r.Delete("/item/{itemId}", h.RemoveItem)
		r.Delete("/clear", h.Clear)
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	view, err := h.cart.GetCart(r.Context(), id.UserID)
	h.respond(w, r, view, err, "")
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.cart.AddItem(r.Context(), id.UserID, req.ProductID, quantity)
	h.respond(w, r, view, err, "Item added to cart")
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.cart.UpdateItem(r.Context(), id.UserID, itemID, *req.Quantity)
	h.respond(w, r, view, err, "Cart updated")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.cart.RemoveItem(r.Context(), id.UserID, itemID)
	h.respond(w, r, view, err, "Item removed from cart")
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	view, err := h.cart.Clear(r.Context(), id.UserID)
	h.respond(w, r, view, err, "Cart cleared")
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, view *service.CartView, err error, message string) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, view, message)
}
