package transport

import (
	"net/http"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddressRequest is used for both create and partial update. Required fields
// are enforced by the address book, not here, so a patch may omit them.
type AddressRequest struct {
	Type         *domain.AddressType `json:"type" validate:"omitempty,oneof=home work other"`
	FullName     *string             `json:"fullName"`
	Phone        *string             `json:"phone"`
	AddressLine1 *string             `json:"addressLine1"`
	AddressLine2 *string             `json:"addressLine2"`
	City         *string             `json:"city"`
	State        *string             `json:"state"`
	Pincode      *string             `json:"pincode"`
	Landmark     *string             `json:"landmark"`
	IsDefault    *bool               `json:"isDefault"`
}

func (req AddressRequest) patch() domain.AddressPatch {
	return domain.AddressPatch{
		Type:         req.Type,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Landmark:     req.Landmark,
		IsDefault:    req.IsDefault,
	}
}

func (req AddressRequest) address() domain.Address {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	addr := domain.Address{
		FullName:     deref(req.FullName),
		Phone:        deref(req.Phone),
		AddressLine1: deref(req.AddressLine1),
		AddressLine2: deref(req.AddressLine2),
		City:         deref(req.City),
		State:        deref(req.State),
		Pincode:      deref(req.Pincode),
		Landmark:     deref(req.Landmark),
	}
	if req.Type != nil {
		addr.Type = *req.Type
	}
	if req.IsDefault != nil {
		addr.IsDefault = *req.IsDefault
	}
	return addr
}

type AddressHandler struct {
	base
	addresses service.AddressService
}

func NewAddressHandler(addresses service.AddressService, logger *zap.Logger, production bool) *AddressHandler {
	return &AddressHandler{base: base{logger: logger, production: production}, addresses: addresses}
}

func (h *AddressHandler) RegisterRoutes(r chi.Router, authMiddleware Middleware) {
	r.Route("/user/addresses", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Remove)
		r.Put("/{id}/default", h.SetDefault)
	})
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	book, err := h.addresses.List(r.Context(), id.UserID)
	h.respond(w, r, http.StatusOK, book, err, "")
}

func (h *AddressHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req AddressRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	book, err := h.addresses.Add(r.Context(), id.UserID, req.address())
	h.respond(w, r, http.StatusCreated, book, err, "Address added successfully")
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	addressID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req AddressRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	book, err := h.addresses.Update(r.Context(), id.UserID, addressID, req.patch())
	h.respond(w, r, http.StatusOK, book, err, "Address updated successfully")
}

func (h *AddressHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	addressID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	book, err := h.addresses.Remove(r.Context(), id.UserID, addressID)
	h.respond(w, r, http.StatusOK, book, err, "Address deleted successfully")
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	addressID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	book, err := h.addresses.SetDefault(r.Context(), id.UserID, addressID)
	h.respond(w, r, http.StatusOK, book, err, "Default address updated")
}

func (h *AddressHandler) respond(w http.ResponseWriter, r *http.Request, status int, book domain.AddressBook, err error, message string) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if book == nil {
		book = domain.AddressBook{}
	}
	middleware.RespondWithSuccess(w, status, book, message)
}
