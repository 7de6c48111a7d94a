package transport

import (
	"net/http"

	"rekraft-backend/internal/mailer"
	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=20"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ContactHandler struct {
	base
	contact service.ContactService
}

func NewContactHandler(contact service.ContactService, logger *zap.Logger, production bool) *ContactHandler {
	return &ContactHandler{base: base{logger: logger, production: production}, contact: contact}
}

func (h *ContactHandler) RegisterRoutes(r chi.Router, limiter Middleware) {
	r.With(limiter).Post("/contact/send", h.Send)
}

func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	err := h.contact.Send(r.Context(), mailer.ContactForm{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, nil, "Message sent successfully")
}
