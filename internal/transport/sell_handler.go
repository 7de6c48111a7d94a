package transport

import (
	"net/http"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SellRequest is the device intake form. Contact fields may be left blank and
// are filled from the account. Length limits follow the stored column widths.
type SellRequest struct {
	DeviceType string `json:"deviceType" validate:"max=32"`
	Brand      string `json:"brand" validate:"required,max=64"`
	Model      string `json:"model" validate:"required,max=128"`
	Year       string `json:"year" validate:"required,max=16"`
	Condition  string `json:"condition" validate:"required,max=64"`

	Processor       string `json:"processor" validate:"max=128"`
	RAM             string `json:"ram" validate:"max=16"`
	Storage         string `json:"storage" validate:"max=32"`
	StorageType     string `json:"storageType" validate:"max=16"`
	ScreenSize      string `json:"screenSize" validate:"max=16"`
	Graphics        string `json:"graphics" validate:"max=128"`
	OperatingSystem string `json:"operatingSystem" validate:"max=64"`

	Scratches         string `json:"scratches" validate:"max=64"`
	Dents             string `json:"dents" validate:"max=64"`
	ScreenCondition   string `json:"screenCondition" validate:"max=64"`
	KeyboardCondition string `json:"keyboardCondition" validate:"max=64"`
	BatteryHealth     string `json:"batteryHealth" validate:"max=64"`
	ChargerIncluded   *bool  `json:"chargerIncluded"`
	OriginalBox       bool   `json:"originalBox"`
	FunctionalIssues  string `json:"functionalIssues" validate:"max=5000"`

	Name    string `json:"name" validate:"max=255"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Phone   string `json:"phone" validate:"max=32"`
	Pincode string `json:"pincode" validate:"required,max=16"`
	City    string `json:"city" validate:"required,max=128"`
	Address string `json:"address" validate:"required,max=2000"`

	Images []domain.SellImage `json:"images" validate:"max=10"`
}

func (req SellRequest) draft() service.SellDraft {
	return service.SellDraft{
		ChargerIncluded: req.ChargerIncluded,
		Submission: domain.SellSubmission{
			DeviceType:        req.DeviceType,
			Brand:             req.Brand,
			Model:             req.Model,
			Year:              req.Year,
			Condition:         req.Condition,
			Processor:         req.Processor,
			RAM:               req.RAM,
			Storage:           req.Storage,
			StorageType:       req.StorageType,
			ScreenSize:        req.ScreenSize,
			Graphics:          req.Graphics,
			OperatingSystem:   req.OperatingSystem,
			Scratches:         req.Scratches,
			Dents:             req.Dents,
			ScreenCondition:   req.ScreenCondition,
			KeyboardCondition: req.KeyboardCondition,
			BatteryHealth:     req.BatteryHealth,
			OriginalBox:       req.OriginalBox,
			FunctionalIssues:  req.FunctionalIssues,
			Name:              req.Name,
			Email:             req.Email,
			Phone:             req.Phone,
			Pincode:           req.Pincode,
			City:              req.City,
			Address:           req.Address,
			Images:            req.Images,
		},
	}
}

// SellStatusRequest only supports cancelling.
type SellStatusRequest struct {
	Status domain.SellStatus `json:"status" validate:"required,eq=cancelled"`
}

type SellHandler struct {
	base
	sell service.SellService
}

func NewSellHandler(sell service.SellService, logger *zap.Logger, production bool) *SellHandler {
	return &SellHandler{base: base{logger: logger, production: production}, sell: sell}
}

func (h *SellHandler) RegisterRoutes(r chi.Router, authMiddleware Middleware) {
	r.Route("/sell", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Submit)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Cancel)
	})
}

func (h *SellHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req SellRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.sell.Submit(r.Context(), id.UserID, req.draft())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusCreated, sub,
		"Your submission has been received. We will contact you shortly.")
}

func (h *SellHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}

	subs, err := h.sell.List(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if subs == nil {
		subs = []*domain.SellSubmission{}
	}
	middleware.RespondWithSuccess(w, http.StatusOK, subs, "")
}

func (h *SellHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	subID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.sell.Get(r.Context(), id.UserID, subID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, sub, "")
}

func (h *SellHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	subID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req SellStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.sell.Cancel(r.Context(), id.UserID, subID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, sub, "Submission cancelled")
}
