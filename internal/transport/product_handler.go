package transport

import (
	"net/http"
	"strconv"
	"strings"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProductRequest struct {
	Name          string   `json:"name" validate:"required"`
	Price         int      `json:"price" validate:"gte=0"`
	OriginalPrice *int     `json:"originalPrice" validate:"omitempty,gte=0"`
	Image         string   `json:"image" validate:"required"`
	Condition     string   `json:"condition" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Brand         string   `json:"brand" validate:"required"`
	Description   string   `json:"description"`
	Specs         []string `json:"specs"`
	Warranty      string   `json:"warranty"`
	Quantity      int      `json:"quantity" validate:"gte=0"`
}

func (req ProductRequest) product() *domain.Product {
	return &domain.Product{
		Name:          req.Name,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		Condition:     req.Condition,
		Category:      req.Category,
		Brand:         req.Brand,
		Description:   req.Description,
		Specs:         domain.Strings(req.Specs),
		Warranty:      req.Warranty,
		Quantity:      req.Quantity,
	}
}

type ProductHandler struct {
	base
	catalog service.CatalogService
}

func NewProductHandler(catalog service.CatalogService, logger *zap.Logger, production bool) *ProductHandler {
	return &ProductHandler{base: base{logger: logger, production: production}, catalog: catalog}
}

// RegisterRoutes registers public catalog reads and admin-only writes.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly Middleware) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminOnly)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List serves catalog queries. With suggest set it returns a short list of
// display summaries for search-as-you-type.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if suggest := r.URL.Query().Get("suggest"); suggest != "" && suggest != "false" {
		suggestions, err := h.catalog.Suggest(r.Context(), filter)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		middleware.RespondWithSuccess(w, http.StatusOK, suggestions, "")
		return
	}

	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithSuccess(w, http.StatusOK, products, "")
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, product, "")
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	product, err := h.catalog.Create(r.Context(), req.product())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusCreated, product, "Product created successfully")
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	product, err := h.catalog.Update(r.Context(), id, req.product())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, product, "Product updated successfully")
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithSuccess(w, http.StatusOK, nil, "Product deleted successfully")
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
	}

	verr := &domain.ValidationError{}
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			verr.Add(p.name, p.name+" must be a non-negative integer")
			continue
		}
		*p.dst = &v
	}
	if verr.HasErrors() {
		return filter, verr
	}
	return filter, nil
}
