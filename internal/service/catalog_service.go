package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SuggestionLimit caps the compact search-as-you-type result.
const SuggestionLimit = 8

type CatalogService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	Suggest(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	products repository.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewCatalogService(products repository.ProductRepository, logger *zap.Logger) CatalogService {
	return &catalogService{products: products, logger: logger, now: time.Now}
}

func (s *catalogService) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, domain.NewValidationError("minPrice", "minPrice cannot exceed maxPrice")
	}
	return s.products.List(ctx, filter)
}

// Suggest runs the same query as List but returns a short display list.
func (s *catalogService) Suggest(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductSummary, error) {
	filter.Limit = SuggestionLimit
	products, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, p.Summary())
	}
	return out, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	product.ID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Specs == nil {
		product.Specs = domain.Strings{}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	return product, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, product *domain.Product) (*domain.Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	product.ID = id
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.now().UTC()
	if product.Specs == nil {
		product.Specs = domain.Strings{}
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product updated", zap.String("product_id", id.String()))
	return product, nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func validateProduct(p *domain.Product) error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		verr.Add("name", "Product name is required")
	}
	if p.Price < 0 {
		verr.Add("price", "Price cannot be negative")
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < 0 {
		verr.Add("originalPrice", "Original price cannot be negative")
	}
	if p.Quantity < 0 {
		verr.Add("quantity", "Quantity cannot be negative")
	}
	if strings.TrimSpace(p.Image) == "" {
		verr.Add("image", "Image is required")
	}
	if strings.TrimSpace(p.Condition) == "" {
		verr.Add("condition", "Condition is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		verr.Add("category", "Category is required")
	}
	if strings.TrimSpace(p.Brand) == "" {
		verr.Add("brand", "Brand is required")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}
