package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rekraft-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, name, price, original_price, image, condition, category, brand, description, specs, warranty, quantity, created_at, updated_at`

// DefaultProductLimit caps catalog queries that do not set a limit.
const DefaultProductLimit = 100

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
}

type productRepository struct {
	store
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sqlx.DB, queryTimeout time.Duration) ProductRepository {
	return &productRepository{store: newStore(db, queryTimeout)}
}

// Create inserts a new product
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (:id, :name, :price, :original_price, :image, :condition, :category, :brand,
		        :description, :specs, :warranty, :quantity, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return translate(err, "failed to create product")
	}
	return nil
}

// Update overwrites every mutable column of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name = :name, price = :price, original_price = :original_price, image = :image,
		    condition = :condition, category = :category, brand = :brand, description = :description,
		    specs = :specs, warranty = :warranty, quantity = :quantity
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, product)
	if err != nil {
		return translate(err, "failed to update product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", product.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translate(err, "failed to delete product")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	product := &domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := r.db.GetContext(ctx, product, query, id); err != nil {
		return nil, translate(err, "failed to find product by ID")
	}
	return product, nil
}

// FindByIDs resolves many products at once. Missing ids are absent from the map.
func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	found := make(map[uuid.UUID]*domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build product lookup: %w", err)
	}

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, translate(err, "failed to find products")
	}

	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

// List returns products matching filter, newest first. Search matches name,
// brand, category, description and specs case-insensitively.
func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		conditions []string
		args       []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		p := next("%" + search + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE %[1]s OR brand ILIKE %[1]s OR category ILIKE %[1]s OR description ILIKE %[1]s OR specs::text ILIKE %[1]s)", p))
	}
	if category := strings.TrimSpace(filter.Category); category != "" && !strings.EqualFold(category, "all") {
		conditions = append(conditions, "category = "+next(category))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= "+next(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= "+next(*filter.MaxPrice))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultProductLimit {
		limit = DefaultProductLimit
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT %s
	`, productColumns, whereClause, next(limit))

	products := []*domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, translate(err, "failed to list products")
	}
	return products, nil
}
