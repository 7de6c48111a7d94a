package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rekraft-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, order_number, user_id, items, shipping_address, payment_method, payment_status, order_status,
	subtotal, shipping, tax, total, gateway_order_id, gateway_payment_id, gateway_signature, created_at, updated_at`

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	PlaceOrder(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	Update(ctx context.Context, id uuid.UUID, fn func(order *domain.Order) error) (*domain.Order, error)
}

type orderRepository struct {
	store
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sqlx.DB, queryTimeout time.Duration) OrderRepository {
	return &orderRepository{store: newStore(db, queryTimeout)}
}

// PlaceOrder inserts the order and decrements stock for every line in one
// transaction. Product rows are locked in id order and stock is re-checked
// under the lock, so either everything is written or nothing is.
func (r *orderRepository) PlaceOrder(ctx context.Context, order *domain.Order) error {
	requests := aggregateStock(order.Items)

	return r.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, req := range requests {
			var stock int
			err := tx.GetContext(ctx, &stock, `SELECT quantity FROM products WHERE id = $1 FOR UPDATE`, req.ProductID)
			if err != nil {
				return translate(err, fmt.Sprintf("failed to lock product %s", req.ProductID))
			}
			if stock < req.Quantity {
				return fmt.Errorf("product %s has %d left, %d requested: %w",
					req.ProductID, stock, req.Quantity, domain.ErrInsufficientStock)
			}
		}

		query := `
			INSERT INTO orders (` + orderColumns + `)
			VALUES (:id, :order_number, :user_id, :items, :shipping_address, :payment_method, :payment_status,
			        :order_status, :subtotal, :shipping, :tax, :total, :gateway_order_id, :gateway_payment_id,
			        :gateway_signature, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, order); err != nil {
			return translate(err, "failed to create order")
		}

		for _, req := range requests {
			if _, err := tx.ExecContext(ctx,
				`UPDATE products SET quantity = quantity - $2 WHERE id = $1`,
				req.ProductID, req.Quantity,
			); err != nil {
				return translate(err, fmt.Sprintf("failed to decrement stock for %s", req.ProductID))
			}
		}
		return nil
	})
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	order := &domain.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := r.db.GetContext(ctx, order, query, id); err != nil {
		return nil, translate(err, "failed to find order by ID")
	}
	return order, nil
}

// ListByUser returns the user's orders, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	orders := []*domain.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, translate(err, "failed to list orders")
	}
	return orders, nil
}

// Update locks the order, applies fn and persists status and gateway fields.
func (r *orderRepository) Update(ctx context.Context, id uuid.UUID, fn func(order *domain.Order) error) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, order, query, id); err != nil {
			return translate(err, "failed to load order")
		}

		if err := fn(order); err != nil {
			return err
		}

		update := `
			UPDATE orders
			SET payment_status = :payment_status, order_status = :order_status,
			    gateway_order_id = :gateway_order_id, gateway_payment_id = :gateway_payment_id,
			    gateway_signature = :gateway_signature
			WHERE id = :id
		`
		if _, err := tx.NamedExecContext(ctx, update, order); err != nil {
			return translate(err, "failed to update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// aggregateStock sums quantities per product and sorts by id so concurrent
// orders lock rows in the same order.
func aggregateStock(items domain.OrderItems) []domain.StockRequest {
	totals := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		totals[item.ProductID] += item.Quantity
	}

	requests := make([]domain.StockRequest, 0, len(totals))
	for id, qty := range totals {
		requests = append(requests, domain.StockRequest{ProductID: id, Quantity: qty})
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].ProductID.String() < requests[j].ProductID.String()
	})
	return requests
}
