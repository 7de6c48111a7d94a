package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/events"
	"rekraft-backend/internal/repository"
	"rekraft-backend/internal/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// orderNumberAttempts bounds regeneration after a duplicate order number.
const orderNumberAttempts = 3

type OrderLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateOrderInput struct {
	Items           []OrderLineInput
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	Subtotal        int
	Shipping        int
	Tax             int
	Total           int
}

// StatusUpdate changes either or both statuses. Nil fields are left alone.
type StatusUpdate struct {
	OrderStatus   *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	GetOrder(ctx context.Context, caller domain.Identity, orderID uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, orderID uuid.UUID, update StatusUpdate) (*domain.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		products:  products,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder validates every line against the catalog before anything is
// written, then places the order and decrements stock in one transaction.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	requested := make(map[uuid.UUID]int, len(input.Items))
	for _, line := range input.Items {
		if _, seen := requested[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve order products: %w", err)
	}

	// Check in a stable order so the reported product is deterministic.
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	for _, id := range ids {
		product, ok := products[id]
		if !ok {
			telemetry.OrdersFailedTotal.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("product %s not found: %w", id, domain.ErrNotFound)
		}
		if product.Quantity < requested[id] {
			telemetry.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, fmt.Errorf("insufficient stock for %s: %w", product.Name, domain.ErrInsufficientStock)
		}
	}

	now := s.now().UTC()
	items := make(domain.OrderItems, 0, len(input.Items))
	for _, line := range input.Items {
		p := products[line.ProductID]
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
			Image:     p.Image,
			Brand:     p.Brand,
			Condition: p.Condition,
		})
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   domain.PaymentPending,
		OrderStatus:     domain.OrderPending,
		Subtotal:        input.Subtotal,
		Shipping:        input.Shipping,
		Tax:             input.Tax,
		Total:           input.Total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for attempt := 1; ; attempt++ {
		order.OrderNumber = domain.NewReference(s.now())
		err = s.orders.PlaceOrder(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrConflict) && attempt < orderNumberAttempts {
			s.logger.Warn("Order number collision, regenerating",
				zap.String("order_number", order.OrderNumber),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			telemetry.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
		}
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.number", order.OrderNumber),
		attribute.Int("order.items", len(order.Items)),
	)
	telemetry.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.Int("total", order.Total),
	)
	s.publish(ctx, events.TypeOrderCreated, order.OrderNumber, order)

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *orderService) GetOrder(ctx context.Context, caller domain.Identity, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("order not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if !caller.CanAccess(order.UserID) {
		return nil, fmt.Errorf("order not found: %w", domain.ErrNotFound)
	}
	return order, nil
}

// UpdateStatus only checks that each provided value belongs to its enum.
func (s *orderService) UpdateStatus(ctx context.Context, caller domain.Identity, orderID uuid.UUID, update StatusUpdate) (*domain.Order, error) {
	verr := &domain.ValidationError{}
	if update.OrderStatus != nil && !update.OrderStatus.Valid() {
		verr.Add("orderStatus", fmt.Sprintf("%q is not a valid order status", *update.OrderStatus))
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.Valid() {
		verr.Add("paymentStatus", fmt.Sprintf("%q is not a valid payment status", *update.PaymentStatus))
	}
	if verr.HasErrors() {
		return nil, verr
	}

	order, err := s.orders.Update(ctx, orderID, func(o *domain.Order) error {
		if !caller.CanAccess(o.UserID) {
			return fmt.Errorf("order not found: %w", domain.ErrNotFound)
		}
		if update.OrderStatus != nil {
			o.OrderStatus = *update.OrderStatus
		}
		if update.PaymentStatus != nil {
			o.PaymentStatus = *update.PaymentStatus
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("order_status", string(order.OrderStatus)),
		zap.String("payment_status", string(order.PaymentStatus)),
	)
	return order, nil
}

func (s *orderService) publish(ctx context.Context, eventType, key string, payload interface{}) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, key, payload)); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}

func validateOrderInput(input CreateOrderInput) error {
	verr := &domain.ValidationError{}
	if len(input.Items) == 0 {
		verr.Add("items", "Order must contain at least one item")
	}
	for i, line := range input.Items {
		if line.ProductID == uuid.Nil {
			verr.Add(fmt.Sprintf("items[%d].product", i), "Product is required")
		}
		if line.Quantity < 1 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
	}
	if !input.PaymentMethod.Valid() {
		verr.Add("paymentMethod", "Payment method must be one of card, upi, cod")
	}
	if input.Total < 0 || input.Subtotal < 0 || input.Shipping < 0 || input.Tax < 0 {
		verr.Add("total", "Amounts cannot be negative")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}
