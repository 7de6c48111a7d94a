package service

import (
	"context"
	"errors"
	"fmt"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/events"
	"rekraft-backend/internal/gateway"
	"rekraft-backend/internal/repository"
	"rekraft-backend/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GatewayOrder is what the client needs to open the provider's checkout.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	KeyID    string `json:"keyId,omitempty"`
}

type VerifyPaymentInput struct {
	OrderID        uuid.UUID
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

type PaymentService interface {
	CreateGatewayOrder(ctx context.Context, caller domain.Identity, orderID uuid.UUID, amount int, currency string) (*GatewayOrder, error)
	VerifyPayment(ctx context.Context, caller domain.Identity, input VerifyPaymentInput) (*domain.Order, error)
}

type paymentService struct {
	orders          repository.OrderRepository
	gateway         gateway.Client
	publisher       events.Publisher
	defaultCurrency string
	logger          *zap.Logger
}

func NewPaymentService(
	orders repository.OrderRepository,
	gw gateway.Client,
	publisher events.Publisher,
	defaultCurrency string,
	logger *zap.Logger,
) PaymentService {
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &paymentService{
		orders:          orders,
		gateway:         gw,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// CreateGatewayOrder opens a provider order for the stored order total. A
// client supplied amount must agree with that total.
func (s *paymentService) CreateGatewayOrder(ctx context.Context, caller domain.Identity, orderID uuid.UUID, amount int, currency string) (*GatewayOrder, error) {
	ctx, span := telemetry.StartSpan(ctx, "PaymentService.CreateGatewayOrder")
	defer span.End()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(order.UserID) {
		return nil, fmt.Errorf("order not found: %w", domain.ErrNotFound)
	}
	if amount != 0 && amount != order.Total {
		return nil, domain.NewValidationError("amount", "Amount does not match the order total")
	}
	if currency == "" {
		currency = s.defaultCurrency
	}

	req := gateway.OrderRequest{
		AmountPaise: int64(order.Total) * 100,
		Currency:    currency,
		Receipt:     "receipt_" + order.ID.String(),
	}
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("payment gateway timed out: %w", domain.ErrTimeout)
		}
		return nil, fmt.Errorf("payment gateway error: %w", domain.ErrUpstream)
	}

	_, err = s.orders.Update(ctx, order.ID, func(o *domain.Order) error {
		o.GatewayOrderID = &gatewayOrderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &GatewayOrder{
		ID:       gatewayOrderID,
		Amount:   req.AmountPaise,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPayment reconciles the provider callback against the stored order.
// The callback must name the gateway order opened for this order and carry a
// valid signature. Otherwise the payment is marked failed, the order status is
// kept, and ErrPaymentVerification is returned.
func (s *paymentService) VerifyPayment(ctx context.Context, caller domain.Identity, input VerifyPaymentInput) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PaymentService.VerifyPayment")
	defer span.End()

	signed := s.gateway.VerifySignature(input.GatewayOrderID, input.PaymentID, input.Signature)

	var valid bool
	order, err := s.orders.Update(ctx, input.OrderID, func(o *domain.Order) error {
		if !caller.CanAccess(o.UserID) {
			return fmt.Errorf("order not found: %w", domain.ErrNotFound)
		}
		valid = signed && o.GatewayOrderID != nil && *o.GatewayOrderID == input.GatewayOrderID
		if !valid {
			o.PaymentStatus = domain.PaymentFailed
			return nil
		}
		paymentID, signature := input.PaymentID, input.Signature
		o.PaymentStatus = domain.PaymentCompleted
		o.OrderStatus = domain.OrderConfirmed
		o.GatewayPaymentID = &paymentID
		o.GatewaySignature = &signature
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !valid {
		telemetry.PaymentFailedTotal.Inc()
		s.logger.Warn("Payment signature mismatch",
			zap.String("order_id", order.ID.String()),
			zap.String("gateway_order_id", input.GatewayOrderID),
		)
		s.publish(ctx, events.TypePaymentFailed, order.OrderNumber, order)
		return order, fmt.Errorf("signature mismatch for order %s: %w", order.OrderNumber, domain.ErrPaymentVerification)
	}

	telemetry.PaymentVerifiedTotal.Inc()
	s.logger.Info("Payment verified",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", input.PaymentID),
	)
	s.publish(ctx, events.TypePaymentVerified, order.OrderNumber, order)
	return order, nil
}

func (s *paymentService) publish(ctx context.Context, eventType, key string, payload interface{}) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, key, payload)); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}
