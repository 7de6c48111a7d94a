package service

import (
	"context"
	"errors"
	"testing"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/events"
	"rekraft-backend/internal/gateway"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type paymentFixture struct {
	svc       PaymentService
	orders    *mockOrderRepository
	gw        *mockGateway
	publisher *recordingPublisher
	order     *domain.Order
	owner     domain.Identity
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	products := newMockProductRepository()
	orders := newMockOrderRepository(products)
	p := products.add("EliteBook", 40000, 3)
	owner := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}

	orderSvc := NewOrderService(orders, products, &recordingPublisher{}, zap.NewNop())
	input := orderInput(OrderLineInput{ProductID: p.ID, Quantity: 1})
	input.Subtotal, input.Total = 40000, 40500
	order, err := orderSvc.CreateOrder(context.Background(), owner.UserID, input)
	require.NoError(t, err)

	gw := &mockGateway{secret: "s3cret"}
	publisher := &recordingPublisher{}
	return &paymentFixture{
		svc:       NewPaymentService(orders, gw, publisher, "INR", zap.NewNop()),
		orders:    orders,
		gw:        gw,
		publisher: publisher,
		order:     order,
		owner:     owner,
	}
}

func TestPaymentService_CreateGatewayOrderStoresID(t *testing.T) {
	f := newPaymentFixture(t)

	gwOrder, err := f.svc.CreateGatewayOrder(context.Background(), f.owner, f.order.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4050000), gwOrder.Amount)
	assert.Equal(t, "INR", gwOrder.Currency)
	assert.Equal(t, "receipt_"+f.order.ID.String(), gwOrder.Receipt)

	stored, _ := f.orders.FindByID(context.Background(), f.order.ID)
	require.NotNil(t, stored.GatewayOrderID)
	assert.Equal(t, gwOrder.ID, *stored.GatewayOrderID)
}

func TestPaymentService_CreateGatewayOrderAmountMismatch(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.CreateGatewayOrder(context.Background(), f.owner, f.order.ID, 1, "INR")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, f.gw.created)
}

func TestPaymentService_GatewayFailureIsUpstream(t *testing.T) {
	f := newPaymentFixture(t)
	f.gw.err = gateway.ErrNotConfigured

	_, err := f.svc.CreateGatewayOrder(context.Background(), f.owner, f.order.ID, 0, "")
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestPaymentService_VerifyMatchConfirms(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	gwOrder, err := f.svc.CreateGatewayOrder(ctx, f.owner, f.order.ID, 0, "")
	require.NoError(t, err)

	order, err := f.svc.VerifyPayment(ctx, f.owner, VerifyPaymentInput{
		OrderID:        f.order.ID,
		GatewayOrderID: gwOrder.ID,
		PaymentID:      "pay_123",
		Signature:      gateway.Sign("s3cret", gwOrder.ID, "pay_123"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, domain.OrderConfirmed, order.OrderStatus)
	require.NotNil(t, order.GatewayPaymentID)
	assert.Equal(t, "pay_123", *order.GatewayPaymentID)
	assert.Equal(t, []string{events.TypePaymentVerified}, f.publisher.types())
}

func TestPaymentService_VerifyMismatchFailsPaymentOnly(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	order, err := f.svc.VerifyPayment(ctx, f.owner, VerifyPaymentInput{
		OrderID:        f.order.ID,
		GatewayOrderID: "order_1",
		PaymentID:      "pay_123",
		Signature:      "not-a-signature",
	})
	assert.True(t, errors.Is(err, domain.ErrPaymentVerification))
	require.NotNil(t, order)

	stored, _ := f.orders.FindByID(ctx, f.order.ID)
	assert.Equal(t, domain.PaymentFailed, stored.PaymentStatus)
	assert.Equal(t, domain.OrderPending, stored.OrderStatus)
	assert.Nil(t, stored.GatewayPaymentID)
	assert.Equal(t, []string{events.TypePaymentFailed}, f.publisher.types())
}

func TestPaymentService_VerifyRejectsOtherGatewayOrder(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	// A genuine signature for a different gateway order must not settle this one.
	_, err := f.svc.CreateGatewayOrder(ctx, f.owner, f.order.ID, 0, "")
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, f.owner, VerifyPaymentInput{
		OrderID:        f.order.ID,
		GatewayOrderID: "order_99",
		PaymentID:      "pay_x",
		Signature:      gateway.Sign("s3cret", "order_99", "pay_x"),
	})
	assert.True(t, errors.Is(err, domain.ErrPaymentVerification))

	stored, _ := f.orders.FindByID(ctx, f.order.ID)
	assert.Equal(t, domain.PaymentFailed, stored.PaymentStatus)
	assert.Equal(t, domain.OrderPending, stored.OrderStatus)
	assert.Nil(t, stored.GatewayPaymentID)
	assert.Equal(t, []string{events.TypePaymentFailed}, f.publisher.types())
}

func TestPaymentService_VerifyWithoutGatewayOrderFails(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.svc.VerifyPayment(ctx, f.owner, VerifyPaymentInput{
		OrderID:        f.order.ID,
		GatewayOrderID: "order_1",
		PaymentID:      "pay_x",
		Signature:      gateway.Sign("s3cret", "order_1", "pay_x"),
	})
	assert.True(t, errors.Is(err, domain.ErrPaymentVerification))

	stored, _ := f.orders.FindByID(ctx, f.order.ID)
	assert.Equal(t, domain.PaymentFailed, stored.PaymentStatus)
}

func TestPaymentService_VerifyForeignOrder(t *testing.T) {
	f := newPaymentFixture(t)
	stranger := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}

	_, err := f.svc.VerifyPayment(context.Background(), stranger, VerifyPaymentInput{
		OrderID:   f.order.ID,
		Signature: "x",
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	stored, _ := f.orders.FindByID(context.Background(), f.order.ID)
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus)
}
