package domain

import (
	"crypto/rand"
	"database/sql/driver"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCOD  PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentCOD:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product at the time the order was placed.
type OrderItem struct {
	ProductID uuid.UUID `json:"product"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image"`
	Brand     string    `json:"brand"`
	Condition string    `json:"condition"`
}

// OrderItems is stored as a JSONB array.
type OrderItems []OrderItem

func (o *OrderItems) Scan(src interface{}) error {
	return scanJSON(src, o)
}

func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	return valueJSON([]OrderItem(o))
}

// ShippingAddress is copied into the order and never refers back to the
// address book.
type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
}

func (a *ShippingAddress) Scan(src interface{}) error {
	return scanJSON(src, a)
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return valueJSON(a)
}

type Order struct {
	ID               uuid.UUID       `json:"_id" db:"id"`
	OrderNumber      string          `json:"orderNumber" db:"order_number"`
	UserID           uuid.UUID       `json:"user" db:"user_id"`
	Items            OrderItems      `json:"items" db:"items"`
	ShippingAddress  ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	OrderStatus      OrderStatus     `json:"orderStatus" db:"order_status"`
	Subtotal         int             `json:"subtotal" db:"subtotal"`
	Shipping         int             `json:"shipping" db:"shipping"`
	Tax              int             `json:"tax" db:"tax"`
	Total            int             `json:"total" db:"total"`
	GatewayOrderID   *string         `json:"razorpayOrderId,omitempty" db:"gateway_order_id"`
	GatewayPaymentID *string         `json:"razorpayPaymentId,omitempty" db:"gateway_payment_id"`
	GatewaySignature *string         `json:"razorpaySignature,omitempty" db:"gateway_signature"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// StockRequest is one product quantity to reserve during order placement.
type StockRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// NewReference returns "RK" followed by the unix millisecond timestamp and
// five random upper-case base36 characters. Used for order numbers and sell
// submission ids.
func NewReference(now time.Time) string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var sb strings.Builder
	sb.WriteString("RK")
	sb.WriteString(strconv.FormatInt(now.UnixMilli(), 10))

	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < 5; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(fmt.Sprintf("failed to read random bytes: %v", err))
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String()
}
