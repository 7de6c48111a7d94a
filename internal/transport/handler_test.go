package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/middleware"
	"rekraft-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type fakes struct {
	auth      *fakeAuth
	cart      *fakeCart
	addresses *fakeAddresses
	orders    *fakeOrders
	payments  *fakePayments
	sell      *fakeSell
	contact   *fakeContact
	catalog   *fakeCatalog
}

func newTestRouter() (http.Handler, *fakes) {
	f := &fakes{
		auth:      &fakeAuth{},
		cart:      &fakeCart{view: &service.CartView{Items: []service.CartLine{}}},
		addresses: &fakeAddresses{},
		orders:    &fakeOrders{},
		payments:  &fakePayments{},
		sell:      &fakeSell{},
		contact:   &fakeContact{},
		catalog:   &fakeCatalog{},
	}
	logger := zap.NewNop()
	auth := middleware.AuthMiddleware(testSecret, logger)
	admin := middleware.RequireAdmin(logger)
	passthrough := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewAuthHandler(f.auth, logger, false).RegisterRoutes(r, auth, passthrough)
		NewCartHandler(f.cart, logger, false).RegisterRoutes(r, auth)
		NewAddressHandler(f.addresses, logger, false).RegisterRoutes(r, auth)
		NewOrderHandler(f.orders, logger, false).RegisterRoutes(r, auth)
		NewPaymentHandler(f.payments, logger, false).RegisterRoutes(r, auth)
		NewSellHandler(f.sell, logger, false).RegisterRoutes(r, auth)
		NewContactHandler(f.contact, logger, false).RegisterRoutes(r, passthrough)
		NewProductHandler(f.catalog, logger, false).RegisterRoutes(r, auth, admin)
	})
	return r, f
}

func tokenFor(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// Property: every protected route rejects anonymous callers
func TestProperty_ProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestRouter()
	id := uuid.NewString()
	routes := [][2]string{
		{"GET", "/api/auth/me"},
		{"GET", "/api/cart"},
		{"POST", "/api/cart/add"},
		{"DELETE", "/api/cart/clear"},
		{"GET", "/api/user/addresses"},
		{"PUT", "/api/user/addresses/" + id + "/default"},
		{"POST", "/api/orders"},
		{"GET", "/api/orders/" + id},
		{"POST", "/api/payments/verify-payment"},
		{"GET", "/api/sell"},
		{"POST", "/api/products"},
		{"DELETE", "/api/products/" + id},
	}

	properties := gopter.NewProperties(nil)
	properties.Property("anonymous requests get 401", prop.ForAll(
		func(i int) bool {
			route := routes[i]
			w, env := do(t, h, route[0], route[1], "", nil)
			return w.Code == http.StatusUnauthorized && !env.Success
		},
		gen.IntRange(0, len(routes)-1),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthHandler_RegisterValidatesAndWrapsProfile(t *testing.T) {
	h, f := newTestRouter()

	w, env := do(t, h, "POST", "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "password": "123", "phone": "98",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "validation_errors")

	user := &domain.User{ID: uuid.New(), Name: "Asha", Email: "asha@example.com", Role: domain.RoleUser}
	f.auth.result = &service.AuthResult{Token: "tok", User: user}
	w, env = do(t, h, "POST", "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "password": "secret1", "phone": "98",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var profile UserProfile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "tok", profile.Token)
	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "secret1", f.auth.input.Password)

	f.auth.err = fmt.Errorf("failed to create user: %w", domain.ErrConflict)
	w, _ = do(t, h, "POST", "/api/auth/register", "", map[string]string{
		"name": "Asha", "email": "asha@example.com", "password": "secret1", "phone": "98",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_ForgotPasswordDevFallback(t *testing.T) {
	h, f := newTestRouter()

	f.auth.issue = &service.ResetIssue{Delivered: false, Code: "123456"}
	w, env := do(t, h, "POST", "/api/auth/forgot-password", "", map[string]string{"email": "asha@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"otp":"123456"}`, string(env.Data))

	f.auth.issue = &service.ResetIssue{Delivered: true}
	_, env = do(t, h, "POST", "/api/auth/forgot-password", "", map[string]string{"email": "asha@example.com"})
	assert.Equal(t, "OTP sent to your email", env.Message)

	w, _ = do(t, h, "POST", "/api/auth/verify-reset-otp", "", map[string]string{"email": "asha@example.com", "otp": "12ab"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_DefaultsQuantityAndUsesCaller(t *testing.T) {
	h, f := newTestRouter()
	userID := uuid.New()
	token := tokenFor(t, userID, domain.RoleUser)

	w, env := do(t, h, "POST", "/api/cart/add", token, map[string]string{"productId": uuid.NewString()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, f.cart.quantity)
	assert.Equal(t, userID, f.cart.userID)

	f.cart.err = fmt.Errorf("product not found: %w", domain.ErrNotFound)
	w, env = do(t, h, "POST", "/api/cart/add", token, map[string]interface{}{"productId": uuid.NewString(), "quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, h, "PUT", "/api/cart/item/not-a-uuid", token, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddressHandler_PatchCarriesOnlyProvidedFields(t *testing.T) {
	h, f := newTestRouter()
	token := tokenFor(t, uuid.New(), domain.RoleUser)

	w, _ := do(t, h, "PUT", "/api/user/addresses/"+uuid.NewString(), token, map[string]interface{}{"city": "Pune", "isDefault": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.addresses.patch.City)
	assert.Equal(t, "Pune", *f.addresses.patch.City)
	assert.Nil(t, f.addresses.patch.FullName)
	require.NotNil(t, f.addresses.patch.IsDefault)

	w, _ = do(t, h, "POST", "/api/user/addresses", token, map[string]string{"type": "villa"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := do(t, h, "GET", "/api/user/addresses", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func validOrderBody() map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{{"product": uuid.NewString(), "quantity": 2}},
		"shippingAddress": map[string]string{
			"firstName": "Asha", "lastName": "Rao", "email": "asha@example.com", "phone": "98",
			"address": "12 MG Road", "city": "Bengaluru", "state": "KA", "pincode": "560001",
		},
		"paymentMethod": "upi",
		"subtotal":      1000,
		"total":         1000,
	}
}

func TestOrderHandler_CreateMapsErrors(t *testing.T) {
	h, f := newTestRouter()
	token := tokenFor(t, uuid.New(), domain.RoleUser)

	f.orders.order = &domain.Order{ID: uuid.New(), OrderNumber: "RK1700000000000ABCDE"}
	w, _ := do(t, h, "POST", "/api/orders", token, validOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "India", f.orders.input.ShippingAddress.Country)
	assert.Equal(t, 2, f.orders.input.Items[0].Quantity)

	f.orders.err = fmt.Errorf("insufficient stock for X: %w", domain.ErrInsufficientStock)
	w, _ = do(t, h, "POST", "/api/orders", token, validOrderBody())
	assert.Equal(t, http.StatusConflict, w.Code)

	body := validOrderBody()
	body["items"] = []interface{}{}
	body["paymentMethod"] = "cheque"
	w, env := do(t, h, "POST", "/api/orders", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "validation_errors")
}

func TestOrderHandler_PassesIdentityForOwnership(t *testing.T) {
	h, f := newTestRouter()
	adminID := uuid.New()

	f.orders.order = &domain.Order{ID: uuid.New()}
	w, _ := do(t, h, "GET", "/api/orders/"+uuid.NewString(), tokenFor(t, adminID, domain.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Identity{UserID: adminID, Role: domain.RoleAdmin}, f.orders.caller)

	f.orders.err = fmt.Errorf("order not found: %w", domain.ErrNotFound)
	w, _ = do(t, h, "GET", "/api/orders/"+uuid.NewString(), tokenFor(t, uuid.New(), domain.RoleUser), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentHandler_VerificationFailureIs400(t *testing.T) {
	h, f := newTestRouter()
	token := tokenFor(t, uuid.New(), domain.RoleUser)
	orderID := uuid.New()

	f.payments.order = &domain.Order{ID: orderID, PaymentStatus: domain.PaymentFailed}
	f.payments.err = fmt.Errorf("signature mismatch: %w", domain.ErrPaymentVerification)
	w, env := do(t, h, "POST", "/api/payments/verify-payment", token, map[string]string{
		"orderId":             orderID.String(),
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "bad",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Payment verification failed", env.Error.Message)
	assert.Equal(t, "order_1", f.payments.verify.GatewayOrderID)

	f.payments.err = fmt.Errorf("payment gateway error: %w", domain.ErrUpstream)
	w, _ = do(t, h, "POST", "/api/payments/create-order", token, map[string]string{"orderId": orderID.String()})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSellHandler_SubmitAndCancel(t *testing.T) {
	h, f := newTestRouter()
	token := tokenFor(t, uuid.New(), domain.RoleUser)

	f.sell.sub = &domain.SellSubmission{ID: uuid.New(), Status: domain.SellSubmitted}
	w, _ := do(t, h, "POST", "/api/sell", token, map[string]interface{}{
		"brand": "Dell", "model": "Latitude", "year": "2021", "condition": "Good",
		"pincode": "560001", "city": "Bengaluru", "address": "12 MG Road", "chargerIncluded": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, f.sell.draft.ChargerIncluded)
	assert.True(t, *f.sell.draft.ChargerIncluded)
	assert.Empty(t, f.sell.draft.Submission.Email)

	w, _ = do(t, h, "POST", "/api/sell", token, map[string]interface{}{
		"brand": "Dell", "model": "Latitude", "year": "2021", "condition": "Good",
		"pincode": "560001", "city": "Bengaluru", "address": "12 MG Road",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, f.sell.draft.ChargerIncluded)

	w, env := do(t, h, "POST", "/api/sell", token, map[string]interface{}{
		"brand": "Dell", "model": "Latitude", "year": strings.Repeat("2", 20), "condition": "Good",
		"pincode": "560001", "city": "Bengaluru", "address": "12 MG Road",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "validation_errors")

	w, _ = do(t, h, "PUT", "/api/sell/"+uuid.NewString(), token, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.sell.err = fmt.Errorf("already cancelled: %w", domain.ErrConflict)
	w, _ = do(t, h, "PUT", "/api/sell/"+uuid.NewString(), token, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestContactHandler(t *testing.T) {
	h, f := newTestRouter()

	w, _ := do(t, h, "POST", "/api/contact/send", "", map[string]string{"name": "Ravi", "email": "ravi@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := map[string]string{"name": "Ravi", "email": "ravi@example.com", "subject": "Hi", "message": "Hello"}
	w, _ = do(t, h, "POST", "/api/contact/send", "", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hi", f.contact.form.Subject)

	f.contact.err = fmt.Errorf("failed to send message: %w", domain.ErrUpstream)
	w, _ = do(t, h, "POST", "/api/contact/send", "", body)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestProductHandler_QueryAndAdminGuard(t *testing.T) {
	h, f := newTestRouter()
	f.catalog.products = []*domain.Product{{ID: uuid.New(), Name: "ThinkPad"}}

	w, _ := do(t, h, "GET", "/api/products?search=think&category=all&minPrice=1000&maxPrice=50000", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "think", f.catalog.filter.Search)
	require.NotNil(t, f.catalog.filter.MinPrice)
	assert.Equal(t, 1000, *f.catalog.filter.MinPrice)
	assert.False(t, f.catalog.suggested)

	_, env := do(t, h, "GET", "/api/products?search=think&suggest=true", "", nil)
	assert.True(t, f.catalog.suggested)
	var summaries []domain.ProductSummary
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	assert.Len(t, summaries, 1)

	w, _ = do(t, h, "GET", "/api/products?minPrice=cheap", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	product := map[string]interface{}{
		"name": "EliteBook", "price": 30000, "image": "/img/e.jpg", "condition": "Good",
		"category": "laptops", "brand": "HP", "quantity": 2,
	}
	w, _ = do(t, h, "POST", "/api/products", tokenFor(t, uuid.New(), domain.RoleUser), product)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, h, "POST", "/api/products", tokenFor(t, uuid.New(), domain.RoleAdmin), product)
	assert.Equal(t, http.StatusCreated, w.Code)
}
