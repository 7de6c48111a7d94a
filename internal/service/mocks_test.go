package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/events"
	"rekraft-backend/internal/gateway"
	"rekraft-backend/internal/mailer"
	"rekraft-backend/internal/otp"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepository) add(user *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return user
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(user.Email) {
			return fmt.Errorf("failed to create user: %w", domain.ErrConflict)
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

// UpdateCart mutates a copy and only keeps it when fn succeeds.
func (m *mockUserRepository) UpdateCart(_ context.Context, id uuid.UUID, fn func(*domain.Cart) error) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cart := u.Cart
	cart.Items = append([]domain.CartItem{}, u.Cart.Items...)
	if err := fn(&cart); err != nil {
		return nil, err
	}
	u.Cart = cart
	out := cart
	return &out, nil
}

func (m *mockUserRepository) UpdateAddresses(_ context.Context, id uuid.UUID, fn func(*domain.AddressBook) error) (domain.AddressBook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	book := append(domain.AddressBook{}, u.Addresses...)
	if err := fn(&book); err != nil {
		return nil, err
	}
	u.Addresses = book
	return append(domain.AddressBook{}, book...), nil
}

type mockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	listErr  error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) add(name string, price, quantity int) *domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Image:     "/img/" + strings.ToLower(name) + ".jpg",
		Condition: "Excellent",
		Category:  "laptops",
		Brand:     "Dell",
		Quantity:  quantity,
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepository) stock(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Quantity
}

func (m *mockProductRepository) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepository) Update(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepository) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *mockProductRepository) List(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Product
	for _, p := range m.products {
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// mockOrderRepository places orders against the product mock, all or nothing.
type mockOrderRepository struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*domain.Order
	products  *mockProductRepository
	conflicts int
	placed    int
}

func newMockOrderRepository(products *mockProductRepository) *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[uuid.UUID]*domain.Order), products: products}
}

func (m *mockOrderRepository) PlaceOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts > 0 {
		m.conflicts--
		return fmt.Errorf("failed to create order: %w", domain.ErrConflict)
	}

	m.products.mu.Lock()
	defer m.products.mu.Unlock()
	need := map[uuid.UUID]int{}
	for _, item := range order.Items {
		need[item.ProductID] += item.Quantity
	}
	for id, qty := range need {
		p, ok := m.products.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if p.Quantity < qty {
			return domain.ErrInsufficientStock
		}
	}
	for id, qty := range need {
		m.products.products[id].Quantity -= qty
	}
	cp := *order
	m.orders[order.ID] = &cp
	m.placed++
	return nil
}

func (m *mockOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) Update(_ context.Context, id uuid.UUID, fn func(*domain.Order) error) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.orders[id] = &cp
	out := cp
	return &out, nil
}

type mockSellRepository struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*domain.SellSubmission
}

func newMockSellRepository() *mockSellRepository {
	return &mockSellRepository{subs: make(map[uuid.UUID]*domain.SellSubmission)}
}

func (m *mockSellRepository) Create(_ context.Context, s *domain.SellSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.subs[s.ID] = &cp
	return nil
}

func (m *mockSellRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.SellSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSellRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.SellSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.SellSubmission{}
	for _, s := range m.subs {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockSellRepository) Update(_ context.Context, id uuid.UUID, fn func(*domain.SellSubmission) error) (*domain.SellSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.subs[id] = &cp
	out := cp
	return &out, nil
}

type mockOTPStore struct {
	entries map[string]*otp.Entry
}

func newMockOTPStore() *mockOTPStore {
	return &mockOTPStore{entries: make(map[string]*otp.Entry)}
}

func (m *mockOTPStore) Issue(_ context.Context, email string) (string, error) {
	code := fmt.Sprintf("%06d", 100000+len(m.entries))
	m.entries[strings.ToLower(email)] = &otp.Entry{Code: code}
	return code, nil
}

func (m *mockOTPStore) Get(_ context.Context, email string) (*otp.Entry, error) {
	e, ok := m.entries[strings.ToLower(email)]
	if !ok {
		return nil, otp.ErrCodeNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockOTPStore) MarkVerified(_ context.Context, email string) error {
	e, ok := m.entries[strings.ToLower(email)]
	if !ok {
		return otp.ErrCodeNotFound
	}
	e.Verified = true
	return nil
}

func (m *mockOTPStore) Delete(_ context.Context, email string) error {
	delete(m.entries, strings.ToLower(email))
	return nil
}

type mockMailer struct {
	sent    []mailer.Message
	failFor map[string]bool
	admin   string
}

func newMockMailer() *mockMailer {
	return &mockMailer{failFor: map[string]bool{}, admin: "admin@rekraft.in"}
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	for _, to := range msg.To {
		if m.failFor[to] || m.failFor["*"] {
			return errors.New("smtp unavailable")
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockMailer) AdminAddress() string { return m.admin }

type mockGateway struct {
	secret  string
	created []gateway.OrderRequest
	err     error
}

func (g *mockGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.created = append(g.created, req)
	return fmt.Sprintf("order_%d", len(g.created)), nil
}

func (g *mockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return gateway.Sign(g.secret, orderID, paymentID) == signature
}

func (g *mockGateway) KeyID() string { return "rzp_test_key" }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestUser(email string) *domain.User {
	return &domain.User{
		ID:        uuid.New(),
		Name:      "Asha Rao",
		Email:     email,
		Phone:     "9876543210",
		Role:      domain.RoleUser,
		Cart:      domain.Cart{Items: []domain.CartItem{}},
		Addresses: domain.AddressBook{},
	}
}
