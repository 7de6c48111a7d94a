package transport

import (
	"context"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/mailer"
	"rekraft-backend/internal/service"

	"github.com/google/uuid"
)

// Service fakes. Each call records its arguments and returns the configured
// result, so handler tests only exercise decoding, routing and envelopes.

type fakeAuth struct {
	result *service.AuthResult
	issue  *service.ResetIssue
	user   *domain.User
	err    error
	input  service.RegisterInput
}

func (f *fakeAuth) Register(_ context.Context, input service.RegisterInput) (*service.AuthResult, error) {
	f.input = input
	return f.result, f.err
}
func (f *fakeAuth) Login(context.Context, string, string) (*service.AuthResult, error) {
	return f.result, f.err
}
func (f *fakeAuth) Me(context.Context, uuid.UUID) (*domain.User, error) { return f.user, f.err }
func (f *fakeAuth) ForgotPassword(context.Context, string) (*service.ResetIssue, error) {
	return f.issue, f.err
}
func (f *fakeAuth) VerifyResetCode(context.Context, string, string) error { return f.err }
func (f *fakeAuth) ResetPassword(context.Context, string, string) error   { return f.err }

type fakeCart struct {
	view     *service.CartView
	err      error
	userID   uuid.UUID
	quantity int
}

func (f *fakeCart) GetCart(_ context.Context, userID uuid.UUID) (*service.CartView, error) {
	f.userID = userID
	return f.view, f.err
}
func (f *fakeCart) AddItem(_ context.Context, userID, _ uuid.UUID, quantity int) (*service.CartView, error) {
	f.userID, f.quantity = userID, quantity
	return f.view, f.err
}
func (f *fakeCart) UpdateItem(_ context.Context, userID, _ uuid.UUID, quantity int) (*service.CartView, error) {
	f.userID, f.quantity = userID, quantity
	return f.view, f.err
}
func (f *fakeCart) RemoveItem(_ context.Context, userID, _ uuid.UUID) (*service.CartView, error) {
	f.userID = userID
	return f.view, f.err
}
func (f *fakeCart) Clear(_ context.Context, userID uuid.UUID) (*service.CartView, error) {
	f.userID = userID
	return f.view, f.err
}

type fakeAddresses struct {
	book  domain.AddressBook
	err   error
	added domain.Address
	patch domain.AddressPatch
}

func (f *fakeAddresses) List(context.Context, uuid.UUID) (domain.AddressBook, error) {
	return f.book, f.err
}
func (f *fakeAddresses) Add(_ context.Context, _ uuid.UUID, addr domain.Address) (domain.AddressBook, error) {
	f.added = addr
	return f.book, f.err
}
func (f *fakeAddresses) Update(_ context.Context, _, _ uuid.UUID, patch domain.AddressPatch) (domain.AddressBook, error) {
	f.patch = patch
	return f.book, f.err
}
func (f *fakeAddresses) Remove(context.Context, uuid.UUID, uuid.UUID) (domain.AddressBook, error) {
	return f.book, f.err
}
func (f *fakeAddresses) SetDefault(context.Context, uuid.UUID, uuid.UUID) (domain.AddressBook, error) {
	return f.book, f.err
}

type fakeOrders struct {
	order  *domain.Order
	err    error
	input  service.CreateOrderInput
	caller domain.Identity
}

func (f *fakeOrders) CreateOrder(_ context.Context, _ uuid.UUID, input service.CreateOrderInput) (*domain.Order, error) {
	f.input = input
	return f.order, f.err
}
func (f *fakeOrders) ListOrders(context.Context, uuid.UUID) ([]*domain.Order, error) {
	if f.order == nil {
		return nil, f.err
	}
	return []*domain.Order{f.order}, f.err
}
func (f *fakeOrders) GetOrder(_ context.Context, caller domain.Identity, _ uuid.UUID) (*domain.Order, error) {
	f.caller = caller
	return f.order, f.err
}
func (f *fakeOrders) UpdateStatus(_ context.Context, caller domain.Identity, _ uuid.UUID, _ service.StatusUpdate) (*domain.Order, error) {
	f.caller = caller
	return f.order, f.err
}

type fakePayments struct {
	gwOrder *service.GatewayOrder
	order   *domain.Order
	err     error
	verify  service.VerifyPaymentInput
}

func (f *fakePayments) CreateGatewayOrder(context.Context, domain.Identity, uuid.UUID, int, string) (*service.GatewayOrder, error) {
	return f.gwOrder, f.err
}
func (f *fakePayments) VerifyPayment(_ context.Context, _ domain.Identity, input service.VerifyPaymentInput) (*domain.Order, error) {
	f.verify = input
	return f.order, f.err
}

type fakeSell struct {
	sub   *domain.SellSubmission
	err   error
	draft service.SellDraft
}

func (f *fakeSell) Submit(_ context.Context, _ uuid.UUID, draft service.SellDraft) (*domain.SellSubmission, error) {
	f.draft = draft
	return f.sub, f.err
}
func (f *fakeSell) List(context.Context, uuid.UUID) ([]*domain.SellSubmission, error) {
	return nil, f.err
}
func (f *fakeSell) Get(context.Context, uuid.UUID, uuid.UUID) (*domain.SellSubmission, error) {
	return f.sub, f.err
}
func (f *fakeSell) Cancel(context.Context, uuid.UUID, uuid.UUID) (*domain.SellSubmission, error) {
	return f.sub, f.err
}

type fakeContact struct {
	form mailer.ContactForm
	err  error
}

func (f *fakeContact) Send(_ context.Context, form mailer.ContactForm) error {
	f.form = form
	return f.err
}

type fakeCatalog struct {
	products  []*domain.Product
	product   *domain.Product
	err       error
	filter    domain.ProductFilter
	suggested bool
}

func (f *fakeCatalog) List(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	f.filter = filter
	return f.products, f.err
}
func (f *fakeCatalog) Suggest(_ context.Context, filter domain.ProductFilter) ([]domain.ProductSummary, error) {
	f.filter, f.suggested = filter, true
	out := []domain.ProductSummary{}
	for _, p := range f.products {
		out = append(out, p.Summary())
	}
	return out, f.err
}
func (f *fakeCatalog) Get(context.Context, uuid.UUID) (*domain.Product, error) {
	return f.product, f.err
}
func (f *fakeCatalog) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	p.ID = uuid.New()
	return p, f.err
}
func (f *fakeCatalog) Update(_ context.Context, id uuid.UUID, p *domain.Product) (*domain.Product, error) {
	p.ID = id
	return p, f.err
}
func (f *fakeCatalog) Delete(context.Context, uuid.UUID) error { return f.err }
