package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/repository"

	"github.com/google/uuid"
)

// CartLine is a cart item with its product display fields resolved.
type CartLine struct {
	ID       uuid.UUID              `json:"_id"`
	Product  *domain.ProductSummary `json:"productId"`
	Quantity int                    `json:"quantity"`
	Price    int                    `json:"price"`
	AddedAt  time.Time              `json:"addedAt"`
}

// CartView is the cart as returned to clients.
type CartView struct {
	Items      []CartLine `json:"items"`
	TotalPrice int        `json:"totalPrice"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type cartService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewCartService(users repository.UserRepository, products repository.ProductRepository) CartService {
	return &cartService{users: users, products: products, now: time.Now}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.resolve(ctx, &user.Cart)
}

func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartView, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	cart, err := s.users.UpdateCart(ctx, userID, func(c *domain.Cart) error {
		_, err := c.AddItem(product.ID, quantity, product.Price, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, cart)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartView, error) {
	cart, err := s.users.UpdateCart(ctx, userID, func(c *domain.Cart) error {
		return c.UpdateItem(itemID, quantity, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error) {
	cart, err := s.users.UpdateCart(ctx, userID, func(c *domain.Cart) error {
		c.RemoveItem(itemID, s.now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, cart)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.users.UpdateCart(ctx, userID, func(c *domain.Cart) error {
		c.Clear(s.now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, cart)
}

// resolve attaches product display fields. Products deleted since they were
// added resolve to nil rather than failing the read.
func (s *cartService) resolve(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	view := &CartView{
		Items:      make([]CartLine, 0, len(cart.Items)),
		TotalPrice: cart.TotalPrice,
		UpdatedAt:  cart.UpdatedAt,
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}

	for _, item := range cart.Items {
		line := CartLine{ID: item.ID, Quantity: item.Quantity, Price: item.Price, AddedAt: item.AddedAt}
		if p, ok := products[item.ProductID]; ok {
			summary := p.Summary()
			line.Product = &summary
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}
