package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line in a user's cart. Price is the unit price
// captured when the product was first added.
type CartItem struct {
	ID        uuid.UUID `json:"_id"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Price     int       `json:"price"`
	AddedAt   time.Time `json:"addedAt"`
}

// Cart is embedded in the user document. TotalPrice is derived and is only
// ever written by recalculate.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalPrice int        `json:"totalPrice"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// AddItem merges quantity into an existing line for productID or appends a
// new line priced at unitPrice. The unit price of an existing line is kept.
func (c *Cart) AddItem(productID uuid.UUID, quantity, unitPrice int, now time.Time) (CartItem, error) {
	if quantity < 1 {
		return CartItem{}, NewValidationError("quantity", "Quantity must be at least 1")
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.recalculate(now)
			return c.Items[i], nil
		}
	}

	item := CartItem{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		Price:     unitPrice,
		AddedAt:   now,
	}
	c.Items = append(c.Items, item)
	c.recalculate(now)
	return item, nil
}

// UpdateItem sets the quantity of a line. A quantity of zero or less removes it.
func (c *Cart) UpdateItem(itemID uuid.UUID, quantity int, now time.Time) error {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		c.Items[idx].Quantity = quantity
	}
	c.recalculate(now)
	return nil
}

// RemoveItem drops a line if present. Unknown ids are a no-op.
func (c *Cart) RemoveItem(itemID uuid.UUID, now time.Time) {
	if idx := c.indexOf(itemID); idx >= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	}
	c.recalculate(now)
}

// Clear empties the cart.
func (c *Cart) Clear(now time.Time) {
	c.Items = []CartItem{}
	c.recalculate(now)
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) indexOf(itemID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) recalculate(now time.Time) {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity * item.Price
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	c.TotalPrice = total
	c.UpdatedAt = now
}

func (c *Cart) Scan(src interface{}) error {
	if err := scanJSON(src, c); err != nil {
		return err
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	return nil
}

func (c Cart) Value() (driver.Value, error) {
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	return valueJSON(c)
}
