package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a refurbished device in the catalog. Quantity is the
// recorded stock and only changes through admin edits or order placement.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Price         int       `json:"price" db:"price"`
	OriginalPrice *int      `json:"originalPrice,omitempty" db:"original_price"`
	Image         string    `json:"image" db:"image"`
	Condition     string    `json:"condition" db:"condition"`
	Category      string    `json:"category" db:"category"`
	Brand         string    `json:"brand" db:"brand"`
	Description   string    `json:"description" db:"description"`
	Specs         Strings   `json:"specs" db:"specs"`
	Warranty      string    `json:"warranty" db:"warranty"`
	Quantity      int       `json:"quantity" db:"quantity"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductSummary is the display subset embedded into carts and orders.
type ProductSummary struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	Image     string    `json:"image"`
	Brand     string    `json:"brand"`
	Condition string    `json:"condition"`
}

// Summary returns the display fields of the product.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Brand:     p.Brand,
		Condition: p.Condition,
	}
}

// ProductFilter narrows a catalog query. Zero values mean "no constraint".
type ProductFilter struct {
	Search   string
	Category string
	MinPrice *int
	MaxPrice *int
	Limit    int
}
