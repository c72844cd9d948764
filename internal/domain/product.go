package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductName        = errors.New("product name is required and must be at most 255 characters")
	ErrInvalidProductDescription = errors.New("product description is required")
	ErrInvalidProductPrice       = errors.New("product price must be zero or positive")
)

// Product represents a catalog listing owned by exactly one user.
// An empty Image means the product has no image.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	UserID      int64
	Owner       *User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct creates a product attributed to ownerID with validation.
// ID and timestamps are assigned by the repository on create.
func NewProduct(name, description string, price decimal.Decimal, ownerID int64) (*Product, error) {
	product := &Product{
		Name:        name,
		Description: description,
		Price:       price.Round(2),
		UserID:      ownerID,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate performs business validation on the product.
func (p *Product) Validate() error {
	if p.Name == "" || len(p.Name) > 255 {
		return ErrInvalidProductName
	}
	if p.Description == "" {
		return ErrInvalidProductDescription
	}
	if p.Price.IsNegative() {
		return ErrInvalidProductPrice
	}
	return nil
}

// IsOwnedBy reports whether the product belongs to the given user.
// Ownership is fixed at creation and never transfers.
func (p *Product) IsOwnedBy(userID int64) bool {
	return p.UserID == userID
}

// UpdatePrice sets a new price, keeping monetary two-digit precision.
func (p *Product) UpdatePrice(newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return ErrInvalidProductPrice
	}
	p.Price = newPrice.Round(2)
	return nil
}

// UpdateImage replaces the stored image key. An empty key clears it.
func (p *Product) UpdateImage(key string) {
	p.Image = key
}

// HasImage reports whether the product references a stored image blob.
func (p *Product) HasImage() bool {
	return p.Image != ""
}
