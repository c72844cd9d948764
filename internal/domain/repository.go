package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductUpdate carries a partial overwrite of product fields.
// Nil fields are left untouched by the repository.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
}

// ProductRepository defines the contract for product storage.
// Listings are ordered newest-created first with the monotonic id as
// tie-breaker so pagination stays deterministic.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindByUser(ctx context.Context, userID int64) ([]*Product, error)
	// FindAll returns every product, newest first, with Owner resolved.
	FindAll(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, id int64, fields ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines the contract for identity storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// ImageStore is the blob storage collaborator for product images.
// Keys are generated, unique and safe to expose under the public storage
// tree. Delete is idempotent: removing an absent key is not an error.
type ImageStore interface {
	Store(ctx context.Context, data []byte, originalName string) (string, error)
	Delete(ctx context.Context, key string) error
}
