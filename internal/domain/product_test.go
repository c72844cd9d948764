package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	price := decimal.RequireFromString("25.90")
	product, err := NewProduct("Din Din Gourmet Frango", "Delicioso din din gourmet de frango.", price, 1)
	require.NoError(t, err)

	assert.Equal(t, "Din Din Gourmet Frango", product.Name)
	assert.Equal(t, int64(1), product.UserID)
	assert.True(t, product.Price.Equal(price))
	assert.False(t, product.HasImage())
	assert.Zero(t, product.ID, "id is assigned by the repository")
}

func TestNewProductValidation(t *testing.T) {
	price := decimal.NewFromInt(10)

	tests := []struct {
		name        string
		productName string
		description string
		price       decimal.Decimal
		wantErr     error
	}{
		{"empty name", "", "desc", price, ErrInvalidProductName},
		{"name too long", strings.Repeat("x", 256), "desc", price, ErrInvalidProductName},
		{"empty description", "name", "", price, ErrInvalidProductDescription},
		{"negative price", "name", "desc", decimal.RequireFromString("-0.01"), ErrInvalidProductPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.productName, tt.description, tt.price, 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("zero price is valid", func(t *testing.T) {
		_, err := NewProduct("free sample", "desc", decimal.Zero, 1)
		assert.NoError(t, err)
	})

	t.Run("255 char name is valid", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("x", 255), "desc", price, 1)
		assert.NoError(t, err)
	})
}

func TestProductPricePrecision(t *testing.T) {
	product, err := NewProduct("p", "d", decimal.RequireFromString("25.899"), 1)
	require.NoError(t, err)
	assert.Equal(t, "25.90", product.Price.StringFixed(2))

	require.NoError(t, product.UpdatePrice(decimal.RequireFromString("19.999")))
	assert.Equal(t, "20.00", product.Price.StringFixed(2))

	err = product.UpdatePrice(decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrInvalidProductPrice)
	assert.Equal(t, "20.00", product.Price.StringFixed(2), "failed update must not mutate the price")
}

func TestProductOwnership(t *testing.T) {
	product, err := NewProduct("p", "d", decimal.NewFromInt(5), 1)
	require.NoError(t, err)

	assert.True(t, product.IsOwnedBy(1))
	assert.False(t, product.IsOwnedBy(2))
}

func TestProductImage(t *testing.T) {
	product, err := NewProduct("p", "d", decimal.NewFromInt(5), 1)
	require.NoError(t, err)

	product.UpdateImage("products/123_a_photo.png")
	assert.True(t, product.HasImage())

	product.UpdateImage("")
	assert.False(t, product.HasImage())
}
