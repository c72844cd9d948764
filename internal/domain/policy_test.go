package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanMutate(t *testing.T) {
	product, err := NewProduct("p", "d", decimal.NewFromInt(5), 7)
	require.NoError(t, err)

	assert.True(t, CanMutate(product, 7))
	assert.False(t, CanMutate(product, 8))
	assert.False(t, CanMutate(nil, 7))
}
