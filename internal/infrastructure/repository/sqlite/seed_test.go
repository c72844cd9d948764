package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/repository/sqlite"
)

func TestSeed(t *testing.T) {
	products, users := newRepos(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, sqlite.Seed(ctx, users, products, logger))

	admin, err := users.FindByEmail(ctx, "admin@mggourmet.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))

	demo, err := users.FindByEmail(ctx, "demo@mggourmet.com")
	require.NoError(t, err)

	all, err := products.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	adminProducts, err := products.FindByUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, adminProducts, 5)

	demoProducts, err := products.FindByUser(ctx, demo.ID)
	require.NoError(t, err)
	require.Len(t, demoProducts, 1)
	assert.Equal(t, "Din Din Light", demoProducts[0].Name)
	assert.Equal(t, "24.90", demoProducts[0].Price.StringFixed(2))

	// Seeding again is a no-op.
	require.NoError(t, sqlite.Seed(ctx, users, products, logger))
	all, err = products.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
