package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/repository/sqlite"
)

func newRepos(t *testing.T) (*sqlite.ProductRepository, *sqlite.UserRepository) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	tracer := sdktrace.NewTracerProvider().Tracer("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return sqlite.NewProductRepository(db, tracer, logger), sqlite.NewUserRepository(db, tracer, logger)
}

func createUser(t *testing.T, users *sqlite.UserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: "User " + email, Email: email, PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func createProduct(t *testing.T, products *sqlite.ProductRepository, name, price string, ownerID int64) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(name, "description of "+name, decimal.RequireFromString(price), ownerID)
	require.NoError(t, err)
	require.NoError(t, products.Create(context.Background(), p))
	return p
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	products, users := newRepos(t)
	owner := createUser(t, users, "a@mggourmet.com")

	p := createProduct(t, products, "Din Din Gourmet Frango", "25.90", owner.ID)
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	q := createProduct(t, products, "Din Din Gourmet Carne", "28.90", owner.ID)
	assert.NotEqual(t, p.ID, q.ID)
}

func TestFindByIDRoundTrip(t *testing.T) {
	products, users := newRepos(t)
	owner := createUser(t, users, "a@mggourmet.com")
	created := createProduct(t, products, "Din Din Light", "24.90", owner.ID)

	got, err := products.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Din Din Light", got.Name)
	assert.Equal(t, "24.90", got.Price.StringFixed(2), "price survives storage without drift")
	assert.Equal(t, owner.ID, got.UserID)
	assert.False(t, got.HasImage())

	_, err = products.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPartialUpdate(t *testing.T) {
	products, users := newRepos(t)
	owner := createUser(t, users, "a@mggourmet.com")
	created := createProduct(t, products, "original", "10.00", owner.ID)

	price := decimal.RequireFromString("25.90")
	updated, err := products.Update(context.Background(), created.ID, domain.ProductUpdate{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, "25.90", updated.Price.StringFixed(2))
	assert.Equal(t, "original", updated.Name, "untouched fields keep their values")
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, owner.ID, updated.UserID)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	name := "renamed"
	image := "products/1_ab_photo.png"
	updated, err = products.Update(context.Background(), created.ID, domain.ProductUpdate{Name: &name, Image: &image})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, image, updated.Image)
	assert.Equal(t, "25.90", updated.Price.StringFixed(2))

	cleared := ""
	updated, err = products.Update(context.Background(), created.ID, domain.ProductUpdate{Image: &cleared})
	require.NoError(t, err)
	assert.False(t, updated.HasImage())
}

func TestUpdateMissing(t *testing.T) {
	products, _ := newRepos(t)

	name := "x"
	_, err := products.Update(context.Background(), 404, domain.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDelete(t *testing.T) {
	products, users := newRepos(t)
	owner := createUser(t, users, "a@mggourmet.com")
	created := createProduct(t, products, "doomed", "1.00", owner.ID)

	require.NoError(t, products.Delete(context.Background(), created.ID))

	_, err := products.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	err = products.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListingOrderAndOwnerResolution(t *testing.T) {
	products, users := newRepos(t)
	admin := createUser(t, users, "admin@mggourmet.com")
	demo := createUser(t, users, "demo@mggourmet.com")

	first := createProduct(t, products, "first", "1.00", admin.ID)
	second := createProduct(t, products, "second", "2.00", admin.ID)
	third := createProduct(t, products, "third", "3.00", demo.ID)

	all, err := products.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID, "newest created first")
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, first.ID, all[2].ID)
	for _, p := range all {
		require.NotNil(t, p.Owner, "FindAll resolves the owning user")
		assert.Equal(t, p.UserID, p.Owner.ID)
	}
	assert.Equal(t, "demo@mggourmet.com", all[0].Owner.Email)

	mine, err := products.FindByUser(context.Background(), admin.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}
