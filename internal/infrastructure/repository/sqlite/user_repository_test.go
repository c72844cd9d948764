package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

func TestUserRoundTrip(t *testing.T) {
	_, users := newRepos(t)
	ctx := context.Background()

	created := createUser(t, users, "admin@mggourmet.com")
	assert.NotZero(t, created.ID)

	byID, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@mggourmet.com", byID.Email)

	byEmail, err := users.FindByEmail(ctx, "admin@mggourmet.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestUserNotFound(t *testing.T) {
	_, users := newRepos(t)
	ctx := context.Background()

	_, err := users.FindByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = users.FindByEmail(ctx, "nobody@mggourmet.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDuplicateEmail(t *testing.T) {
	_, users := newRepos(t)
	ctx := context.Background()

	createUser(t, users, "demo@mggourmet.com")

	err := users.Create(ctx, &domain.User{Name: "other", Email: "demo@mggourmet.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}
