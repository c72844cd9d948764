package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C-SergioSilva/Mg-gourmet/internal/app/dto"
	"github.com/C-SergioSilva/Mg-gourmet/internal/app/service"
	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/auth"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/repository/memory"
)

func newAuthEnv(t *testing.T) *service.AuthService {
	t.Helper()
	tracer, _, logger := testTelemetry()
	users := memory.NewUserRepository(tracer, logger)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return service.NewAuthService(users, tokens, tracer, logger)
}

func registerReq() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:                 "Demo User",
		Email:                "demo@mggourmet.com",
		Password:             "demo1234",
		PasswordConfirmation: "demo1234",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthEnv(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "bearer", registered.TokenType)
	assert.Equal(t, int64(3600), registered.ExpiresIn)
	require.NotNil(t, registered.User)
	assert.Equal(t, "demo@mggourmet.com", registered.User.Email)

	logged, err := svc.Login(ctx, &dto.LoginRequest{Email: "demo@mggourmet.com", Password: "demo1234"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, logged.User.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "demo@mggourmet.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@mggourmet.com", Password: "demo1234"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials, "unknown email and wrong password look alike")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestMeAndRefresh(t *testing.T) {
	svc := newAuthEnv(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	me, err := svc.Me(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demo User", me.Name)

	refreshed, err := svc.Refresh(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Me(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
