package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/C-SergioSilva/Mg-gourmet/internal/app/dto"
	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/auth"
)

// ErrInvalidCredentials is returned on login with an unknown email or a
// wrong password; the two cases are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles registration and token issuing. Tokens are stateless,
// so logout is purely a client-side concern.
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	tracer trace.Tracer
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users domain.UserRepository,
	tokens *auth.TokenManager,
	tracer trace.Tracer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		tracer: tracer,
		logger: logger,
	}
}

// Register creates a user and mints a token for it. A duplicate email
// reports domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered",
		slog.Int64("user_id", user.ID),
	)
	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return s.tokenFor(user)
}

// Login authenticates the credentials and mints a token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		span.RecordError(err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WarnContext(ctx, "Login attempt with wrong password",
			slog.Int64("user_id", user.ID),
		)
		return nil, ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "User logged in",
		slog.Int64("user_id", user.ID),
	)
	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return s.tokenFor(user)
}

// Me returns the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Me")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// Refresh mints a fresh token for an already-authenticated caller.
func (s *AuthService) Refresh(ctx context.Context, userID int64) (*dto.TokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.tokenFor(user)
}

func (s *AuthService) tokenFor(user *domain.User) (*dto.TokenResponse, error) {
	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        dto.ToUserResponse(user),
	}, nil
}
