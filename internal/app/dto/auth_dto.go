package dto

import (
	"time"

	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
)

// RegisterRequest represents the request to register a new user.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// Validate checks the registration payload.
func (r *RegisterRequest) Validate() error {
	if fields := structErrors(r); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// LoginRequest represents the request to authenticate.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the login payload.
func (r *LoginRequest) Validate() error {
	if fields := structErrors(r); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// UserResponse is the wire representation of a user. The password hash
// never leaves the service.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a domain User to UserResponse.
func ToUserResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}
