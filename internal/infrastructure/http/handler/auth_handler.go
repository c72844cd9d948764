package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/C-SergioSilva/Mg-gourmet/internal/app/dto"
	"github.com/C-SergioSilva/Mg-gourmet/internal/app/service"
	"github.com/C-SergioSilva/Mg-gourmet/internal/domain"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http/middleware"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http/response"
)

// AuthHandler handles HTTP requests for registration and sessions
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFormError(w, err)
		return
	}

	token, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.ValidationFailed(w, map[string]string{
				"email": "The email has already been taken.",
			})
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to register user",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	response.SuccessMessage(w, http.StatusCreated, "User registered successfully", token)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFormError(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to log in user",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	response.Success(w, http.StatusOK, token)
}

// Me handles GET /api/auth/me (authenticated)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	response.Success(w, http.StatusOK, user)
}

// Refresh handles POST /api/auth/refresh (authenticated)
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	token, err := h.service.Refresh(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "Token refresh failed")
		return
	}
	response.Success(w, http.StatusOK, token)
}

// Logout handles POST /api/auth/logout (authenticated). Tokens are
// stateless, so the server only acknowledges; clients drop the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	response.SuccessMessage(w, http.StatusOK, "Successfully logged out", nil)
}
