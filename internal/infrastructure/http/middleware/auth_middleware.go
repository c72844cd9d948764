package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/auth"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http/response"
)

type authContextKey string

const userIDKey authContextKey = "auth.user_id"

// UserIDFromContext returns the authenticated user id placed by
// Authenticate. The boolean is false on unauthenticated requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// WithUserID returns a context carrying the authenticated user id. Exposed
// for handler tests.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Authenticate validates the bearer token and injects the caller's user id
// into the request context. Requests without a valid token get a 401.
func Authenticate(tokens *auth.TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				response.Error(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			userID, err := tokens.Parse(strings.TrimPrefix(header, prefix))
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
