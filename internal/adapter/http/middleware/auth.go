package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/infrastructure/auth"
)

// AuthMiddleware validates bearer tokens and attaches the authenticated
// user to the request context.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

// NewAuthMiddleware creates an auth middleware.
func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.verify(r)
		if !ok {
			unauthorized(w, "missing or invalid bearer token")
			return
		}
		ctx := domain.ContextWithUser(r.Context(), &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the user when a valid token is present but lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := m.verify(r); ok {
			ctx := domain.ContextWithUser(r.Context(), &domain.User{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  claims.Role,
			})
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects authenticated users below the given role.
func (m *AuthMiddleware) RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				unauthorized(w, "authentication required")
				return
			}
			if !user.Role.AtLeast(role) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) verify(r *http.Request) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, false
	}
	claims, err := m.jwtManager.Verify(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, "unauthorized", message)
}

func forbidden(w http.ResponseWriter) {
	writeJSONError(w, http.StatusForbidden, "forbidden", "insufficient role for this operation")
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}
