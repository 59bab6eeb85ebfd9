package handler

import (
	"context"
	"net/http"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// AuthService authenticates credentials against stored users.
type AuthService interface {
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// AuthHandler serves login and identity endpoints.
type AuthHandler struct {
	auth   AuthService
	issuer TokenIssuer
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth AuthService, issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{auth: auth, issuer: issuer}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	user, err := h.auth.Authenticate(r.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	token, err := h.issuer.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// Me handles GET /auth/me, echoing the authenticated user from context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
