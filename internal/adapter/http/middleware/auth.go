package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/signme/signme-backend/internal/domain/models"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
)

// --- base auth middleware ---

// Auth validates the JWT, loads the account and injects it into context.
// A missing header passes through as anonymous; protected endpoints reject
// anonymous callers in RequireAuth.
func (h *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			r = r.WithContext(models.WithAccount(ctx, models.AnonymousAccount()))
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		acc, err := h.auth.Authenticate(ctx, token)
		if err != nil || acc == nil {
			h.log.Error(wrap.ErrorCtx(ctx, err), "failed to authenticate account", err)
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx = wrap.WithEmail(ctx, acc.Email)
		next.ServeHTTP(w, r.WithContext(models.WithAccount(ctx, acc)))
	})
}

// RequireAuth wraps a handler and allows only authenticated accounts.
func (h *Middleware) RequireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc := models.AccountFromContext(r.Context())
		if acc == nil || acc.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- header parser ---
func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
