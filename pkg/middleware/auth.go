package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/domain/entities/apitoken"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/constants"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
)

// UserResolver loads the principal behind an authenticated user id.
type UserResolver interface {
	UserByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

// TokenResolver validates bearer tokens for external integrations.
type TokenResolver interface {
	TokenByValue(ctx context.Context, token string) (*apitoken.APIToken, error)
}

// WithTenant scopes every request to the community named in the header. The
// session layer in front of this service guarantees the header; requests
// without it can only reach endpoints that never touch tenant data.
func WithTenant(header string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(header)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "community id must be a UUID", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
		})
	}
}

// WithUser resolves the authenticated user named in the header and installs it
// in the request context. Banned users are treated as anonymous.
func WithUser(header string, resolver UserResolver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(header)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			u, err := resolver.UserByID(r.Context(), userID)
			if err != nil || u.Banned() {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithUser(r.Context(), u)))
		})
	}
}

// TokenAuth authenticates bearer tokens. A valid token scopes the request to
// the token's community and marks it token-authenticated; no user principal
// or permission check is involved.
func TokenAuth(resolver TokenResolver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			t, err := resolver.TokenByValue(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "INVALID_TOKEN", "api token not recognized", nil)
				return
			}
			ctx := composables.WithTenantID(r.Context(), t.TenantID)
			ctx = context.WithValue(ctx, constants.APITokenKey, t)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UseAPIToken returns the token credential attached by TokenAuth, if any.
func UseAPIToken(ctx context.Context) (*apitoken.APIToken, bool) {
	t, ok := ctx.Value(constants.APITokenKey).(*apitoken.APIToken)
	return t, ok
}
