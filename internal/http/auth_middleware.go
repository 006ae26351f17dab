package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"go.uber.org/zap"
)

// TokenCookie 登录 cookie 名
const TokenCookie = "token"

type identityKey struct{}

func withIdentity(ctx context.Context, id *service.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the verified caller, or nil on unguarded routes.
func IdentityFrom(ctx context.Context) *service.Identity {
	id, _ := ctx.Value(identityKey{}).(*service.Identity)
	return id
}

// tokenFromRequest: cookie 优先，其次 Authorization: Bearer
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

type roleLookup interface {
	UserRole(ctx context.Context, email string) (string, error)
}

// Guard wraps handlers with authentication and role checks.
type Guard struct {
	tokens *service.TokenService
	users  roleLookup
	logger *zap.Logger
}

func NewGuard(tokens *service.TokenService, users roleLookup, logger *zap.Logger) *Guard {
	return &Guard{tokens: tokens, users: users, logger: logger}
}

// Authenticated rejects requests without a valid token.
func (g *Guard) Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := g.tokens.VerifyToken(r.Context(), tokenFromRequest(r))
		if err != nil {
			writeError(w, g.logger, service.ErrUnauthenticated)
			return
		}
		next(w, r.WithContext(withIdentity(r.Context(), id)))
	}
}

// Role additionally requires the stored user to hold role. The user record
// is read on every request so role changes apply immediately.
func (g *Guard) Role(role string, next http.HandlerFunc) http.HandlerFunc {
	return g.Authenticated(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFrom(r.Context())
		current, err := g.users.UserRole(r.Context(), id.Email)
		if err != nil || current != role {
			if err != nil {
				g.logger.Debug("role lookup failed", zap.String("email", id.Email), zap.Error(err))
			}
			writeError(w, g.logger, service.ErrUnauthorized)
			return
		}
		next(w, r)
	})
}
