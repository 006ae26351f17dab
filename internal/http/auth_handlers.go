package httpapi

import (
	"net/http"

	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"go.uber.org/zap"
)

// AuthHandler /jwt 与 /logout
type AuthHandler struct {
	tokens     *service.TokenService
	production bool
	logger     *zap.Logger
}

func NewAuthHandler(tokens *service.TokenService, production bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, production: production, logger: logger}
}

// tokenCookie builds the session cookie. In production it is Secure and
// SameSite=None so the SPA on another origin can send it.
func (h *AuthHandler) tokenCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     TokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAge,
		SameSite: http.SameSiteStrictMode,
	}
	if h.production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req service.IssueTokenRequest
	if !decodeOr400(w, r, &req) {
		return
	}
	res, err := h.tokens.IssueToken(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	http.SetCookie(w, h.tokenCookie(res.Token, 0))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the cookie. A presented token is also revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := tokenFromRequest(r); token != "" {
		h.tokens.RevokeToken(r.Context(), token)
	}
	http.SetCookie(w, h.tokenCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
