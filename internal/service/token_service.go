package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is what a verified token proves about the caller.
type Identity struct {
	Email     string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

// Claims JWT 载荷
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Revoker is backed by store.RevocationList.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenService 签发/校验 HS256 token
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	revoked Revoker
	logger  *zap.Logger
	now     func() time.Time
}

// NewTokenService revoked may be nil, in which case logout only clears the cookie.
func NewTokenService(secret string, ttl time.Duration, revoked Revoker, logger *zap.Logger) *TokenService {
	return &TokenService{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		logger:  logger,
		now:     time.Now,
	}
}

// IssueTokenRequest is the user payload posted to /jwt.
type IssueTokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type IssueTokenResponse struct {
	Token     string
	ExpiresAt time.Time
}

func (s *TokenService) IssueToken(_ context.Context, req IssueTokenRequest) (*IssueTokenResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, invalid("email is required")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Email: email,
		Name:  req.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &IssueTokenResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *TokenService) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Email == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// VerifyToken rejects missing, malformed, expired, tampered and revoked tokens.
func (s *TokenService) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// revocation store down: the signature is still valid
			s.logger.Warn("token revocation check failed", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return nil, ErrUnauthenticated
		}
	}

	id := &Identity{Email: claims.Email, Name: claims.Name, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// RevokeToken is best effort. Invalid tokens have nothing to revoke.
func (s *TokenService) RevokeToken(ctx context.Context, token string) {
	if s.revoked == nil || token == "" {
		return
	}
	claims, err := s.parse(token)
	if err != nil {
		return
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Warn("failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
	}
}
