package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-do-not-use"

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, nil, zap.NewNop())
	ctx := context.Background()

	issued, err := svc.IssueToken(ctx, IssueTokenRequest{Email: "t@example.com", Name: "Tenant"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	id, err := svc.VerifyToken(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "t@example.com", id.Email)
	assert.Equal(t, "Tenant", id.Name)
	assert.NotEmpty(t, id.TokenID)
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, nil, zap.NewNop())
	ctx := context.Background()

	issued, err := svc.IssueToken(ctx, IssueTokenRequest{Email: "t@example.com"})
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	other := NewTokenService("another-secret", time.Hour, nil, zap.NewNop())
	foreign, err := other.IssueToken(ctx, IssueTokenRequest{Email: "t@example.com"})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "t@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered signature", tampered},
		{"wrong secret", foreign.Token},
		{"alg none", none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(ctx, tt.token)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, nil, zap.NewNop())
	ctx := context.Background()

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := svc.IssueToken(ctx, IssueTokenRequest{Email: "t@example.com"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyToken(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTokenService_IssueRequiresEmail(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour, nil, zap.NewNop())
	_, err := svc.IssueToken(context.Background(), IssueTokenRequest{Email: "  "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTokenService_RevokedTokenFails(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	revocations := store.NewRevocationList(store.NewRedisKV(client))
	svc := NewTokenService(testSecret, time.Hour, revocations, zap.NewNop())
	ctx := context.Background()

	issued, err := svc.IssueToken(ctx, IssueTokenRequest{Email: "t@example.com"})
	require.NoError(t, err)
	_, err = svc.VerifyToken(ctx, issued.Token)
	require.NoError(t, err)

	svc.RevokeToken(ctx, issued.Token)
	_, err = svc.VerifyToken(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// redis outage: signature still decides
	fresh, err := svc.IssueToken(ctx, IssueTokenRequest{Email: "t@example.com"})
	require.NoError(t, err)
	mr.Close()
	_, err = svc.VerifyToken(ctx, fresh.Token)
	assert.NoError(t, err)
}
