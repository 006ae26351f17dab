package store

import (
	"context"
	"errors"
	"time"
)

const revokedKeyPrefix = "windhouse:revoked:"

// RevocationList records logged-out token ids until the token would have
// expired anyway.
type RevocationList struct {
	kv KV
}

func NewRevocationList(kv KV) *RevocationList {
	return &RevocationList{kv: kv}
}

// Revoke marks tokenID revoked. Tokens already past expiresAt are ignored.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.kv.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl)
}

func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, err := r.kv.Get(ctx, revokedKeyPrefix+tokenID)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
