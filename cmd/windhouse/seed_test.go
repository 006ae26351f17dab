package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopalbasak1/wind-house-management-server/internal/config"
	"github.com/gopalbasak1/wind-house-management-server/internal/domain"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUsersRepo()

	require.NoError(t, ensureAdmin(ctx, users, "owner@example.com", "Owner"))
	u, err := users.GetUserByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	// existing general user is promoted
	_, _, err = users.CreateUser(ctx, &domain.User{Email: "g@example.com", Role: domain.RoleGeneral})
	require.NoError(t, err)
	require.NoError(t, ensureAdmin(ctx, users, "g@example.com", "ignored"))
	u, err = users.GetUserByEmail(ctx, "g@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestDemoApartments(t *testing.T) {
	list := demoApartments()
	require.Len(t, list, 12)
	seen := map[string]bool{}
	for _, a := range list {
		assert.False(t, seen[a.ApartmentNo], "duplicate %s", a.ApartmentNo)
		seen[a.ApartmentNo] = true
		assert.Positive(t, a.Rent)
	}
}

func TestLoadApartments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apartments.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"apartment_no":"Z-101","floor_no":"1","block_name":"Z","rent":1500}]`), 0o600))

	list, err := loadApartments(path)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Z-101", list[0].ApartmentNo)
	assert.Equal(t, 1500.0, list[0].Rent)

	_, err = loadApartments(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestTokenSecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.Secret = "configured"
	s, err := tokenSecret(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "configured", s)

	cfg.Auth.Secret = ""
	s, err = tokenSecret(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, s, 64)

	cfg.Env = "production"
	_, err = tokenSecret(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenBackend(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.StoreMemory}
	be, err := openBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, be.migrate(context.Background()))
	assert.NoError(t, be.store.Ping(context.Background()))

	cfg.StoreBackend = "cassandra"
	_, err = openBackend(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestBackendMigrateOrClose(t *testing.T) {
	tests := []struct {
		name       string
		migrateErr error
		wantClosed bool
	}{
		{"migrate ok keeps store open", nil, false},
		{"migrate failure closes store", errors.New("relation exists"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed := 0
			be := &backend{
				store:   repository.NewMemoryStore(),
				migrate: func(context.Context) error { return tt.migrateErr },
				close: func(context.Context) error {
					closed++
					return nil
				},
			}

			err := be.migrateOrClose(context.Background(), zap.NewNop())
			if tt.migrateErr != nil {
				assert.ErrorIs(t, err, tt.migrateErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantClosed, closed == 1)
		})
	}
}
