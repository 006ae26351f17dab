package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/gopalbasak1/wind-house-management-server/common/database"
	commonlogger "github.com/gopalbasak1/wind-house-management-server/common/logger"
	commonmqtt "github.com/gopalbasak1/wind-house-management-server/common/mqtt"
	commonredis "github.com/gopalbasak1/wind-house-management-server/common/redis"
	"github.com/gopalbasak1/wind-house-management-server/internal/config"
	"github.com/gopalbasak1/wind-house-management-server/internal/events"
	"github.com/gopalbasak1/wind-house-management-server/internal/repository"
	"github.com/gopalbasak1/wind-house-management-server/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// backend is an opened store plus its schema migration.
type backend struct {
	store   *repository.Store
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

func newBackend(st *repository.Store, migrate func(ctx context.Context) error) *backend {
	return &backend{store: st, migrate: migrate, close: st.Close}
}

// migrateOrClose 迁移失败时关闭连接再返回
func (b *backend) migrateOrClose(ctx context.Context, logger *zap.Logger) error {
	if err := b.migrate(ctx); err != nil {
		if cerr := b.close(ctx); cerr != nil {
			logger.Warn("store close", zap.Error(cerr))
		}
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("store: postgres", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Database))
		return newBackend(repository.NewPostgresStore(db),
			func(ctx context.Context) error { return repository.MigratePostgres(ctx, db) }), nil

	case config.StoreMongo:
		client, err := database.NewMongoClient(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		mdb := client.Database(cfg.Mongo.Database)
		logger.Info("store: mongo", zap.String("database", cfg.Mongo.Database))
		return newBackend(repository.NewMongoStore(mdb),
			func(ctx context.Context) error { return repository.MigrateMongo(ctx, mdb) }), nil

	case config.StoreMemory, "":
		// 内存模式：重启即丢数据，仅用于本地联调
		logger.Warn("store: memory, data is lost on restart")
		return newBackend(repository.NewMemoryStore(), func(context.Context) error { return nil }), nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}

// sideChannels holds the optional redis and mqtt connections.
type sideChannels struct {
	redis     *redis.Client
	mqtt      *commonmqtt.Client
	kv        store.KV
	publisher events.Publisher
}

func (s *sideChannels) close(logger *zap.Logger) {
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if s.redis != nil {
		if err := commonredis.Close(s.redis); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}

// openSideChannels connects redis (revocation list + event stream) and mqtt
// (announcement broadcast) when enabled. Both are optional.
func openSideChannels(ctx context.Context, cfg *config.Config, logger *zap.Logger) *sideChannels {
	sc := &sideChannels{kv: store.NewMemoryKV()}
	var pubs events.Multi

	if cfg.RedisEnabled {
		sc.redis = commonredis.NewRedisClient(&cfg.Redis)
		if err := commonredis.Ping(ctx, sc.redis); err != nil {
			logger.Warn("redis not reachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		sc.kv = store.NewRedisKV(sc.redis)
		pubs = append(pubs, events.NewRedisStream(sc.redis, cfg.Events.Stream, cfg.Events.MaxLen))
	} else {
		logger.Info("redis disabled, token revocations are kept in memory")
	}

	if cfg.MQTT.Enabled {
		client, err := commonmqtt.NewClient(&cfg.MQTT.MQTTConfig)
		if err != nil {
			logger.Warn("mqtt connect failed, announcements will not be broadcast", zap.Error(err))
		} else {
			sc.mqtt = client
			pubs = append(pubs, events.NewMQTT(client, cfg.MQTT.Topic, events.AnnouncementCreated))
		}
	}

	switch len(pubs) {
	case 0:
		sc.publisher = events.Nop{}
	case 1:
		sc.publisher = pubs[0]
	default:
		sc.publisher = pubs
	}
	return sc
}

// tokenSecret returns ACCESS_TOKEN_SECRET. Outside production a random
// secret is generated, so tokens do not survive a restart.
func tokenSecret(cfg *config.Config, logger *zap.Logger) (string, error) {
	if cfg.Auth.Secret != "" {
		return cfg.Auth.Secret, nil
	}
	if cfg.Production() {
		return "", errors.New("ACCESS_TOKEN_SECRET is required in production")
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}
	logger.Warn("ACCESS_TOKEN_SECRET not set, using an ephemeral secret")
	return hex.EncodeToString(buf), nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return commonlogger.NewLogger(cfg.Log.Level, cfg.Log.Format, "windhouse")
}
