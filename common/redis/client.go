package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/common/config"

	"github.com/go-redis/redis/v8"
)

// pingTimeout bounds the startup reachability check.
const pingTimeout = 3 * time.Second

// NewRedisClient 创建Redis客户端（不建立连接，首个命令时才拨号）
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	return redis.NewClient(opts)
}

// Ping checks reachability, giving up after pingTimeout.
func Ping(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}
	return nil
}

// Close 关闭Redis连接，nil 安全
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
