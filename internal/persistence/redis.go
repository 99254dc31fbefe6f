package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/config"
)

// Redis wraps the go-redis client. It backs the unread-notification count
// cache and the pub/sub change feed the UI subscribes to.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// Publish sends a payload to a pub/sub channel. A nil client is a no-op.
func (r *Redis) Publish(ctx context.Context, channel string, payload any) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Publish(ctx, channel, payload).Err()
}

// SetCached stores a value with a TTL. A nil client is a no-op.
func (r *Redis) SetCached(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Set(ctx, key, value, ttl).Err()
}

// GetCachedInt fetches an integer value; ok is false on miss or when the
// client is not configured.
func (r *Redis) GetCachedInt(ctx context.Context, key string) (int, bool) {
	if r == nil || r.Client == nil {
		return 0, false
	}
	val, err := r.Client.Get(ctx, key).Int()
	if err != nil {
		return 0, false
	}
	return val, true
}

// Invalidate removes cached keys. A nil client is a no-op.
func (r *Redis) Invalidate(ctx context.Context, keys ...string) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}
