package cache

import (
	"context"
	"time"

	"github.com/jabol183/ezbots-V2/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis server
type Redis struct {
	client *redis.Client
	log    *logger.Logger
}

// RedisOptions configures the Redis cache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis creates a new Redis-backed cache
func NewRedis(opts RedisOptions, log *logger.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	return &Redis{client: client, log: log}
}

// Get retrieves a value by key
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("redis get failed", "key", key, "error", err.Error())
		}
		return "", false
	}
	return val, true
}

// Set stores a value with the given TTL. Failures are logged and ignored;
// a cache write must never fail a request.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Warn("redis set failed", "key", key, "error", err.Error())
	}
}

// Delete removes a key
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.log.Warn("redis del failed", "key", key, "error", err.Error())
	}
}

// Ping checks connectivity to the Redis server
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
