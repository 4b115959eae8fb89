package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"football-data-collector/internal/logging"
)

const redisKeyPrefix = "apicache:"

// RedisCache stores responses in Redis with a server-side TTL, for
// deployments where several collectors share one quota and one cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at addr and verifies the connection.
func NewRedisCache(addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the payload stored under key. Backend errors count as misses.
func (c *RedisCache) Get(key string) ([]byte, bool) {
	data, err := c.client.Get(context.Background(), redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.WithComponent("cache").WithError(err).Warn("redis get")
		return nil, false
	}
	return data, true
}

// Set stores the payload with the configured TTL.
func (c *RedisCache) Set(key string, payload []byte) {
	if err := c.client.Set(context.Background(), redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		logging.WithComponent("cache").WithError(err).Warn("redis set")
	}
}

// Close releases the underlying connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
