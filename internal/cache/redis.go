package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/JonMunkholm/pmis/internal/table"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces cache keys in a shared Redis.
const DefaultKeyPrefix = "pmis:table:"

// Redis stores tables as JSON under a key prefix.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to the Redis at url (redis://[:pass@]host:port/db) and
// verifies the connection with a PING.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisClient(client, ttl), nil
}

// NewRedisClient wraps an existing client.
func NewRedisClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: DefaultKeyPrefix, ttl: ttl}
}

func (r *Redis) key(name string) string { return r.prefix + name }

// Get implements Cache. Errors other than a miss are logged.
func (r *Redis) Get(ctx context.Context, name string) (table.Table, bool) {
	b, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.WithFields(ctx, "table", name).Warn("cache get failed", "error", err)
		}
		return table.Table{}, false
	}

	var t table.Table
	if err := json.Unmarshal(b, &t); err != nil {
		logging.WithFields(ctx, "table", name).Warn("cache entry corrupt", "error", err)
		return table.Table{}, false
	}
	return t, true
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, name string, t table.Table) {
	b, err := json.Marshal(t)
	if err != nil {
		logging.WithFields(ctx, "table", name).Warn("cache encode failed", "error", err)
		return
	}
	if err := r.client.Set(ctx, r.key(name), b, r.ttl).Err(); err != nil {
		logging.WithFields(ctx, "table", name).Warn("cache set failed", "error", err)
	}
}

// Clear deletes every key under the prefix.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}

// Close releases the client connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
