// Package cache stores parsed analyses keyed by the resume text they came from.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/types"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "resumematch:analysis:"

// Entry is one cached analysis
type Entry struct {
	Dialect string                `json:"dialect"`
	Record  *types.AnalysisRecord `json:"record"`
}

// Cache looks up and stores analyses. A miss returns a nil entry and a nil error.
type Cache interface {
	GetRecord(ctx context.Context, key string) (*Entry, error)
	SetRecord(ctx context.Context, key string, entry *Entry) error
	Close() error
}

// Key derives the cache key of a resume text
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// store is the subset of the go-redis client the cache uses
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisCache keeps analyses in Redis as JSON with a TTL
type RedisCache struct {
	client store
	ttl    time.Duration
	logger *errors.Logger
}

// NewRedisCache connects to the Redis server at redisURL and checks it answers.
// Plain host:port addresses are accepted as well as redis:// URLs.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration, logger *errors.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Redis at %s is not reachable", opts.Addr), err)
	}

	return newRedisCache(client, ttl, logger), nil
}

func newRedisCache(client store, ttl time.Duration, logger *errors.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// GetRecord returns the cached entry for key. Entries that no longer decode are deleted.
func (c *RedisCache) GetRecord(ctx context.Context, key string) (*Entry, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Record == nil {
		c.logger.Warn("Dropping corrupt cache entry", "key", key)
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("cache delete %s: %w", key, delErr)
		}
		return nil, nil
	}
	return &entry, nil
}

// SetRecord stores entry under key for the configured TTL
func (c *RedisCache) SetRecord(ctx context.Context, key string, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NopCache never stores anything
type NopCache struct{}

// GetRecord always misses
func (NopCache) GetRecord(context.Context, string) (*Entry, error) { return nil, nil }

// SetRecord discards the entry
func (NopCache) SetRecord(context.Context, string, *Entry) error { return nil }

// Close implements Cache
func (NopCache) Close() error { return nil }

// New returns the cache the configuration asks for
func New(ctx context.Context, cfg config.CacheConfig, logger *errors.Logger) (Cache, error) {
	if !cfg.Enabled {
		return NopCache{}, nil
	}
	return NewRedisCache(ctx, cfg.RedisURL, cfg.TTL, logger)
}
