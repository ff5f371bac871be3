package common

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"songfinder/lyricsearch/internal/metrics"
)

const DefaultCachePrefix = "lyricsearch:enrich:"

// Cache stores JSON-encodable lookup results. A miss is (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RedisCache keeps secondary-source responses in Redis so repeated lookups of
// the same title skip the network.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultCachePrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string, out any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheMissesTotal.Inc()
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		metrics.CacheMissesTotal.Inc()
		return false, err
	}
	metrics.CacheHitsTotal.Inc()
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// CacheKey builds a stable key from a source name and a free-text query.
// Queries are case- and space-insensitive and hashed to keep keys short.
func CacheKey(source, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha1.Sum([]byte(normalized))
	return strings.ToLower(strings.TrimSpace(source)) + ":" + hex.EncodeToString(sum[:])
}
