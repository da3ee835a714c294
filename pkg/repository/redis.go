package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// GetManyJSON returns the raw JSON values of keys. Missing keys are absent from the result.
func (r *RedisRepository) GetManyJSON(ctx context.Context, keys []string) (map[string][]byte, error) {
	found := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return found, nil
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			found[keys[i]] = []byte(s)
		}
	}
	return found, nil
}

// SetManyJSON stores every value as JSON in one pipeline.
func (r *RedisRepository) SetManyJSON(ctx context.Context, values map[string]interface{}, expiration time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for key, v := range values {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			p.Set(ctx, key, data, expiration)
		}
		return nil
	})
	return err
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// NameLookup resolves display names by id set.
type NameLookup interface {
	CustomerNames(ctx context.Context, ids []string) (map[string]models.CustomerName, error)
	ProductNames(ctx context.Context, ids []string) (map[string]string, error)
}

type nameCache interface {
	GetManyJSON(ctx context.Context, keys []string) (map[string][]byte, error)
	SetManyJSON(ctx context.Context, values map[string]interface{}, expiration time.Duration) error
}

// CachedDirectory reads names from next and keeps the last answer in Redis.
// The cache is only read when next fails, and only answers when it holds
// every requested id; a healthy directory is never shadowed by it.
// Cache failures are logged and bypassed.
type CachedDirectory struct {
	next   NameLookup
	cache  nameCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedDirectory(next NameLookup, cache nameCache, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	return &CachedDirectory{next: next, cache: cache, ttl: ttl, logger: logger}
}

func customerKey(id string) string { return fmt.Sprintf("user:name:%s", id) }
func productKey(id string) string  { return fmt.Sprintf("product:name:%s", id) }

func (c *CachedDirectory) CustomerNames(ctx context.Context, ids []string) (map[string]models.CustomerName, error) {
	loaded, err := c.next.CustomerNames(ctx, ids)
	if err != nil {
		names := make(map[string]models.CustomerName, len(ids))
		ok := c.fallback(ctx, ids, customerKey, err, func(id string, raw []byte) bool {
			var n models.CustomerName
			if json.Unmarshal(raw, &n) != nil {
				return false
			}
			names[id] = n
			return true
		})
		if !ok {
			return nil, err
		}
		return names, nil
	}

	fill := make(map[string]interface{}, len(loaded))
	for id, n := range loaded {
		fill[customerKey(id)] = n
	}
	c.store(ctx, fill)
	return loaded, nil
}

func (c *CachedDirectory) ProductNames(ctx context.Context, ids []string) (map[string]string, error) {
	loaded, err := c.next.ProductNames(ctx, ids)
	if err != nil {
		names := make(map[string]string, len(ids))
		ok := c.fallback(ctx, ids, productKey, err, func(id string, raw []byte) bool {
			var n string
			if json.Unmarshal(raw, &n) != nil {
				return false
			}
			names[id] = n
			return true
		})
		if !ok {
			return nil, err
		}
		return names, nil
	}

	fill := make(map[string]interface{}, len(loaded))
	for id, n := range loaded {
		fill[productKey(id)] = n
	}
	c.store(ctx, fill)
	return loaded, nil
}

// fallback hands every cached value to decode and reports whether all ids
// were served from the cache.
func (c *CachedDirectory) fallback(ctx context.Context, ids []string, key func(string) string, cause error, decode func(id string, raw []byte) bool) bool {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	hits, err := c.cache.GetManyJSON(ctx, keys)
	if err != nil {
		c.logger.Warn("name cache read failed", zap.Error(err))
		return false
	}
	for i, id := range ids {
		raw, ok := hits[keys[i]]
		if !ok || !decode(id, raw) {
			return false
		}
	}
	c.logger.Warn("directory lookup failed, serving cached names",
		zap.Int("count", len(ids)),
		zap.Error(cause))
	return true
}

func (c *CachedDirectory) store(ctx context.Context, values map[string]interface{}) {
	if len(values) == 0 {
		return
	}
	if err := c.cache.SetManyJSON(ctx, values, c.ttl); err != nil {
		c.logger.Warn("name cache write failed", zap.Error(err))
	}
}
