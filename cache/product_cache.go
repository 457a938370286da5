package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/redis/go-redis/v9"
)

// ProductCache holds serialized product details keyed by product id.
// A miss returns (nil, nil).
type ProductCache interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
	Set(ctx context.Context, p *models.Product) error
	Invalidate(ctx context.Context, ids ...uint) error
}

type redisProductCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, prefix string, ttl time.Duration) ProductCache {
	return &redisProductCache{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisClient pings the server so a bad address fails at startup instead of per request.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (r *redisProductCache) key(id uint) string {
	return fmt.Sprintf("%s:product:%d", r.prefix, id)
}

func (r *redisProductCache) Get(ctx context.Context, id uint) (*models.Product, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode cached product %d: %w", id, err)
	}
	return &p, nil
}

func (r *redisProductCache) Set(ctx context.Context, p *models.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(p.ID), raw, r.ttl).Err()
}

func (r *redisProductCache) Invalidate(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	return r.client.Del(ctx, keys...).Err()
}

type noopCache struct{}

// Noop is used when no redis is configured.
func Noop() ProductCache { return noopCache{} }

func (noopCache) Get(context.Context, uint) (*models.Product, error) { return nil, nil }
func (noopCache) Set(context.Context, *models.Product) error         { return nil }
func (noopCache) Invalidate(context.Context, ...uint) error          { return nil }
