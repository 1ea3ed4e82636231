package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProductCache is a read-through cache for single products.
type ProductCache interface {
	Get(ctx context.Context, id int) (Product, bool, error)
	Set(ctx context.Context, product Product) error
	Invalidate(ctx context.Context, id int) error
}

// RedisCache stores products as JSON under product:{id}.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache creates a cache whose entries expire after ttl.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func productKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

// Get reports a miss as (zero, false, nil).
func (c *RedisCache) Get(ctx context.Context, id int) (Product, bool, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return Product{}, false, fmt.Errorf("decode cached product %d: %w", id, err)
	}
	return p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, product Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(product.ID), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, id int) error {
	return c.client.Del(ctx, productKey(id)).Err()
}

// noCache is used when no Redis address is configured.
type noCache struct{}

func (noCache) Get(context.Context, int) (Product, bool, error) { return Product{}, false, nil }
func (noCache) Set(context.Context, Product) error              { return nil }
func (noCache) Invalidate(context.Context, int) error           { return nil }
