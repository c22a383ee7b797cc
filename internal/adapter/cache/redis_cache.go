package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huashen/exchange-core/internal/domain"
	"github.com/huashen/exchange-core/internal/port"
)

var _ port.Cache = (*RedisCache)(nil)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{
		client: rdb,
		ttl:    ttl,
	}
}

func topKey(symbol string) string  { return "top:" + symbol }
func snapKey(symbol string) string { return "book:" + symbol }

func (c *RedisCache) SetTopOfBook(ctx context.Context, top *domain.TopOfBook) error {
	b, err := json.Marshal(top)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, topKey(top.Symbol), b, c.ttl).Err()
}

func (c *RedisCache) GetTopOfBook(ctx context.Context, symbol string) (*domain.TopOfBook, error) {
	b, err := c.client.Get(ctx, topKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var top domain.TopOfBook
	if err := json.Unmarshal(b, &top); err != nil {
		return nil, err
	}
	return &top, nil
}

func (c *RedisCache) SetSnapshot(ctx context.Context, snap *domain.BookSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapKey(snap.Symbol), b, c.ttl).Err()
}

func (c *RedisCache) GetSnapshot(ctx context.Context, symbol string) (*domain.BookSnapshot, error) {
	b, err := c.client.Get(ctx, snapKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap domain.BookSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, symbol string) error {
	return c.client.Del(ctx, topKey(symbol), snapKey(symbol)).Err()
}
