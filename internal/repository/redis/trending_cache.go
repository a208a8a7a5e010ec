package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kneexEngine/domain"
	"kneexEngine/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// TrendingCache keeps the ranked trending list warm for its TTL so the
// trending surface doesn't hit the analytics pool on every render.
type TrendingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTrendingCache(client *redis.Client, ttl time.Duration) *TrendingCache {
	return &TrendingCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *TrendingCache) Get(ctx context.Context, limit int) ([]domain.TrendingProduct, bool) {
	key := fmt.Sprintf("trending:limit:%d", limit)

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Failed to read trending cache", err)
		}
		return nil, false
	}

	var items []domain.TrendingProduct
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, false
	}

	return items, true
}

func (c *TrendingCache) Set(ctx context.Context, limit int, items []domain.TrendingProduct) {
	key := fmt.Sprintf("trending:limit:%d", limit)

	jsonData, err := json.Marshal(items)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		logger.Warn("Failed to write trending cache", err)
	}
}
