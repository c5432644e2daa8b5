package thumbs

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache keeps generated thumbnail URLs in Redis so repeated requests for the
// same asset don't refetch the source. One hash per user, field per asset.
type Cache struct {
	Client *redis.Client
}

// InitCache connects to Redis and instruments the client for tracing.
func InitCache(addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("instrument redis tracing: %w", err)
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return &Cache{Client: client}, nil
}

func cacheKey(userID string) string {
	return "thumbs:" + userID
}

// Get returns the cached thumbnail URL for an asset, ok=false on a miss.
func (c *Cache) Get(ctx context.Context, userID, assetID string) (string, bool, error) {
	val, err := c.Client.HGet(ctx, cacheKey(userID), assetID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("thumbnail cache get: %w", err)
	}
	return val, true, nil
}

// Set stores the thumbnail URL for an asset.
func (c *Cache) Set(ctx context.Context, userID, assetID, url string) error {
	if err := c.Client.HSet(ctx, cacheKey(userID), assetID, url).Err(); err != nil {
		return fmt.Errorf("thumbnail cache set: %w", err)
	}
	return nil
}

// Purge drops all cached thumbnails for a user, used when a new report
// replaces the data set.
func (c *Cache) Purge(ctx context.Context, userID string) error {
	if err := c.Client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("thumbnail cache purge: %w", err)
	}
	return nil
}

// Close shuts down the Redis client.
func (c *Cache) Close() {
	if c != nil && c.Client != nil {
		if err := c.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
