package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const downloadURLPrefix = "candidate:download-url:"

// DownloadURLCache keeps resolved file download URLs for a bounded time. The
// TTL must stay below the expiry of the URLs the file service signs.
type DownloadURLCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDownloadURLCache(client *redis.Client, ttl time.Duration) *DownloadURLCache {
	return &DownloadURLCache{client: client, ttl: ttl}
}

func (c *DownloadURLCache) Get(ctx context.Context, objectKey string) (string, bool, error) {
	val, err := c.client.Get(ctx, downloadURLPrefix+objectKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *DownloadURLCache) Set(ctx context.Context, objectKey, downloadURL string) error {
	return c.client.Set(ctx, downloadURLPrefix+objectKey, downloadURL, c.ttl).Err()
}

// Ping reports whether the cache backend answers.
func (c *DownloadURLCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
