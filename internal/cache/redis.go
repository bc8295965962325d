package cache

import (
	"context"
	"fmt"
	"time"
	"weathersnap/internal/config"
	"weathersnap/internal/models"

	"github.com/go-redis/redis/v8"
)

// SnapshotCache keeps the latest payload under a single key and announces each update.
// Every Store replaces the previous value; nothing is appended.
type SnapshotCache struct {
	client  *redis.Client
	key     string
	channel string
	ttl     time.Duration
}

func NewSnapshotCache(cfg config.RedisConfig) *SnapshotCache {
	return NewSnapshotCacheWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg)
}

func NewSnapshotCacheWithClient(client *redis.Client, cfg config.RedisConfig) *SnapshotCache {
	return &SnapshotCache{
		client:  client,
		key:     cfg.Key,
		channel: cfg.Channel,
		ttl:     cfg.TTL,
	}
}

func (c *SnapshotCache) Name() string {
	return "redis"
}

// Store sets the key and publishes the key name on the channel in one MULTI/EXEC
func (c *SnapshotCache) Store(ctx context.Context, snap models.Snapshot) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.key, snap.Data, c.ttl)
		if c.channel != "" {
			pipe.Publish(ctx, c.channel, c.key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store snapshot in redis key %s: %w", c.key, err)
	}
	return nil
}

// Latest returns the stored payload, or redis.Nil when there is none
func (c *SnapshotCache) Latest(ctx context.Context) ([]byte, error) {
	return c.client.Get(ctx, c.key).Bytes()
}

func (c *SnapshotCache) Close() error {
	return c.client.Close()
}
