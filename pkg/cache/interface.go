package cache

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// interface for the Redis client operations the notifier needs.
type CacheClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
	Close() error
}

var _ CacheClient = (*redis.Client)(nil)
