package snapshot

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient часть *redis.Client, используемая хранилищем
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}
