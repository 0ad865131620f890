package cache

import (
	"context"
	"fmt"
	"time"
)

// Allow applies a fixed-window rate limit for the given source address.
// It returns false once the address has exceeded max requests in the current
// window. The first request of a window sets the key's expiry; subsequent
// requests only increment.
func Allow(ctx context.Context, addr string, max int, window time.Duration) (bool, error) {
	if RedisClient == nil {
		return false, fmt.Errorf("redis client not initialized")
	}

	key := "ratelimit:" + addr
	count, err := RedisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := RedisClient.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}
	return count <= int64(max), nil
}
