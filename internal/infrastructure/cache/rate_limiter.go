package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// quotaLimiter enforces a sliding window on Redis sorted sets. Each
// request becomes a member scored by its nanosecond timestamp; stale
// members are trimmed before the window is counted.
type quotaLimiter struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisRateLimiter builds a sliding-window limiter on the shared client.
func NewRedisRateLimiter(client *redis.Client, logger *zap.Logger) RateLimiter {
	return &quotaLimiter{client: client, logger: logger}
}

func (q *quotaLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	// Non-positive limits mean the caller has no quota (admin tier).
	if limit <= 0 {
		return true, nil
	}

	now := time.Now()
	zkey := RateLimitPrefix + key
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := q.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, zkey, "-inf", windowFloor(now, window))
	before := pipe.ZCard(ctx, zkey)
	pipe.ZAdd(ctx, zkey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, zkey, window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("quota window for %q: %w", key, err)
	}

	// before counts requests prior to this one.
	if before.Val() >= int64(limit) {
		// The denied request must not consume quota.
		q.client.ZRem(ctx, zkey, member)
		q.logger.Debug("quota exceeded",
			zap.String("key", key),
			zap.Int64("in_window", before.Val()),
			zap.Int("limit", limit))
		return false, nil
	}
	return true, nil
}

func (q *quotaLimiter) Count(ctx context.Context, key string, window time.Duration) (int, error) {
	zkey := RateLimitPrefix + key
	if err := q.client.ZRemRangeByScore(ctx, zkey, "-inf", windowFloor(time.Now(), window)).Err(); err != nil {
		return 0, fmt.Errorf("trim quota window for %q: %w", key, err)
	}
	n, err := q.client.ZCard(ctx, zkey).Result()
	if err != nil {
		return 0, fmt.Errorf("count quota window for %q: %w", key, err)
	}
	return int(n), nil
}

func (q *quotaLimiter) Reset(ctx context.Context, key string) error {
	if err := q.client.Del(ctx, RateLimitPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset quota for %q: %w", key, err)
	}
	return nil
}

func (q *quotaLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	used, err := q.Count(ctx, key, window)
	if err != nil {
		return 0, err
	}
	if rem := limit - used; rem > 0 {
		return rem, nil
	}
	return 0, nil
}

func windowFloor(now time.Time, window time.Duration) string {
	return strconv.FormatInt(now.Add(-window).UnixNano(), 10)
}
