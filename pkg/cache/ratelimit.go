package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlidingWindowLimiter counts attempts per identity over a trailing window,
// backed by a Redis sorted set of attempt timestamps. The key expires with
// the window, so abandoned identities evict themselves.
type SlidingWindowLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewSlidingWindowLimiter(cache *RedisCache, prefix string, limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: cache.client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (l *SlidingWindowLimiter) key(identity string) string {
	return fmt.Sprintf("%s:%s", l.prefix, identity)
}

// Allowed reports whether identity is under the limit, and if not, how long
// until the oldest attempt falls out of the window.
func (l *SlidingWindowLimiter) Allowed(ctx context.Context, identity string) (bool, time.Duration, error) {
	key := l.key(identity)
	now := time.Now()
	cutoff := now.Add(-l.window)

	if err := l.client.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff.UnixNano())).Err(); err != nil {
		return false, 0, err
	}

	count, err := l.client.ZCard(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	if count < int64(l.limit) {
		return true, 0, nil
	}

	oldest, err := l.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil || len(oldest) == 0 {
		return false, l.window, err
	}

	retryAfter := time.Unix(0, int64(oldest[0].Score)).Add(l.window).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return false, retryAfter, nil
}

// Record adds one attempt for identity at the current time.
func (l *SlidingWindowLimiter) Record(ctx context.Context, identity string) error {
	key := l.key(identity)
	now := time.Now().UnixNano()

	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, l.window)
	_, err := pipe.Exec(ctx)
	return err
}

// Reset clears all recorded attempts for identity.
func (l *SlidingWindowLimiter) Reset(ctx context.Context, identity string) error {
	return l.client.Del(ctx, l.key(identity)).Err()
}
