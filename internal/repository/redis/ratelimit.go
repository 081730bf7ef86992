package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rrens/property-assistant/internal/config"
)

const (
	chatLimitPrefix = "chat:limit:"
	chatLimitWindow = time.Minute
)

// ChatLimiter counts chat requests per key in fixed one-minute windows.
// Each window gets its own counter key, so a new window starts from zero
// and the old counter expires on its own.
type ChatLimiter struct {
	client *Client
	limit  int64
	now    func() time.Time
}

// NewChatLimiter creates a limiter allowing requests_per_minute plus burst
// requests per key and window
func NewChatLimiter(client *Client, cfg config.RateLimitConfig) *ChatLimiter {
	return &ChatLimiter{
		client: client,
		limit:  int64(cfg.RequestsPerMinute + cfg.Burst),
		now:    time.Now,
	}
}

// Allow records one request for key. It returns whether the request fits in
// the current window, how many remain, and when the window ends.
func (l *ChatLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := l.now().Truncate(chatLimitWindow)
	windowEnd := windowStart.Add(chatLimitWindow)
	fullKey := fmt.Sprintf("%s%s:%d", chatLimitPrefix, key, windowStart.Unix())

	pipe := l.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, 2*chatLimitWindow)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to count chat request: %w", err)
	}

	count := incrCmd.Val()
	remaining := int(l.limit - count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, windowEnd, nil
}
