package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowScript counts a hit in the window bucket and returns the new count
// together with the bucket's remaining lifetime in milliseconds.
var windowScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

const defaultRedisLimiterTimeout = 250 * time.Millisecond

// RedisLimiter shares fixed windows between API instances. Buckets live under
// prefix + key + ":" + window, so one key limited with two windows keeps two
// counters. Redis errors let the request through.
type RedisLimiter struct {
	client  redis.Scripter
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
	outages atomic.Uint64
}

type RedisLimiterOption func(*RedisLimiter)

func WithLimiterLogger(logger *slog.Logger) RedisLimiterOption {
	return func(l *RedisLimiter) { l.logger = logger }
}

func WithLimiterTimeout(timeout time.Duration) RedisLimiterOption {
	return func(l *RedisLimiter) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

func NewRedisLimiter(client redis.Scripter, prefix string, opts ...RedisLimiterOption) *RedisLimiter {
	if client == nil {
		return nil
	}
	l := &RedisLimiter{client: client, prefix: prefix, timeout: defaultRedisLimiterTimeout}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLimiter) bucket(key string, window time.Duration) string {
	return l.prefix + key + ":" + strconv.FormatInt(window.Milliseconds(), 10)
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || key == "" || limit <= 0 || window < time.Millisecond {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	bucket := l.bucket(key, window)
	counts, err := windowScript.Run(ctx, l.client, []string{bucket}, window.Milliseconds()).Int64Slice()
	if err != nil || len(counts) == 0 {
		l.outages.Add(1)
		if l.logger != nil {
			l.logger.Warn("rate limit check skipped", slog.String("bucket", bucket), slog.Any("err", err))
		}
		return true
	}
	return counts[0] <= int64(limit)
}

// Outages reports how many checks were let through because Redis failed.
func (l *RedisLimiter) Outages() uint64 {
	if l == nil {
		return 0
	}
	return l.outages.Load()
}
