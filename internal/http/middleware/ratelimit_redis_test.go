package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// countingScripter answers the window script from an in-process map.
type countingScripter struct {
	redis.Scripter
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (s *countingScripter) EvalSha(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return redis.NewCmdResult(nil, s.err)
	}
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[keys[0]]++
	return redis.NewCmdResult([]interface{}{s.counts[keys[0]], int64(1000)}, nil)
}

func TestRedisLimiterCountsPerWindowBucket(t *testing.T) {
	scripter := &countingScripter{}
	limiter := NewRedisLimiter(scripter, "gohire:rl:")

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("apply:job:prof", 3, time.Minute))
	}
	assert.False(t, limiter.Allow("apply:job:prof", 3, time.Minute))
	assert.True(t, limiter.Allow("apply:job:prof", 3, 2*time.Minute))
	assert.True(t, limiter.Allow("apply:other:prof", 3, time.Minute))

	assert.Equal(t, int64(4), scripter.counts["gohire:rl:apply:job:prof:60000"])
	assert.Equal(t, int64(1), scripter.counts["gohire:rl:apply:job:prof:120000"])
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	limiter := NewRedisLimiter(&countingScripter{err: errors.New("connection refused")}, "gohire:rl:", WithLimiterTimeout(10*time.Millisecond))

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("signin:10.0.0.1", 1, time.Minute))
	}
	assert.Equal(t, uint64(5), limiter.Outages())
}

func TestRedisLimiterIgnoresInvalidArguments(t *testing.T) {
	scripter := &countingScripter{}
	limiter := NewRedisLimiter(scripter, "")

	assert.True(t, limiter.Allow("", 1, time.Minute))
	assert.True(t, limiter.Allow("k", 0, time.Minute))
	assert.True(t, limiter.Allow("k", 1, time.Microsecond))
	assert.Empty(t, scripter.counts)

	var missing *RedisLimiter
	assert.Nil(t, NewRedisLimiter(nil, "x"))
	assert.True(t, missing.Allow("k", 1, time.Minute))
	assert.Zero(t, missing.Outages())
}
