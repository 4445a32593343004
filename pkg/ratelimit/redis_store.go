package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript implements the refill-and-consume step atomically on the
// Redis side. The counter counts consumed tokens within the window; its
// TTL is the window itself, so expiry is the refill.
var consumeScript = redis.NewScript(`
local consumed = redis.call('INCR', KEYS[1])
if consumed == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
local ttl = redis.call('PTTL', KEYS[1])
local capacity = tonumber(ARGV[1])
if consumed > capacity then
	return {0, 0, ttl}
end
return {1, capacity - consumed, ttl}
`)

// RedisStore keeps bucket state in Redis so limits hold across
// application instances. Expiry handles both refill and eviction.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore creates a Redis-backed bucket store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, keyPrefix: "ratelimit:"}
}

// ConsumeToken implements Store.
func (s *RedisStore) ConsumeToken(ctx context.Context, key string, capacity int, window time.Duration) (bool, int, time.Time, error) {
	res, err := consumeScript.Run(ctx, s.client,
		[]string{s.keyPrefix + key},
		capacity, window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("ratelimit: redis consume: %w", err)
	}
	if len(res) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("ratelimit: unexpected script reply of length %d", len(res))
	}

	allowed := res[0] == 1
	remaining := int(res[1])

	ttl := time.Duration(res[2]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	resetAt := time.Now().Add(ttl)

	return allowed, remaining, resetAt, nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (s *RedisStore) Close() error { return nil }
