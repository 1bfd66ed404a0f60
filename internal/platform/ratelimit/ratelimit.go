// Package ratelimit counts attempts per key in fixed Redis windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// allowScript counts one attempt and gives the key the window TTL whenever it
// has none, so a key can never outlive its window.
var allowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

type Limiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// New allows limit attempts per key and window. Keys live under
// "ratelimit:<name>:".
func New(rdb *redis.Client, name string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:    rdb,
		prefix: "ratelimit:" + name + ":",
		limit:  limit,
		window: window,
	}
}

// Allow records one attempt for key and reports whether it is within the
// limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := allowScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit allow: %w", err)
	}
	return n <= int64(l.limit), nil
}
