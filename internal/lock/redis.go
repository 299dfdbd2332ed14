package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose lease expired cannot free somebody else's lock.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// RedisLocker implements a single-instance Redis lease lock with SET NX PX.
// TTL bounds how long a crashed holder can block a catway.  The lease is
// never renewed, so TTL must be longer than the slowest critical section;
// callers bound theirs with the request timeout.
type RedisLocker struct {
	Client  *redis.Client
	Prefix  string
	TTL     time.Duration
	Timeout time.Duration
	Retry   time.Duration
}

func NewRedisLocker(rdb *redis.Client, prefix string, ttl, timeout time.Duration) *RedisLocker {
	return &RedisLocker{Client: rdb, Prefix: prefix, TTL: ttl, Timeout: timeout, Retry: 25 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	name := l.Prefix + key
	token := uuid.NewString()
	ttl := l.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	retry := l.Retry
	if retry <= 0 {
		retry = 25 * time.Millisecond
	}

	for {
		ok, err := l.Client.SetNX(ctx, name, token, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, name, ctx.Err())
			}
			return nil, err
		}
		if ok {
			break
		}
		t := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, name, ctx.Err())
		case <-t.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(rctx, l.Client, []string{name}, token).Err()
		})
	}, nil
}
