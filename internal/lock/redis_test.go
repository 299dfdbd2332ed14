package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	mr, rdb := newRedis(t)
	l := NewRedisLocker(rdb, "marina:", 5*time.Second, 100*time.Millisecond)

	unlock, err := l.Lock(context.Background(), CatwayKey(4))
	if err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("marina:catway:4") {
		t.Fatal("expected lock key to be set")
	}
	if ttl := mr.TTL("marina:catway:4"); ttl <= 0 {
		t.Fatalf("expected a lease ttl, got %v", ttl)
	}

	if _, err := l.Lock(context.Background(), CatwayKey(4)); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired while held, got %v", err)
	}

	unlock()
	if mr.Exists("marina:catway:4") {
		t.Fatal("expected lock key to be released")
	}
}

func TestRedisLockerDoesNotReleaseForeignToken(t *testing.T) {
	mr, rdb := newRedis(t)
	l := NewRedisLocker(rdb, "", time.Second, 100*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatal(err)
	}
	// lease expired and another holder took over
	if err := mr.Set("k", "someone-else"); err != nil {
		t.Fatal(err)
	}
	unlock()
	if got, _ := mr.Get("k"); got != "someone-else" {
		t.Fatalf("foreign lock was released, value %q", got)
	}
}

func TestRedisLockerUsesConfiguredLease(t *testing.T) {
	mr, rdb := newRedis(t)
	l := NewRedisLocker(rdb, "marina:", 45*time.Second, 100*time.Millisecond)

	unlock, err := l.Lock(context.Background(), CatwayKey(7))
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()
	if ttl := mr.TTL("marina:catway:7"); ttl != 45*time.Second {
		t.Fatalf("lease = %v, want 45s", ttl)
	}
}
