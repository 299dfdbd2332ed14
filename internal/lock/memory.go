package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memEntry struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker is a process-local keyed mutex.  Waiting honours the
// context; entries are dropped once nobody holds or waits for them.
type MemoryLocker struct {
	Timeout time.Duration

	mu   sync.Mutex
	keys map[string]*memEntry
}

func NewMemoryLocker(timeout time.Duration) *MemoryLocker {
	return &MemoryLocker{Timeout: timeout, keys: make(map[string]*memEntry)}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := withTimeout(ctx, l.Timeout)
	defer cancel()

	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &memEntry{ch: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *MemoryLocker) release(key string, e *memEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
}
