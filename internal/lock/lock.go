// Package lock serializes reservation writers per catway.  The overlap
// check and the write that follows it must run under the same lock,
// otherwise two requests can both pass the check and both persist.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotAcquired is returned when a lock could not be taken before the
// context or the locker timeout expired.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker takes a named exclusive lock.  The returned unlock function is
// safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// CatwayKey names the lock guarding the reservations of one catway.
func CatwayKey(number int) string {
	return fmt.Sprintf("catway:%d", number)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
