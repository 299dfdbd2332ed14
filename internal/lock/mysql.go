package lock

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"
)

// MySQLLocker uses MySQL named locks (GET_LOCK / RELEASE_LOCK) so that
// every instance sharing the database serializes on the same catway.
// A named lock belongs to a session, so each holder pins one pooled
// connection until it unlocks.
type MySQLLocker struct {
	DB      *sql.DB
	Prefix  string
	Timeout time.Duration
}

func NewMySQLLocker(db *sql.DB, prefix string, timeout time.Duration) *MySQLLocker {
	return &MySQLLocker{DB: db, Prefix: prefix, Timeout: timeout}
}

func (l *MySQLLocker) Lock(ctx context.Context, key string) (func(), error) {
	name := l.Prefix + key
	if len(name) > 64 { // MySQL limit for lock names
		name = name[:64]
	}

	conn, err := l.DB.Conn(ctx)
	if err != nil {
		return nil, err
	}

	// GET_LOCK waits server side; the timeout is whole seconds
	secs := int(math.Ceil(l.Timeout.Seconds()))
	if secs < 0 {
		secs = 0
	}
	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", name, secs).Scan(&got); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if !got.Valid || got.Int64 != 1 {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotAcquired, name)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, _ = conn.ExecContext(rctx, "SELECT RELEASE_LOCK(?)", name)
			_ = conn.Close()
		})
	}, nil
}
