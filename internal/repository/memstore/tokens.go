package memstore

import (
	"context"
	"sync"
	"time"
)

// RevokedTokens is an in-memory logout blacklist.
type RevokedTokens struct {
	mu     sync.Mutex
	hashes map[string]time.Time
}

func NewRevokedTokens() *RevokedTokens {
	return &RevokedTokens{hashes: make(map[string]time.Time)}
}

// Revoke records tokenHash until exp.  It reports false when the hash was
// already revoked.
func (s *RevokedTokens) Revoke(ctx context.Context, tokenHash string, exp time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.hashes[tokenHash]; ok && time.Now().Before(e) {
		return false, nil
	}
	s.hashes[tokenHash] = exp
	return true, nil
}

func (s *RevokedTokens) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.hashes[tokenHash]
	return ok && time.Now().Before(e), nil
}

func (s *RevokedTokens) PurgeExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now()
	for h, e := range s.hashes {
		if !now.Before(e) {
			delete(s.hashes, h)
			n++
		}
	}
	return n, nil
}
