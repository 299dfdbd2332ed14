package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists the logout blacklist (single 'token_hash' column).
// Rows live until the revoked token would have expired on its own.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Revoke inserts a token hash row.  It reports false when the hash was
// already revoked.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string, exp time.Time) (bool, error) {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO revoked_tokens (token_hash, expires_at) VALUES (?,?)",
		tokenHash, exp.UTC())
	if err != nil {
		if isDuplicate(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsRevoked reports whether a non-expired revocation exists for tokenHash.
func (r *TokenRepo) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM revoked_tokens WHERE token_hash=? AND expires_at > ? LIMIT 1",
		tokenHash, time.Now().UTC()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired deletes revocations whose token has expired anyway.
func (r *TokenRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
