package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, name, firstname, username, email, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Firstname, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u with an already hashed password.  Email and username
// are lower-cased; a duplicate of either yields ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeKey(u.Email)
	u.Username = normalizeKey(u.Username)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, firstname, username, email, password_hash) VALUES (?,?,?,?,?)",
		u.Name, u.Firstname, u.Username, u.Email, u.PasswordHash)
	if err != nil {
		if isDuplicate(err) {
			return ErrUserExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		return err
	}
	*u = *got
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeKey(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update overwrites the profile of the user currently registered under
// email.  u may carry a new email.
func (r *UserRepo) Update(ctx context.Context, email string, u *model.User) error {
	u.Email = normalizeKey(u.Email)
	u.Username = normalizeKey(u.Username)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, firstname=?, username=?, email=?, password_hash=? WHERE email=?",
		u.Name, u.Firstname, u.Username, u.Email, u.PasswordHash, normalizeKey(email))
	if err != nil {
		if isDuplicate(err) {
			return ErrUserExists
		}
		return err
	}
	// unchanged rows report 0 affected, so existence is checked by reading back
	got, err := r.GetByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	*u = *got
	return nil
}

// Delete removes the user registered under email.
func (r *UserRepo) Delete(ctx context.Context, email string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE email=?", normalizeKey(email))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func normalizeKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
