package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
)

// CatwayRepo provides CRUD operations on the catways table.
type CatwayRepo struct {
	db *sql.DB
}

// NewCatwayRepo constructs a CatwayRepo with the given DB handle.
func NewCatwayRepo(db *sql.DB) *CatwayRepo {
	return &CatwayRepo{db: db}
}

const catwayColumns = `id, number, type, state, created_at, updated_at`

func scanCatway(row interface{ Scan(...any) error }) (*model.Catway, error) {
	var c model.Catway
	if err := row.Scan(&c.ID, &c.Number, &c.Type, &c.State, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a catway and reads the row back so that timestamps are
// populated.  A taken number yields ErrCatwayExists.
func (r *CatwayRepo) Create(ctx context.Context, c *model.Catway) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO catways (number, type, state) VALUES (?, ?, ?)`,
		c.Number, c.Type, c.State)
	if err != nil {
		if isDuplicate(err) {
			return ErrCatwayExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := scanCatway(r.db.QueryRowContext(ctx,
		`SELECT `+catwayColumns+` FROM catways WHERE id = ?`, id))
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByNumber returns ErrCatwayNotFound when no catway has number.
func (r *CatwayRepo) GetByNumber(ctx context.Context, number int) (*model.Catway, error) {
	c, err := scanCatway(r.db.QueryRowContext(ctx,
		`SELECT `+catwayColumns+` FROM catways WHERE number = ?`, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCatwayNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all catways ordered by number.
func (r *CatwayRepo) List(ctx context.Context) ([]*model.Catway, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+catwayColumns+` FROM catways ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Catway{}
	for rows.Next() {
		c, err := scanCatway(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateState changes the state text and returns the updated row.
func (r *CatwayRepo) UpdateState(ctx context.Context, number int, state string) (*model.Catway, error) {
	// MySQL reports 0 affected rows when the value is unchanged, so a
	// missing row is detected by the read below instead.
	if _, err := r.db.ExecContext(ctx, `UPDATE catways SET state = ? WHERE number = ?`, state, number); err != nil {
		return nil, err
	}
	return r.GetByNumber(ctx, number)
}

// Delete removes a catway.  The reservations foreign key refuses catways
// still in use, which is reported as ErrConflict.
func (r *CatwayRepo) Delete(ctx context.Context, number int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catways WHERE number = ?`, number)
	if err != nil {
		if isReferenced(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCatwayNotFound
	}
	return nil
}
