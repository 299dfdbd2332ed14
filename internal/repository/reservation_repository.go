package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  Dates are
// stored as DATETIME(3) in UTC so that the 23:59:59.999 end of day
// survives a round trip.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, catway_number, client_name, boat_name, start_date, end_date, duration, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
    var r model.Reservation
    err := row.Scan(&r.ID, &r.CatwayNumber, &r.ClientName, &r.BoatName,
        &r.StartDate, &r.EndDate, &r.Duration, &r.CreatedAt, &r.UpdatedAt)
    if err != nil {
        return nil, err
    }
    r.StartDate = r.StartDate.UTC()
    r.EndDate = r.EndDate.UTC()
    return &r, nil
}

// FindOverlapping returns the earliest reservation on catwayNumber with
// start_date < end AND end_date > start, skipping excludeID.  It is
// served by the (catway_number, start_date, end_date) index.  Ids start
// at 1, so an excludeID of 0 excludes nothing.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, catwayNumber int, start, end time.Time, excludeID uint64) (*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
               WHERE catway_number = ? AND start_date < ? AND end_date > ? AND id <> ?
               ORDER BY start_date LIMIT 1`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, catwayNumber, end.UTC(), start.UTC(), excludeID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, nil
        }
        return nil, err
    }
    return res, nil
}

// GetByID returns ErrReservationNotFound when id is unknown.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    res, err := scanReservation(r.db.QueryRowContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return res, nil
}

// ListByCatway returns the reservations of one catway ordered by start date.
func (r *ReservationRepo) ListByCatway(ctx context.Context, catwayNumber int) ([]*model.Reservation, error) {
    return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations
                        WHERE catway_number = ? ORDER BY start_date, id`, catwayNumber)
}

// List returns every reservation ordered by catway then start date.
func (r *ReservationRepo) List(ctx context.Context) ([]*model.Reservation, error) {
    return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations
                        ORDER BY catway_number, start_date, id`)
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]*model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []*model.Reservation{}
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    return out, rows.Err()
}

// Create inserts res and queries back the full row to populate the id and
// timestamps.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    const q = `INSERT INTO reservations (catway_number, client_name, boat_name, start_date, end_date, duration)
               VALUES (?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, res.CatwayNumber, res.ClientName, res.BoatName,
        res.StartDate.UTC(), res.EndDate.UTC(), res.Duration)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    got, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *res = *got
    return nil
}

// UpdateDates rewrites the period and duration of reservation id and
// returns the updated row.
func (r *ReservationRepo) UpdateDates(ctx context.Context, id uint64, start, end time.Time, duration int) (*model.Reservation, error) {
    const q = `UPDATE reservations SET start_date = ?, end_date = ?, duration = ? WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, q, start.UTC(), end.UTC(), duration, id); err != nil {
        return nil, err
    }
    return r.GetByID(ctx, id)
}

// Delete removes reservation id.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
    result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrReservationNotFound
    }
    return nil
}
