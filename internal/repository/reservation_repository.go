package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD and search operations over the
// reservations table. Dates are stored in a DATE column and clock times
// in a TIME column; the repo converts them to the string forms the model
// carries ("2006-01-02" and "15:04") when scanning rows.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, first_name, last_name, mobile_number,
       reservation_date, reservation_time, people, status, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner, res *model.Reservation) error {
	var (
		date  time.Time
		clock string
	)
	err := row.Scan(
		&res.ID, &res.FirstName, &res.LastName, &res.MobileNumber,
		&date, &clock, &res.People, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	res.ReservationDate = date.Format("2006-01-02")
	res.ReservationTime = model.NormalizeClock(clock)
	return nil
}

// Create inserts a new reservation and reads the stored row back so the
// generated ID, column defaults and timestamps land on res.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (first_name, last_name, mobile_number, reservation_date, reservation_time, people, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.FirstName, res.LastName, res.MobileNumber,
		res.ReservationDate, res.ReservationTime, res.People, res.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, sel, res.ID), res)
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, id), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// ListByDate returns the reservations booked for a calendar date ordered
// by time of day. Finished and cancelled reservations no longer appear
// on the day's book and are excluded in SQL.
func (r *ReservationRepo) ListByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE reservation_date = ? AND status NOT IN (?, ?)
	           ORDER BY reservation_time`
	rows, err := r.db.QueryContext(ctx, q, date, model.StatusFinished, model.StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// SearchByPhone returns reservations whose mobile number contains the
// digits of the query, ignoring punctuation on both sides. The stored
// number is stripped of non-digit characters inside the query so a
// search for "5551234" matches "(555) 123-4567". Results are ordered by
// reservation date and include every status.
func (r *ReservationRepo) SearchByPhone(ctx context.Context, number string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE REGEXP_REPLACE(mobile_number, '[^0-9]', '') LIKE ?
	           ORDER BY reservation_date, reservation_time`
	rows, err := r.db.QueryContext(ctx, q, "%"+digitsOnly(number)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// Update replaces every mutable field of the stored reservation and
// reads the row back.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET first_name = ?, last_name = ?, mobile_number = ?,
	               reservation_date = ?, reservation_time = ?, people = ?, status = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		res.FirstName, res.LastName, res.MobileNumber,
		res.ReservationDate, res.ReservationTime, res.People, res.Status, res.ID,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// The row may match the new values exactly; confirm it exists.
		var id uint64
		if err := r.db.QueryRowContext(ctx, `SELECT id FROM reservations WHERE id = ?`, res.ID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReservationNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, sel, res.ID), res)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// digitsOnly strips everything but the digits from a phone number.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
