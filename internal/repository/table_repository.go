package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// TableRepo provides CRUD operations over the tables table and owns the
// two-entity seat and finish writes. Seating a party points the table at
// the reservation and marks the reservation seated; finishing clears the
// pointer and marks the reservation finished. Each pair of writes runs
// inside a single transaction so a partially applied state is never
// visible to other requests.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, table_name, capacity, reservation_id, created_at, updated_at`

func scanTable(row rowScanner, tbl *model.Table) error {
	var occupant sql.NullInt64
	err := row.Scan(&tbl.ID, &tbl.TableName, &tbl.Capacity, &occupant, &tbl.CreatedAt, &tbl.UpdatedAt)
	if err != nil {
		return err
	}
	if occupant.Valid {
		id := uint64(occupant.Int64)
		tbl.ReservationID = &id
	} else {
		tbl.ReservationID = nil
	}
	return nil
}

// Create inserts a new table and reads the stored row back.
func (r *TableRepo) Create(ctx context.Context, tbl *model.Table) error {
	const q = `INSERT INTO tables (table_name, capacity) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, q, tbl.TableName, tbl.Capacity)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	tbl.ID = uint64(id)
	const sel = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	return scanTable(r.db.QueryRowContext(ctx, sel, tbl.ID), tbl)
}

// List returns every table ordered by name.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables ORDER BY table_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var tbl model.Table
		if err := scanTable(rows, &tbl); err != nil {
			return nil, err
		}
		out = append(out, tbl)
	}
	return out, rows.Err()
}

// GetByID returns a single table or ErrTableNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	var tbl model.Table
	if err := scanTable(r.db.QueryRowContext(ctx, q, id), &tbl); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &tbl, nil
}

// Seat occupies the table with the reservation and moves the reservation
// to seated, committing both writes or neither.
func (r *TableRepo) Seat(ctx context.Context, tableID, reservationID uint64) error {
	return r.occupancyTx(ctx, tableID, reservationID, &reservationID, model.StatusSeated)
}

// Finish frees the table and moves the occupying reservation to
// finished, committing both writes or neither.
func (r *TableRepo) Finish(ctx context.Context, tableID, reservationID uint64) error {
	return r.occupancyTx(ctx, tableID, reservationID, nil, model.StatusFinished)
}

// occupancyTx performs the coupled occupancy-pointer and status writes
// inside one transaction. occupant is the new value of
// tables.reservation_id (nil clears it) and status the new reservation
// status.
func (r *TableRepo) occupancyTx(ctx context.Context, tableID, reservationID uint64, occupant *uint64, status model.Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `UPDATE tables SET reservation_id = ? WHERE id = ?`, occupantArg(occupant), tableID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, reservationID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func occupantArg(occupant *uint64) any {
	if occupant == nil {
		return nil
	}
	return *occupant
}
