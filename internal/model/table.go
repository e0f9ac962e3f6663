package model

import "time"

// Table is a physical table on the restaurant floor. ReservationID is
// the occupancy pointer: when non-nil it references the reservation
// currently seated at this table, and that reservation's status must be
// "seated". A nil pointer means the table is free. The pointer is set
// and cleared only by the seat and finish operations, never by a plain
// field edit.
//
// Fields:
//  ID            – primary key identifier.
//  TableName     – display name, at least two characters.
//  Capacity      – number of seats; must be positive.
//  ReservationID – reservation currently occupying the table (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Table struct {
	ID            uint64    `json:"table_id"`
	TableName     string    `json:"table_name"`
	Capacity      int       `json:"capacity"`
	ReservationID *uint64   `json:"reservation_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Occupied reports whether the table currently hosts a seated party.
func (t *Table) Occupied() bool {
	return t.ReservationID != nil
}
