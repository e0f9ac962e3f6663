// Package repository implements data access over MySQL for reservations
// and tables. Sentinel errors defined here let handlers distinguish a
// missing row from a database failure without inspecting driver errors.
package repository

import "errors"

// ErrReservationNotFound is returned when a reservation lookup matches
// no row. Handlers translate it into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrTableNotFound is returned when a table lookup matches no row.
// Handlers translate it into an HTTP 404 response.
var ErrTableNotFound = errors.New("table not found")
