// Package handler contains the HTTP handlers for the reservation and
// table resources. Handlers bind request bodies, run the validation rule
// chains and call into the stores; every response is a JSON envelope
// with either a "data" or an "error" key.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/validation"
)

// ReservationStore is the reservation persistence contract the handlers
// depend on. *repository.ReservationRepo is the production
// implementation; tests substitute in-memory fakes.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListByDate(ctx context.Context, date string) ([]model.Reservation, error)
	SearchByPhone(ctx context.Context, number string) ([]model.Reservation, error)
	Update(ctx context.Context, res *model.Reservation) error
}

// TableStore is the table persistence contract. Seat and Finish are the
// two-entity consistency operations: implementations must apply the
// occupancy write and the reservation status write as one atomic unit.
type TableStore interface {
	Create(ctx context.Context, tbl *model.Table) error
	List(ctx context.Context) ([]model.Table, error)
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
	Seat(ctx context.Context, tableID, reservationID uint64) error
	Finish(ctx context.Context, tableID, reservationID uint64) error
}

// EventPublisher emits domain events after a committed seat or finish.
// Publishing is best effort and must never fail the request.
type EventPublisher interface {
	PartySeated(ctx context.Context, event queue.PartySeatedEvent)
	VisitFinished(ctx context.Context, event queue.VisitFinishedEvent)
}

func dataResponse(c echo.Context, code int, payload any) error {
	return c.JSON(code, echo.Map{"data": payload})
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"error": message})
}

func reject(c echo.Context, rej *validation.Rejection) error {
	return errorResponse(c, rej.Code, rej.Message)
}

func storeError(c echo.Context, err error) error {
	logrus.WithError(err).Error("store operation failed")
	return errorResponse(c, http.StatusInternalServerError, "database error")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
