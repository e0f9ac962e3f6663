package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/validation"
)

// TableHandler serves the /tables resource, including the seat and
// finish operations that keep table occupancy and reservation status
// consistent. Events may be nil, in which case no domain events are
// published.
type TableHandler struct {
	Tables       TableStore
	Reservations ReservationStore
	Events       EventPublisher
}

// NewTableHandler constructs a TableHandler. Both stores must be
// non-nil.
func NewTableHandler(tables TableStore, reservations ReservationStore, events EventPublisher) *TableHandler {
	if tables == nil || reservations == nil {
		panic("nil store passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables, Reservations: reservations, Events: events}
}

// List handles GET /tables, ordered by table name.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.Tables.List(c.Request().Context())
	if err != nil {
		return storeError(c, err)
	}
	return dataResponse(c, http.StatusOK, tables)
}

// Create handles POST /tables.
func (h *TableHandler) Create(c echo.Context) error {
	var body struct {
		Data *model.Table `json:"data"`
	}
	if err := c.Bind(&body); err != nil || body.Data == nil {
		return errorResponse(c, http.StatusBadRequest, "request body with data is required")
	}
	tbl := body.Data
	if rej := validation.Run(validation.HasValidTableFields(tbl)); rej != nil {
		return reject(c, rej)
	}
	if err := h.Tables.Create(c.Request().Context(), tbl); err != nil {
		return storeError(c, err)
	}
	return dataResponse(c, http.StatusCreated, tbl)
}

// Read handles GET /tables/:table_id.
func (h *TableHandler) Read(c echo.Context) error {
	tbl, rej := h.resolveTable(c)
	if rej != nil {
		return reject(c, rej)
	}
	return dataResponse(c, http.StatusOK, tbl)
}

// Seat handles PUT /tables/:table_id/seat. The chain resolves both
// entities, then checks that the reservation is not already seated, the
// table is free and the party fits, in that order. On success the table
// points at the reservation and the reservation is seated; the store
// applies both writes in one transaction, so no rejection here ever
// leaves partial state behind.
func (h *TableHandler) Seat(c echo.Context) error {
	var body struct {
		Data *struct {
			ReservationID uint64 `json:"reservation_id"`
		} `json:"data"`
	}
	if err := c.Bind(&body); err != nil || body.Data == nil {
		return errorResponse(c, http.StatusBadRequest, "request body is required")
	}
	if body.Data.ReservationID == 0 {
		return errorResponse(c, http.StatusBadRequest, "reservation_id is required")
	}

	tbl, rej := h.resolveTable(c)
	if rej != nil {
		return reject(c, rej)
	}
	res, rej := h.resolveReservation(c, body.Data.ReservationID)
	if rej != nil {
		return reject(c, rej)
	}

	if rej := validation.Run(
		validation.ReservationNotAlreadySeated(res),
		validation.TableIsFree(tbl, res.ID),
		validation.CapacityFits(res.People, tbl.Capacity),
	); rej != nil {
		return reject(c, rej)
	}

	ctx := c.Request().Context()
	if err := h.Tables.Seat(ctx, tbl.ID, res.ID); err != nil {
		return storeError(c, err)
	}
	tbl.ReservationID = &res.ID

	if h.Events != nil {
		event := queue.PartySeatedEvent{
			TableID:       tbl.ID,
			TableName:     tbl.TableName,
			ReservationID: res.ID,
			PartyName:     res.FirstName + " " + res.LastName,
			People:        res.People,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		}
		go h.Events.PartySeated(context.Background(), event)
	}
	return dataResponse(c, http.StatusOK, tbl)
}

// Finish handles DELETE /tables/:table_id/seat. The table must be
// occupied; its occupant moves to finished and the table is freed in one
// transaction. The response carries an empty data object.
func (h *TableHandler) Finish(c echo.Context) error {
	tbl, rej := h.resolveTable(c)
	if rej != nil {
		return reject(c, rej)
	}
	if rej := validation.Run(validation.TableIsOccupied(tbl)); rej != nil {
		return reject(c, rej)
	}
	res, rej := h.resolveReservation(c, *tbl.ReservationID)
	if rej != nil {
		return reject(c, rej)
	}

	ctx := c.Request().Context()
	if err := h.Tables.Finish(ctx, tbl.ID, res.ID); err != nil {
		return storeError(c, err)
	}

	if h.Events != nil {
		event := queue.VisitFinishedEvent{
			TableID:       tbl.ID,
			TableName:     tbl.TableName,
			ReservationID: res.ID,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		}
		go h.Events.VisitFinished(context.Background(), event)
	}
	return dataResponse(c, http.StatusOK, echo.Map{})
}

func (h *TableHandler) resolveTable(c echo.Context) (*model.Table, *validation.Rejection) {
	id, ok := pathID(c, "table_id")
	if !ok {
		return nil, validation.BadRequest("invalid table id")
	}
	tbl, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, validation.NotFound(fmt.Sprintf("table %d not found", id))
		}
		logrus.WithError(err).Error("table lookup failed")
		return nil, validation.Internal()
	}
	return tbl, nil
}

func (h *TableHandler) resolveReservation(c echo.Context, id uint64) (*model.Reservation, *validation.Rejection) {
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, validation.NotFound(fmt.Sprintf("reservation %d does not exist", id))
		}
		logrus.WithError(err).Error("reservation lookup failed")
		return nil, validation.Internal()
	}
	return res, nil
}
