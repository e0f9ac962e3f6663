package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/validation"
)

// ReservationHandler serves the /reservations resource. Loc is the
// restaurant's local time zone; the closed-day and future-dated rules
// are evaluated against it, never against UTC. Now is injectable so
// tests can pin the clock.
type ReservationHandler struct {
	Reservations ReservationStore
	Loc          *time.Location
	Now          func() time.Time
}

// NewReservationHandler constructs a ReservationHandler. The store must
// be non-nil; a nil location falls back to UTC.
func NewReservationHandler(store ReservationStore, loc *time.Location) *ReservationHandler {
	if store == nil {
		panic("nil store passed to NewReservationHandler")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationHandler{Reservations: store, Loc: loc, Now: time.Now}
}

type reservationEnvelope struct {
	Data *model.Reservation `json:"data"`
}

// List handles GET /reservations. With a mobile_number query it runs the
// digit-stripped phone search; with a date query it lists the day's book
// (finished and cancelled excluded). When both are supplied the phone
// search wins. With neither, an empty list is returned.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	number := c.QueryParam("mobile_number")
	date := c.QueryParam("date")

	switch {
	case number != "":
		reservations, err := h.Reservations.SearchByPhone(ctx, number)
		if err != nil {
			return storeError(c, err)
		}
		return dataResponse(c, http.StatusOK, reservations)
	case date != "":
		reservations, err := h.Reservations.ListByDate(ctx, date)
		if err != nil {
			return storeError(c, err)
		}
		return dataResponse(c, http.StatusOK, reservations)
	default:
		return dataResponse(c, http.StatusOK, []model.Reservation{})
	}
}

// Create handles POST /reservations. The full creation chain runs in
// order: field completeness, opening hours, closed day, future dated.
// The first rejection short-circuits the rest. A stored reservation
// always starts out booked.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body reservationEnvelope
	if err := c.Bind(&body); err != nil || body.Data == nil {
		return errorResponse(c, http.StatusBadRequest, "request body with data is required")
	}
	res := body.Data
	res.Status = model.Status(strings.ToLower(string(res.Status)))

	now := h.Now().In(h.Loc)
	if rej := validation.Run(
		validation.HasAllFields(res),
		validation.WithinOpeningHours(res.ReservationTime),
		validation.NotClosedDay(res.ReservationDate),
		validation.MustBeFuture(res.ReservationDate, res.ReservationTime, now, h.Loc),
	); rej != nil {
		return reject(c, rej)
	}

	res.ReservationTime = model.NormalizeClock(res.ReservationTime)
	res.Status = model.StatusBooked
	if err := h.Reservations.Create(c.Request().Context(), res); err != nil {
		return storeError(c, err)
	}
	return dataResponse(c, http.StatusCreated, res)
}

// Read handles GET /reservations/:reservation_id.
func (h *ReservationHandler) Read(c echo.Context) error {
	res, rej := h.resolve(c)
	if rej != nil {
		return reject(c, rej)
	}
	return dataResponse(c, http.StatusOK, res)
}

// Update handles PUT /reservations/:reservation_id, a full field edit.
// The replacement fields are merged over the stored record (replacement
// wins), then the merged record passes the completeness check and the
// status transition check before persisting. A finished reservation
// rejects any edit.
func (h *ReservationHandler) Update(c echo.Context) error {
	existing, rej := h.resolve(c)
	if rej != nil {
		return reject(c, rej)
	}
	var body reservationEnvelope
	if err := c.Bind(&body); err != nil || body.Data == nil {
		return errorResponse(c, http.StatusBadRequest, "request body with data is required")
	}

	merged := *body.Data
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.Status = model.Status(strings.ToLower(string(merged.Status)))
	if merged.Status == "" {
		merged.Status = existing.Status
	}

	ctx := c.Request().Context()
	if rej := validation.Run(
		validation.HasAllFields(&merged),
		validation.StatusTransitionAllowed(ctx, existing.Status, merged.Status),
	); rej != nil {
		return reject(c, rej)
	}

	merged.ReservationTime = model.NormalizeClock(merged.ReservationTime)
	if err := h.Reservations.Update(ctx, &merged); err != nil {
		return storeError(c, err)
	}
	return dataResponse(c, http.StatusOK, &merged)
}

// UpdateStatus handles PUT /reservations/:reservation_id/status. A
// missing status in the body defaults to cancelled, making this the
// cancel operation. Only the status field changes.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	existing, rej := h.resolve(c)
	if rej != nil {
		return reject(c, rej)
	}
	var body struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	// An absent or empty body is fine here; it means cancel.
	_ = c.Bind(&body)

	requested := model.Status(strings.ToLower(body.Data.Status))
	if requested == "" {
		requested = model.StatusCancelled
	}

	ctx := c.Request().Context()
	if rej := validation.Run(
		validation.StatusTransitionAllowed(ctx, existing.Status, requested),
	); rej != nil {
		return reject(c, rej)
	}

	existing.Status = requested
	if err := h.Reservations.Update(ctx, existing); err != nil {
		return storeError(c, err)
	}
	return dataResponse(c, http.StatusOK, existing)
}

// resolve loads the reservation named by the path parameter. A non-nil
// rejection means the lookup failed and names the status class to answer
// with.
func (h *ReservationHandler) resolve(c echo.Context) (*model.Reservation, *validation.Rejection) {
	id, ok := pathID(c, "reservation_id")
	if !ok {
		return nil, validation.BadRequest("invalid reservation id")
	}
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
