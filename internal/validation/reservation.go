package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// Opening policy. Fixed per deployment; the restaurant takes its last
// seating at 21:30 and stays closed on Tuesdays.
const (
	OpeningTime   = "10:30"
	LastSeating   = "21:30"
	ClosedWeekday = time.Tuesday

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// HasAllFields checks a proposed reservation for completeness: every
// required field present, a positive party size, and a date plus time
// that combine into a parseable instant. A reservation may not arrive
// already seated or finished; that state is reachable only through the
// seat and finish operations.
func HasAllFields(res *model.Reservation) Rule {
	return func() *Rejection {
		if res.Status == model.StatusSeated || res.Status == model.StatusFinished {
			return BadRequest("new reservations cannot start out seated or finished")
		}
		if res.FirstName == "" || res.LastName == "" || res.MobileNumber == "" ||
			res.ReservationDate == "" || res.ReservationTime == "" || res.People <= 0 {
			return BadRequest("reservation requires first_name, last_name, mobile_number, reservation_date, reservation_time and a positive number of people")
		}
		combined := res.ReservationDate + " " + model.NormalizeClock(res.ReservationTime)
		if _, err := time.Parse(dateTimeLayout, combined); err != nil {
			return BadRequest("reservation_date and reservation_time must form a valid date and time")
		}
		return nil
	}
}

// WithinOpeningHours accepts clock times between OpeningTime and
// LastSeating inclusive. Both bounds are zero-padded HH:MM, so plain
// string comparison is equivalent to numeric comparison.
func WithinOpeningHours(clock string) Rule {
	return func() *Rejection {
		t := model.NormalizeClock(clock)
		if OpeningTime <= t && t <= LastSeating {
			return nil
		}
		return BadRequest("reservations are accepted between 10:30 and 21:30")
	}
}

// NotClosedDay rejects dates that fall on the weekly closing day. The
// weekday is read off the bare civil date; parsing the date without a
// time-of-day or zone avoids the UTC-offset day shift that datetime
// based weekday checks are prone to.
func NotClosedDay(date string) Rule {
	return func() *Rejection {
		day, err := time.Parse(dateLayout, date)
		if err != nil {
			return BadRequest("reservation_date must be a valid date")
		}
		if day.Weekday() == ClosedWeekday {
			return BadRequest("restaurant is closed on Tuesdays")
		}
		return nil
	}
}

// MustBeFuture rejects reservations whose combined date and time is not
// strictly after now. Both sides of the comparison are evaluated in the
// restaurant's local time zone.
func MustBeFuture(date, clock string, now time.Time, loc *time.Location) Rule {
	return func() *Rejection {
		combined := date + " " + model.NormalizeClock(clock)
		at, err := time.ParseInLocation(dateTimeLayout, combined, loc)
		if err != nil {
			return BadRequest("reservation_date and reservation_time must form a valid date and time")
		}
		if at.After(now) {
			return nil
		}
		return BadRequest("reservation must be for a future date and time")
	}
}

// StatusTransitionAllowed checks a requested status change against the
// reservation lifecycle. A finished reservation is terminal and admits
// no further edits; otherwise the requested value must be one of the
// known statuses reachable from the current one.
func StatusTransitionAllowed(ctx context.Context, current, requested model.Status) Rule {
	return func() *Rejection {
		if current == model.StatusFinished {
			return BadRequest("a finished reservation cannot be updated")
		}
		if !model.CanTransition(ctx, current, requested) {
			return BadRequest(fmt.Sprintf("%s is not a valid reservation status", requested))
		}
		return nil
	}
}
