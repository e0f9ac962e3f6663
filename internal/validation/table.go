package validation

import (
	"fmt"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// HasValidTableFields checks a proposed table for a usable name and a
// positive seat count.
func HasValidTableFields(tbl *model.Table) Rule {
	return func() *Rejection {
		if tbl.TableName == "" || tbl.Capacity <= 0 {
			return BadRequest("capacity and table_name are required")
		}
		if len(tbl.TableName) < 2 {
			return BadRequest("table_name must be at least 2 characters")
		}
		return nil
	}
}

// TableIsFree rejects seating at a table that already hosts a different
// reservation. Re-seating the same reservation at the same table is not
// a conflict at this step.
func TableIsFree(tbl *model.Table, reservationID uint64) Rule {
	return func() *Rejection {
		if tbl.ReservationID != nil && *tbl.ReservationID != reservationID {
			return BadRequest("table is occupied")
		}
		return nil
	}
}

// TableIsOccupied is the inverse check, run before freeing a table.
func TableIsOccupied(tbl *model.Table) Rule {
	return func() *Rejection {
		if tbl.Occupied() {
			return nil
		}
		return BadRequest("table is not occupied")
	}
}

// CapacityFits rejects parties larger than the table seats.
func CapacityFits(people, capacity int) Rule {
	return func() *Rejection {
		if people > capacity {
			return BadRequest("group size is over table capacity")
		}
		return nil
	}
}

// ReservationNotAlreadySeated rejects seating a reservation that is
// already at a table.
func ReservationNotAlreadySeated(res *model.Reservation) Rule {
	return func() *Rejection {
		if res.Status == model.StatusSeated {
			return BadRequest(fmt.Sprintf("reservation %d is already seated", res.ID))
		}
		return nil
	}
}
