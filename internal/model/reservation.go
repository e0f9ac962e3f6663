package model

import "time"

// Reservation records a party's request for a table on a given date and
// time. The date and clock time are carried as strings in the wire
// formats used by the API ("2006-01-02" and "15:04"); the repository
// converts to and from the DATE and TIME column types.
//
// Fields:
//  ID              – primary key identifier.
//  FirstName       – given name of the party contact.
//  LastName        – family name of the party contact.
//  MobileNumber    – contact phone number; punctuation is preserved as
//                    entered and stripped only for searching.
//  ReservationDate – calendar date of the visit (YYYY-MM-DD).
//  ReservationTime – 24-hour clock time of the visit (HH:MM).
//  People          – party size; must be positive.
//  Status          – lifecycle state (booked, seated, finished, cancelled).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64    `json:"reservation_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	MobileNumber    string    `json:"mobile_number"`
	ReservationDate string    `json:"reservation_date"`
	ReservationTime string    `json:"reservation_time"`
	People          int       `json:"people"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NormalizeClock trims a TIME value such as "18:00:00" down to "18:00".
// Zero-padded HH:MM strings compare correctly with plain string
// comparison, which the opening-hours rule relies on.
func NormalizeClock(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}
