// Package queue defines the domain events exchanged over the message
// broker and the background consumer that records them.
package queue

// Queue and event kind names. A single durable queue carries both event
// kinds; consumers dispatch on the "kind" field.
const (
	TableEventsQueue  = "table.events"
	KindPartySeated   = "table.seated"
	KindVisitFinished = "table.finished"
)

// PartySeatedEvent is published after a seat operation commits. It
// carries enough context for downstream consumers to log or notify
// without querying the database.
type PartySeatedEvent struct {
	Kind          string `json:"kind"`
	TableID       uint64 `json:"table_id"`
	TableName     string `json:"table_name"`
	ReservationID uint64 `json:"reservation_id"`
	PartyName     string `json:"party_name"`
	People        int    `json:"people"`
	OccurredAt    string `json:"occurred_at"`
}

// VisitFinishedEvent is published after a finish operation commits and
// the table is free again.
type VisitFinishedEvent struct {
	Kind          string `json:"kind"`
	TableID       uint64 `json:"table_id"`
	TableName     string `json:"table_name"`
	ReservationID uint64 `json:"reservation_id"`
	OccurredAt    string `json:"occurred_at"`
}
