package model

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusSeated    Status = "seated"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
// Statuses are case sensitive; callers normalize input before checking.
func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusSeated, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// transitionEvents encodes the lifecycle as FSM events named after their
// destination. finished never appears as a source: it is terminal.
var transitionEvents = buildTransitionEvents()

func buildTransitionEvents() []loopfsm.EventDesc {
	src := []string{
		string(StatusBooked), string(StatusSeated), string(StatusCancelled),
	}
	events := make([]loopfsm.EventDesc, 0, 4)
	for _, dst := range []Status{StatusBooked, StatusSeated, StatusFinished, StatusCancelled} {
		events = append(events, loopfsm.EventDesc{
			Name: string(dst),
			Src:  src,
			Dst:  string(dst),
		})
	}
	return events
}

// CanTransition reports whether a reservation may move from its current
// status to the requested one. Re-asserting the current status is
// allowed everywhere except on a finished reservation.
func CanTransition(ctx context.Context, from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	machine := loopfsm.NewFSM(string(from), transitionEvents, nil)
	err := machine.Event(ctx, string(to))
	if err == nil {
		return true
	}
	// Same-state events surface as NoTransitionError; the state is
	// already where the caller wants it.
	var noTransition loopfsm.NoTransitionError
	return errors.As(err, &noTransition)
}
