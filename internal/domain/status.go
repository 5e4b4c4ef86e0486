package domain

import "time"

// Status is the displayed lifecycle state of a booking. It refines the
// persisted Phase with wall-clock information: a requested booking shows as
// UPCOMING until its start date arrives and as PENDING afterwards (pickup is
// due but nobody has started the ride).
type Status string

const (
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusActive    Status = "ACTIVE"
	StatusUpcoming  Status = "UPCOMING"
	StatusPending   Status = "PENDING"
)

// Phase is the lifecycle state encoded by the three persisted flags.
type Phase string

const (
	PhaseRequested Phase = "REQUESTED"
	PhaseActive    Phase = "ACTIVE"
	PhaseCompleted Phase = "COMPLETED"
	PhaseCancelled Phase = "CANCELLED"
)

// Phase maps the persisted flags to their lifecycle phase. Cancellation wins
// over every other flag, completion over started.
func (b *Booking) Phase() Phase {
	switch {
	case b.IsCancelled:
		return PhaseCancelled
	case b.IsCompleted:
		return PhaseCompleted
	case b.IsStarted:
		return PhaseActive
	default:
		return PhaseRequested
	}
}

// CanTransition reports whether moving from one phase to another is a legal
// lifecycle move. Completed and Cancelled are terminal; a ride can only
// complete after it has started; cancellation is allowed from any
// non-terminal phase.
func CanTransition(from, to Phase) bool {
	switch to {
	case PhaseActive:
		return from == PhaseRequested
	case PhaseCompleted:
		return from == PhaseActive
	case PhaseCancelled:
		return from == PhaseRequested || from == PhaseActive
	default:
		return false
	}
}

// ResolveStatus derives the canonical displayed state of a booking at the
// given instant. Every dashboard consumes this resolver; none re-derive
// status from the flags on their own.
//
// Precedence: cancelled, completed, active, then the clock decides between
// upcoming and pending.
func ResolveStatus(b *Booking, now time.Time) Status {
	switch b.Phase() {
	case PhaseCancelled:
		return StatusCancelled
	case PhaseCompleted:
		return StatusCompleted
	case PhaseActive:
		return StatusActive
	}
	if now.Before(b.StartDate) {
		return StatusUpcoming
	}
	return StatusPending
}
