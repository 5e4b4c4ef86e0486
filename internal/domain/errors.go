package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ValidationError rejects bad input (malformed or out-of-policy date ranges,
// unknown booking types). The caller must change its input; retrying the
// same request cannot succeed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// ConflictError means the requested interval overlaps at least one existing
// non-cancelled booking for the same vehicle.
type ConflictError struct {
	VehicleID int64
	Conflicts []Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("vehicle %d is unavailable for the requested dates (%d conflicting bookings)", e.VehicleID, len(e.Conflicts))
}

// StateTransitionError means the booking's persisted flags did not match the
// required pre-state for a lifecycle move. The losing side of a concurrent
// transition race receives this error; nothing was mutated.
type StateTransitionError struct {
	BookingID string
	From      Phase
	To        Phase
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("booking %s: illegal transition %s -> %s", e.BookingID, e.From, e.To)
}
