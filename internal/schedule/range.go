package schedule

import (
	"math"
	"time"

	"github.com/carhive/carbooking/internal/domain"
)

// RangeCheck is the result of validating a proposed rental interval.
type RangeCheck struct {
	RentalDays int
	IsSameDay  bool
}

// DayStart normalizes a timestamp to local midnight. All interval math in
// this package operates on day-normalized times.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts whole calendar days from a to b. Negative when b is
// before a. Inputs are normalized first, so time-of-day never shifts the
// count; rounding absorbs DST-shortened days.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(DayStart(b).Sub(DayStart(a)).Hours() / 24))
}

// ValidateRange checks a proposed rental interval against the booking
// policy. Both endpoints count toward the rental, so a same-day request
// yields one rental day. maxDays caps the inclusive day count.
func ValidateRange(start, end, now time.Time, maxDays int) (RangeCheck, error) {
	start = DayStart(start)
	end = DayStart(end)
	today := DayStart(now)

	if end.Before(start) {
		return RangeCheck{}, domain.NewValidationError("end before start")
	}
	if start.Before(today) {
		return RangeCheck{}, domain.NewValidationError("start in past")
	}

	days := DaysBetween(start, end) + 1
	if days > maxDays {
		return RangeCheck{}, domain.NewValidationError("exceeds max window")
	}

	return RangeCheck{RentalDays: days, IsSameDay: days == 1}, nil
}

// Overlaps reports whether two inclusive calendar-day intervals share at
// least one day. A shared boundary day counts: a vehicle cannot be dropped
// off and picked up by different customers on the same day.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// FindConflicts returns the subset of existing bookings whose interval
// overlaps [start, end]. Cancelled bookings never conflict.
func FindConflicts(existing []domain.Booking, start, end time.Time) []domain.Booking {
	start = DayStart(start)
	end = DayStart(end)

	var conflicts []domain.Booking
	for _, b := range existing {
		if b.IsCancelled {
			continue
		}
		if Overlaps(b.StartDate, b.EndDate, start, end) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
