package dashboard

import (
	"time"

	"github.com/carhive/carbooking/internal/domain"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleDriver, RoleOwner, RoleAdmin:
		return Role(s), nil
	}
	return "", domain.NewValidationError("unknown role: " + s)
}

const FilterAll = "all"

// View is a role-scoped slice of a booking collection: the bookings matching
// the requested filter plus the size of every bucket the role's dashboard
// shows as a badge.
type View struct {
	Items  []domain.Booking
	Counts map[string]int
}

type predicate func(b *domain.Booking, st domain.Status) bool

func statusIs(want domain.Status) predicate {
	return func(_ *domain.Booking, st domain.Status) bool { return st == want }
}

// Bucket definitions per role. Every predicate works off the resolved status,
// never the raw flags; "assigned" and the owner's "pending" are the only
// buckets that look at anything beyond it.
var roleBuckets = map[Role][]struct {
	key  string
	pred predicate
}{
	RoleCustomer: {
		{"active", statusIs(domain.StatusActive)},
		{"upcoming", statusIs(domain.StatusUpcoming)},
		{"pending", statusIs(domain.StatusPending)},
		{"completed", statusIs(domain.StatusCompleted)},
		{"cancelled", statusIs(domain.StatusCancelled)},
	},
	RoleDriver: {
		// assigned: the ride has not begun and nothing terminal happened
		{"assigned", func(_ *domain.Booking, st domain.Status) bool {
			return st == domain.StatusUpcoming || st == domain.StatusPending
		}},
		{"active", statusIs(domain.StatusActive)},
		{"completed", statusIs(domain.StatusCompleted)},
		{"cancelled", statusIs(domain.StatusCancelled)},
	},
	RoleOwner: {
		// pending only once a driver is on the booking; an unstaffed overdue
		// pickup is the marketplace's problem, not the owner's
		{"pending", func(b *domain.Booking, st domain.Status) bool {
			return st == domain.StatusPending && b.DriverID != nil
		}},
		{"active", statusIs(domain.StatusActive)},
		{"completed", statusIs(domain.StatusCompleted)},
		{"cancelled", statusIs(domain.StatusCancelled)},
	},
	RoleAdmin: {
		{"active", statusIs(domain.StatusActive)},
		{"upcoming", statusIs(domain.StatusUpcoming)},
		{"pending", statusIs(domain.StatusPending)},
		{"completed", statusIs(domain.StatusCompleted)},
		{"cancelled", statusIs(domain.StatusCancelled)},
	},
}

// BuildView filters a booking collection for one role's dashboard and counts
// every bucket. The filter key must be "all" or one of the role's buckets.
func BuildView(bookings []domain.Booking, role Role, filter string, now time.Time) (*View, error) {
	buckets, ok := roleBuckets[role]
	if !ok {
		return nil, domain.NewValidationError("unknown role: " + string(role))
	}

	var selected predicate
	if filter != FilterAll {
		for _, b := range buckets {
			if b.key == filter {
				selected = b.pred
				break
			}
		}
		if selected == nil {
			return nil, domain.NewValidationError("unknown filter for role " + string(role) + ": " + filter)
		}
	}

	view := &View{
		Items:  make([]domain.Booking, 0, len(bookings)),
		Counts: map[string]int{FilterAll: len(bookings)},
	}
	for _, b := range buckets {
		view.Counts[b.key] = 0
	}

	for i := range bookings {
		b := &bookings[i]
		st := domain.ResolveStatus(b, now)
		for _, bucket := range buckets {
			if bucket.pred(b, st) {
				view.Counts[bucket.key]++
			}
		}
		if selected == nil || selected(b, st) {
			view.Items = append(view.Items, *b)
		}
	}

	return view, nil
}
