package dashboard

import (
	"context"
	"time"

	"github.com/carhive/carbooking/internal/dashboard"
	"github.com/carhive/carbooking/internal/domain"
	"github.com/carhive/carbooking/internal/repository"
)

type DashboardUseCase interface {
	BookingsForActor(ctx context.Context, actorID int64, role dashboard.Role, filter string) (*dashboard.View, error)
}

// DashboardService serves every role's booking list from the same repository
// and the same status resolver; roles differ only in which bookings they see
// and how those are bucketed.
type DashboardService struct {
	bookings repository.BookingRepository
	now      func() time.Time
}

type DashboardServiceOption func(*DashboardService)

func WithClock(now func() time.Time) DashboardServiceOption {
	return func(s *DashboardService) {
		s.now = now
	}
}

func NewDashboardService(bookings repository.BookingRepository, opts ...DashboardServiceOption) *DashboardService {
	service := &DashboardService{bookings: bookings, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *DashboardService) BookingsForActor(ctx context.Context, actorID int64, role dashboard.Role, filter string) (*dashboard.View, error) {
	var (
		items []domain.Booking
		err   error
	)
	switch role {
	case dashboard.RoleCustomer:
		items, err = s.bookings.ListByCustomer(ctx, actorID)
	case dashboard.RoleDriver:
		items, err = s.bookings.ListByDriver(ctx, actorID)
	case dashboard.RoleOwner:
		items, err = s.bookings.ListByOwner(ctx, actorID)
	case dashboard.RoleAdmin:
		// read-only reporting view over everything
		items, err = s.bookings.ListAll(ctx)
	default:
		return nil, domain.NewValidationError("unknown role: " + string(role))
	}
	if err != nil {
		return nil, err
	}

	return dashboard.BuildView(items, role, filter, s.now())
}

var _ DashboardUseCase = (*DashboardService)(nil)
