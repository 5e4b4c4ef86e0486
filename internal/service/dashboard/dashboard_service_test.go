package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/carhive/carbooking/internal/dashboard"
	"github.com/carhive/carbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveByVehicle(ctx context.Context, vehicleID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByDriver(ctx context.Context, driverID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListOverduePickups(ctx context.Context, asOf time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkStarted(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkCompleted(ctx context.Context, id string, kmTravelled float64, actualReturn time.Time, lateFine, totalAmount int64) (*domain.Booking, error) {
	args := m.Called(ctx, id, kmTravelled, actualReturn, lateFine, totalAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkCancelled(ctx context.Context, id string, totalAmount int64) (*domain.Booking, error) {
	args := m.Called(ctx, id, totalAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) AssignDriver(ctx context.Context, id string, driverID int64) (*domain.Booking, error) {
	args := m.Called(ctx, id, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var now = day(2025, time.March, 10).Add(10 * time.Hour)

func sample() []domain.Booking {
	return []domain.Booking{
		{ID: "active", CustomerID: 21, IsStarted: true, StartDate: day(2025, time.March, 8), EndDate: day(2025, time.March, 12)},
		{ID: "upcoming", CustomerID: 21, StartDate: day(2025, time.March, 20), EndDate: day(2025, time.March, 22)},
		{ID: "cancelled", CustomerID: 21, IsCancelled: true, StartDate: day(2025, time.March, 15), EndDate: day(2025, time.March, 16)},
	}
}

func TestBookingsForActor_Customer(t *testing.T) {
	repo := &MockBookingRepository{}
	service := NewDashboardService(repo, WithClock(func() time.Time { return now }))

	ctx := context.Background()
	repo.On("ListByCustomer", ctx, int64(21)).Return(sample(), nil).Once()

	view, err := service.BookingsForActor(ctx, 21, dashboard.RoleCustomer, "active")
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "active", view.Items[0].ID)
	assert.Equal(t, 3, view.Counts[dashboard.FilterAll])
	assert.Equal(t, 1, view.Counts["upcoming"])
	assert.Equal(t, 1, view.Counts["cancelled"])
	repo.AssertExpectations(t)
}

func TestBookingsForActor_RoleDispatch(t *testing.T) {
	repo := &MockBookingRepository{}
	service := NewDashboardService(repo, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	repo.On("ListByDriver", ctx, int64(5)).Return([]domain.Booking{}, nil).Once()
	repo.On("ListByOwner", ctx, int64(6)).Return([]domain.Booking{}, nil).Once()
	repo.On("ListAll", ctx).Return(sample(), nil).Once()

	_, err := service.BookingsForActor(ctx, 5, dashboard.RoleDriver, dashboard.FilterAll)
	require.NoError(t, err)
	_, err = service.BookingsForActor(ctx, 6, dashboard.RoleOwner, dashboard.FilterAll)
	require.NoError(t, err)

	view, err := service.BookingsForActor(ctx, 0, dashboard.RoleAdmin, dashboard.FilterAll)
	require.NoError(t, err)
	assert.Len(t, view.Items, 3)

	repo.AssertExpectations(t)
}

func TestBookingsForActor_UnknownRole(t *testing.T) {
	service := NewDashboardService(&MockBookingRepository{})

	_, err := service.BookingsForActor(context.Background(), 1, dashboard.Role("tenant"), dashboard.FilterAll)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}
