package booking

import (
	"context"
	"log"
	"time"

	"github.com/carhive/carbooking/internal/domain"
	"github.com/carhive/carbooking/internal/kafka"
	"github.com/carhive/carbooking/internal/pricing"
	"github.com/carhive/carbooking/internal/repository"
	"github.com/carhive/carbooking/internal/schedule"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, *pricing.Breakdown, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, *pricing.Breakdown, error)
	StartRide(ctx context.Context, id string) (*domain.Booking, error)
	CompleteRide(ctx context.Context, id string, input CompleteRideInput) (*domain.Booking, *pricing.Breakdown, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, *pricing.Breakdown, error)
	AssignDriver(ctx context.Context, id string, driverID int64) (*domain.Booking, error)
	CheckAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (*Availability, error)
	PublishOverduePickups(ctx context.Context) ([]domain.Booking, error)
}

// Cache is the per-vehicle advisory lock used to serialize creation attempts
// for the same vehicle. The repository's transactional overlap check remains
// authoritative; the lock just keeps racing requests from both doing the
// expensive pre-check.
type Cache interface {
	AcquireVehicleLock(ctx context.Context, vehicleID int64, ttl time.Duration) (bool, error)
	ReleaseVehicleLock(ctx context.Context, vehicleID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	vehicles           repository.VehicleRepository
	cache              Cache
	producer           Producer
	calc               *pricing.Calculator
	bookingTopic       string
	notificationsTopic string
	lockTTL            time.Duration
	now                func() time.Time
}

type CreateBookingInput struct {
	VehicleID   int64
	CustomerID  int64
	StartDate   time.Time
	EndDate     time.Time
	BookingType domain.BookingType
	IsAC        bool
}

type CompleteRideInput struct {
	KmTravelled      float64
	ActualReturnDate time.Time
	// LateReturnFine overrides the policy-derived fine when the upstream
	// billing system supplies an authoritative amount.
	LateReturnFine *int64
}

// Availability is the answer to "can this vehicle be booked for [start, end]".
type Availability struct {
	IsAvailable bool
	Conflicts   []domain.Booking
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithClock replaces the wall clock, for tests that pin "today".
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	cache Cache,
	producer Producer,
	calc *pricing.Calculator,
	bookingTopic string,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		vehicles:     vehicles,
		cache:        cache,
		producer:     producer,
		calc:         calc,
		bookingTopic: bookingTopic,
		lockTTL:      lockTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates the requested interval, checks the vehicle's
// calendar and persists a new booking with the vehicle's current rates
// snapshotted onto it. The returned breakdown is the creation-time estimate;
// per-km bookings estimate at the day-rate floor since no distance exists
// yet.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, *pricing.Breakdown, error) {
	if !input.BookingType.Valid() {
		return nil, nil, domain.NewValidationError("unknown booking type: " + string(input.BookingType))
	}

	rc, err := schedule.ValidateRange(input.StartDate, input.EndDate, s.now(), s.calc.Policy().MaxRentalDays)
	if err != nil {
		return nil, nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, input.VehicleID)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		ok, err := s.cache.AcquireVehicleLock(ctx, vehicle.ID, s.lockTTL)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, &domain.ConflictError{VehicleID: vehicle.ID}
		}
		defer func() {
			_ = s.cache.ReleaseVehicleLock(ctx, vehicle.ID)
		}()
	}

	start := schedule.DayStart(input.StartDate)
	end := schedule.DayStart(input.EndDate)

	existing, err := s.bookings.ListActiveByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, nil, err
	}
	if conflicts := schedule.FindConflicts(existing, start, end); len(conflicts) > 0 {
		return nil, nil, &domain.ConflictError{VehicleID: vehicle.ID, Conflicts: conflicts}
	}

	booking := &domain.Booking{
		ID:               uuid.NewString(),
		VehicleID:        vehicle.ID,
		CustomerID:       input.CustomerID,
		StartDate:        start,
		EndDate:          end,
		BookingType:      input.BookingType,
		IsAC:             input.IsAC,
		PricePerDay:      vehicle.PricePerDay,
		PricePerKm:       vehicle.PricePerKm,
		CancellationFine: s.calc.Policy().CancellationFee,
	}

	estimate := s.calc.Calculate(pricing.Input{
		BookingType:      booking.BookingType,
		PricePerDay:      booking.PricePerDay,
		PricePerKm:       booking.PricePerKm,
		RentalDays:       rc.RentalDays,
		IsAC:             booking.IsAC,
		CancellationFine: booking.CancellationFine,
	})
	booking.TotalAmount = estimate.Chargeable

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, &estimate, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, *pricing.Breakdown, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	breakdown := s.breakdownFor(booking)
	return booking, &breakdown, nil
}

func (s *BookingService) StartRide(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.MarkStarted(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "ride_started", booking)
	return booking, nil
}

// CompleteRide closes out an active booking: it records the return day and
// distance, derives the late fine, recomputes the fare from the booking's
// snapshot rates and persists the final amount. This is the same calculator
// that produced the creation-time estimate, so the two can only differ
// through recorded distance and fines.
func (s *BookingService) CompleteRide(ctx context.Context, id string, input CompleteRideInput) (*domain.Booking, *pricing.Breakdown, error) {
	if input.KmTravelled < 0 {
		return nil, nil, domain.NewValidationError("km travelled must not be negative")
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanTransition(current.Phase(), domain.PhaseCompleted) {
		return nil, nil, &domain.StateTransitionError{BookingID: id, From: current.Phase(), To: domain.PhaseCompleted}
	}

	actualReturn := schedule.DayStart(input.ActualReturnDate)
	if actualReturn.Before(current.StartDate) {
		return nil, nil, domain.NewValidationError("return before start")
	}

	lateFine := s.calc.LateFine(schedule.DaysBetween(current.EndDate, actualReturn))
	if input.LateReturnFine != nil {
		lateFine = *input.LateReturnFine
	}

	breakdown := s.calc.Calculate(pricing.Input{
		BookingType:      current.BookingType,
		PricePerDay:      current.PricePerDay,
		PricePerKm:       current.PricePerKm,
		RentalDays:       schedule.DaysBetween(current.StartDate, current.EndDate) + 1,
		KmTravelled:      input.KmTravelled,
		IsAC:             current.IsAC,
		LateReturnFine:   lateFine,
		CancellationFine: current.CancellationFine,
	})

	booking, err := s.bookings.MarkCompleted(ctx, id, input.KmTravelled, actualReturn, lateFine, breakdown.Chargeable)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, "ride_completed", booking)
	return booking, &breakdown, nil
}

// CancelBooking moves a non-terminal booking to cancelled. The customer owes
// only the cancellation fine snapshotted at creation; the fare and surcharge
// are waived.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*domain.Booking, *pricing.Breakdown, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !domain.CanTransition(current.Phase(), domain.PhaseCancelled) {
		return nil, nil, &domain.StateTransitionError{BookingID: id, From: current.Phase(), To: domain.PhaseCancelled}
	}

	booking, err := s.bookings.MarkCancelled(ctx, id, current.CancellationFine)
	if err != nil {
		return nil, nil, err
	}

	breakdown := s.breakdownFor(booking)
	s.publish(ctx, "booking_cancelled", booking)
	return booking, &breakdown, nil
}

func (s *BookingService) AssignDriver(ctx context.Context, id string, driverID int64) (*domain.Booking, error) {
	booking, err := s.bookings.AssignDriver(ctx, id, driverID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "driver_assigned", booking)
	return booking, nil
}

func (s *BookingService) CheckAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (*Availability, error) {
	start = schedule.DayStart(start)
	end = schedule.DayStart(end)
	if end.Before(start) {
		return nil, domain.NewValidationError("end before start")
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	existing, err := s.bookings.ListActiveByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	conflicts := schedule.FindConflicts(existing, start, end)
	return &Availability{IsAvailable: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// PublishOverduePickups emits a reminder event for every booking whose start
// date has passed without the ride starting. Called periodically by the
// worker; bookings are a historical record and are never auto-cancelled.
func (s *BookingService) PublishOverduePickups(ctx context.Context) ([]domain.Booking, error) {
	overdue, err := s.bookings.ListOverduePickups(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for i := range overdue {
		s.publish(ctx, "pickup_overdue", &overdue[i])
	}
	return overdue, nil
}

func (s *BookingService) breakdownFor(b *domain.Booking) pricing.Breakdown {
	return s.calc.Calculate(pricing.Input{
		BookingType:      b.BookingType,
		PricePerDay:      b.PricePerDay,
		PricePerKm:       b.PricePerKm,
		RentalDays:       schedule.DaysBetween(b.StartDate, b.EndDate) + 1,
		KmTravelled:      b.KmTravelled,
		IsAC:             b.IsAC,
		LateReturnFine:   b.LateReturnFine,
		CancellationFine: b.CancellationFine,
		IsCancelled:      b.IsCancelled,
	})
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		VehicleID:   booking.VehicleID,
		CustomerID:  booking.CustomerID,
		DriverID:    booking.DriverID,
		Status:      string(domain.ResolveStatus(booking, s.now())),
		StartDate:   booking.StartDate.Format(time.DateOnly),
		EndDate:     booking.EndDate.Format(time.DateOnly),
		TotalAmount: booking.TotalAmount,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", eventType, booking.ID, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
