package domain

import "time"

type BookingType string

const (
	BookingTypePerDay BookingType = "per_day"
	BookingTypePerKm  BookingType = "per_km"
)

func (t BookingType) Valid() bool {
	return t == BookingTypePerDay || t == BookingTypePerKm
}

// Booking is the single persisted record of a rental. StartDate and EndDate
// are calendar days stored at local midnight; both days count toward the
// rental. PricePerDay and PricePerKm are snapshots taken from the vehicle at
// creation time, so later price changes never affect an existing booking.
type Booking struct {
	ID               string
	VehicleID        int64
	CustomerID       int64
	DriverID         *int64
	StartDate        time.Time
	EndDate          time.Time
	ActualReturnDate *time.Time
	BookingType      BookingType
	IsAC             bool
	KmTravelled      float64
	PricePerDay      int64
	PricePerKm       int64
	LateReturnFine   int64
	CancellationFine int64
	TotalAmount      int64
	IsStarted        bool
	IsCompleted      bool
	IsCancelled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
