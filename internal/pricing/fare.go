package pricing

import (
	"math"

	"github.com/carhive/carbooking/config"
	"github.com/carhive/carbooking/internal/domain"
)

// Policy is the fare policy injected into the calculator. Keeping the rates
// here instead of hard-coding them lets deployments vary the surcharge and
// fee schedule without touching the fare math.
type Policy struct {
	ACSurchargeRate float64
	MaxRentalDays   int
	LateFeePerDay   int64
	CancellationFee int64
}

func DefaultPolicy() Policy {
	return Policy{
		ACSurchargeRate: 0.10,
		MaxRentalDays:   30,
		LateFeePerDay:   500,
		CancellationFee: 300,
	}
}

func PolicyFromConfig(cfg config.PricingConfig) Policy {
	p := DefaultPolicy()
	if cfg.ACSurchargeRate > 0 {
		p.ACSurchargeRate = cfg.ACSurchargeRate
	}
	if cfg.MaxRentalDays > 0 {
		p.MaxRentalDays = cfg.MaxRentalDays
	}
	if cfg.LateFeePerDay > 0 {
		p.LateFeePerDay = cfg.LateFeePerDay
	}
	if cfg.CancellationFee > 0 {
		p.CancellationFee = cfg.CancellationFee
	}
	return p
}

// Input carries everything the fare math needs. Prices are the booking's
// creation-time snapshot, never the live vehicle rates.
type Input struct {
	BookingType      domain.BookingType
	PricePerDay      int64
	PricePerKm       int64
	RentalDays       int
	KmTravelled      float64
	IsAC             bool
	LateReturnFine   int64
	CancellationFine int64
	IsCancelled      bool
}

// Breakdown itemizes a fare for display and persistence. Chargeable is what
// the customer owes; it is stored on the booking as the total amount.
type Breakdown struct {
	Base             int64 `json:"base"`
	ACSurcharge      int64 `json:"ac_surcharge"`
	LateReturnFine   int64 `json:"late_return_fine"`
	CancellationFine int64 `json:"cancellation_fine"`
	Chargeable       int64 `json:"chargeable"`
}

type Calculator struct {
	policy Policy
}

func NewCalculator(policy Policy) *Calculator {
	return &Calculator{policy: policy}
}

func (c *Calculator) Policy() Policy {
	return c.policy
}

// Calculate produces the fare breakdown for a booking.
//
// Per-day bookings bill the day rate times the inclusive rental days. Per-km
// bookings bill the higher of the metered fare and one day's rate: the owner
// is guaranteed at least a day's minimum even for a short trip, while long
// trips pay the true per-km rate. Before any distance is recorded the
// per-day rate stands in, which is also what the creation-time estimate
// shows.
//
// A cancelled booking owes only its cancellation fine; base and surcharge
// are waived but kept in the breakdown so dashboards can show what was
// waived.
func (c *Calculator) Calculate(in Input) Breakdown {
	base := c.base(in)

	var surcharge int64
	if in.IsAC {
		surcharge = roundMoney(float64(base) * c.policy.ACSurchargeRate)
	}

	br := Breakdown{
		Base:             base,
		ACSurcharge:      surcharge,
		LateReturnFine:   in.LateReturnFine,
		CancellationFine: in.CancellationFine,
	}

	if in.IsCancelled {
		br.Chargeable = in.CancellationFine
		return br
	}

	br.Chargeable = base + surcharge + in.LateReturnFine
	return br
}

// LateFine charges the per-day late fee for every whole day the return ran
// past the booked end date. Returning on the end date costs nothing.
func (c *Calculator) LateFine(daysLate int) int64 {
	if daysLate <= 0 {
		return 0
	}
	return int64(daysLate) * c.policy.LateFeePerDay
}

func (c *Calculator) base(in Input) int64 {
	if in.BookingType == domain.BookingTypePerKm {
		if in.KmTravelled > 0 {
			kmFare := roundMoney(in.KmTravelled * float64(in.PricePerKm))
			if kmFare > in.PricePerDay {
				return kmFare
			}
		}
		return in.PricePerDay
	}
	return in.PricePerDay * int64(in.RentalDays)
}

func roundMoney(x float64) int64 {
	return int64(math.Round(x))
}
