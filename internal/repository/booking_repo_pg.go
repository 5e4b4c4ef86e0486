package repository

import (
	"context"
	"errors"
	"time"

	"github.com/carhive/carbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListActiveByVehicle(ctx context.Context, vehicleID int64) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	ListByDriver(ctx context.Context, driverID int64) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListOverduePickups(ctx context.Context, asOf time.Time) ([]domain.Booking, error)
	MarkStarted(ctx context.Context, id string) (*domain.Booking, error)
	MarkCompleted(ctx context.Context, id string, kmTravelled float64, actualReturn time.Time, lateFine, totalAmount int64) (*domain.Booking, error)
	MarkCancelled(ctx context.Context, id string, totalAmount int64) (*domain.Booking, error)
	AssignDriver(ctx context.Context, id string, driverID int64) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, vehicle_id, customer_id, driver_id, start_date, end_date, actual_return_date,
	booking_type, is_ac, km_travelled, price_per_day, price_per_km,
	late_return_fine, cancellation_fine, total_amount,
	is_started, is_completed, is_cancelled, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.VehicleID, &b.CustomerID, &b.DriverID, &b.StartDate, &b.EndDate, &b.ActualReturnDate,
		&b.BookingType, &b.IsAC, &b.KmTravelled, &b.PricePerDay, &b.PricePerKm,
		&b.LateReturnFine, &b.CancellationFine, &b.TotalAmount,
		&b.IsStarted, &b.IsCompleted, &b.IsCancelled, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Create inserts a booking inside a transaction that first locks the vehicle
// row and re-checks the interval against every non-cancelled booking for the
// vehicle. Two concurrent creates for the same vehicle serialize on the row
// lock, so the second one sees the first one's insert and fails with a
// ConflictError instead of double-booking.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var vehicleID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM vehicles WHERE id=$1 FOR UPDATE`, booking.VehicleID).Scan(&vehicleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	rows, err := tx.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE vehicle_id=$1 AND NOT is_cancelled AND start_date <= $3 AND end_date >= $2`,
		booking.VehicleID, booking.StartDate, booking.EndDate)
	if err != nil {
		return err
	}
	conflicts, err := collectBookings(rows)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.ConflictError{VehicleID: booking.VehicleID, Conflicts: conflicts}
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings
		(id, vehicle_id, customer_id, driver_id, start_date, end_date, booking_type, is_ac,
		 price_per_day, price_per_km, cancellation_fine, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		booking.ID, booking.VehicleID, booking.CustomerID, booking.DriverID,
		booking.StartDate, booking.EndDate, booking.BookingType, booking.IsAC,
		booking.PricePerDay, booking.PricePerKm, booking.CancellationFine, booking.TotalAmount).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListActiveByVehicle(ctx context.Context, vehicleID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE vehicle_id=$1 AND NOT is_cancelled ORDER BY start_date`, vehicleID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByDriver(ctx context.Context, driverID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE driver_id=$1 ORDER BY created_at DESC`, driverID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.vehicle_id, b.customer_id, b.driver_id, b.start_date, b.end_date, b.actual_return_date,
			b.booking_type, b.is_ac, b.km_travelled, b.price_per_day, b.price_per_km,
			b.late_return_fine, b.cancellation_fine, b.total_amount,
			b.is_started, b.is_completed, b.is_cancelled, b.created_at, b.updated_at
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE v.owner_id=$1 ORDER BY b.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListOverduePickups returns bookings whose start date has passed without
// the ride starting and which are not terminal. The worker publishes
// reminders for these; nothing is mutated.
func (r *PGBookingRepository) ListOverduePickups(ctx context.Context, asOf time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE start_date <= $1 AND NOT is_started AND NOT is_completed AND NOT is_cancelled
		ORDER BY start_date`, asOf)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// The transition updates below put the required pre-state into the WHERE
// clause. Under concurrent conflicting transitions exactly one UPDATE
// matches; the loser's statement touches zero rows and is reported as a
// StateTransitionError after a re-read distinguishes it from an unknown id.

func (r *PGBookingRepository) MarkStarted(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings
		SET is_started=true, updated_at=now()
		WHERE id=$1 AND NOT is_started AND NOT is_completed AND NOT is_cancelled
		RETURNING `+bookingColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, domain.PhaseActive)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) MarkCompleted(ctx context.Context, id string, kmTravelled float64, actualReturn time.Time, lateFine, totalAmount int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings
		SET is_completed=true, km_travelled=$2, actual_return_date=$3, late_return_fine=$4, total_amount=$5, updated_at=now()
		WHERE id=$1 AND is_started AND NOT is_completed AND NOT is_cancelled
		RETURNING `+bookingColumns, id, kmTravelled, actualReturn, lateFine, totalAmount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, domain.PhaseCompleted)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) MarkCancelled(ctx context.Context, id string, totalAmount int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings
		SET is_cancelled=true, total_amount=$2, updated_at=now()
		WHERE id=$1 AND NOT is_completed AND NOT is_cancelled
		RETURNING `+bookingColumns, id, totalAmount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, domain.PhaseCancelled)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) AssignDriver(ctx context.Context, id string, driverID int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings
		SET driver_id=$2, updated_at=now()
		WHERE id=$1 AND NOT is_started AND NOT is_completed AND NOT is_cancelled
		RETURNING `+bookingColumns, id, driverID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, domain.PhaseRequested)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) transitionFailure(ctx context.Context, id string, attempted domain.Phase) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &domain.StateTransitionError{BookingID: id, From: current.Phase(), To: attempted}
}

var _ BookingRepository = (*PGBookingRepository)(nil)
