package repository

import (
	"context"
	"errors"

	"github.com/carhive/carbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VehicleRepository interface {
	List(ctx context.Context) ([]domain.Vehicle, error)
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

type PGVehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) VehicleRepository {
	return &PGVehicleRepository{db: db}
}

func (r *PGVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, name, registration_no, price_per_day, price_per_km, has_ac, created_at, updated_at
		FROM vehicles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0)
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.RegistrationNo, &v.PricePerDay, &v.PricePerKm, &v.HasAC, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *PGVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, name, registration_no, price_per_day, price_per_km, has_ac, created_at, updated_at
		FROM vehicles WHERE id=$1`, id)
	var v domain.Vehicle
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.RegistrationNo, &v.PricePerDay, &v.PricePerKm, &v.HasAC, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

var _ VehicleRepository = (*PGVehicleRepository)(nil)
