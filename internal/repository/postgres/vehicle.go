package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (owner_id, name, make, model, license_plate, daily_rate_cents, pickup_location, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, v.OwnerID, v.Name, v.Make, v.Model, v.LicensePlate, v.DailyRateCents, v.PickupLocation, v.Status, time.Now()).Scan(&v.ID)
	if err != nil {
		return domain.WrapStorage(err, "failed to create vehicle")
	}
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, owner_id, name, make, model, license_plate, daily_rate_cents, pickup_location, status, created_on
	          FROM vehicles WHERE id = $1 AND deleted_on IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.OwnerID, &v.Name, &v.Make, &v.Model, &v.LicensePlate, &v.DailyRateCents, &v.PickupLocation, &v.Status, &v.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewErrorf(domain.ErrNotFound, "vehicle %d not found", id)
	}
	if err != nil {
		return nil, domain.WrapStorage(err, "failed to load vehicle")
	}
	return v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET name=$1, make=$2, model=$3, license_plate=$4, daily_rate_cents=$5, pickup_location=$6, status=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, v.Name, v.Make, v.Model, v.LicensePlate, v.DailyRateCents, v.PickupLocation, v.Status, v.ID)
	if err != nil {
		return domain.WrapStorage(err, "failed to update vehicle")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewErrorf(domain.ErrNotFound, "vehicle %d not found", v.ID)
	}
	return nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM vehicles WHERE owner_id = $1 AND deleted_on IS NULL`
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&count); err != nil {
		return nil, 0, domain.WrapStorage(err, "failed to count vehicles")
	}

	query := `SELECT id, owner_id, name, make, model, license_plate, daily_rate_cents, pickup_location, status, created_on
	          FROM vehicles WHERE owner_id = $1 AND deleted_on IS NULL
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, pageSize, offset)
	if err != nil {
		return nil, 0, domain.WrapStorage(err, "failed to list vehicles")
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Make, &v.Model, &v.LicensePlate, &v.DailyRateCents, &v.PickupLocation, &v.Status, &v.CreatedOn); err != nil {
			return nil, 0, domain.WrapStorage(err, "failed to scan vehicle")
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, count, nil
}
