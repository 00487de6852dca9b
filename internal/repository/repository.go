package repository

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
)

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

type ReservationRepository interface {
	// CreateIfAvailable inserts the reservation inside a single transaction
	// that re-verifies the no-overlap invariant under a per-vehicle lock.
	// Returns a Conflict error when an active reservation overlaps.
	CreateIfAvailable(ctx context.Context, r *domain.Reservation) error

	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) error

	// CountOverlapping counts active reservations for the vehicle whose
	// half-open interval intersects [start, end). excludeID skips one
	// reservation (0 to skip none).
	CountOverlapping(ctx context.Context, vehicleID int32, start, end time.Time, excludeID int32) (int32, error)

	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListByVehicle(ctx context.Context, vehicleID int32, start, end time.Time) ([]domain.Reservation, error)
}

type VoucherRepository interface {
	Create(ctx context.Context, v *domain.Voucher) error
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	Update(ctx context.Context, v *domain.Voucher) error

	// IncrementUsage bumps used_count only if the result stays within the
	// usage limit. Returns a VoucherInvalid error when the limit is already
	// reached.
	IncrementUsage(ctx context.Context, code string) error
}
