package service

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
)

// Clock abstracts wall-clock reads so voucher window checks are testable.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// CreateReservationRequest is the transport-agnostic creation contract.
// DeliveryFee is a raw cent amount that may carry a fractional part; it is
// normalized (truncated, clamped at zero) during pricing.
type CreateReservationRequest struct {
	VehicleID      int32
	RenterID       int32
	StartDate      string
	EndDate        string
	StartTime      string
	EndTime        string
	DeliveryOption domain.DeliveryOption
	PickupAddress  string
	ReturnAddress  string
	DeliveryFee    float64
	VoucherCode    string
}

type ReservationService interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error)
	CheckAvailability(ctx context.Context, vehicleID int32, start, end time.Time) (bool, error)
	GetReservation(ctx context.Context, userID, reservationID int32) (*domain.Reservation, error)
	ListReservations(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	TransitionStatus(ctx context.Context, reservationID int32, next domain.ReservationStatus) (*domain.Reservation, error)
}

type VoucherService interface {
	// ApplyVoucher validates the code against the subtotal and returns the
	// discount in cents plus the resolved code. Every failure is a
	// VoucherInvalid rejection carrying a sub-reason.
	ApplyVoucher(ctx context.Context, code string, subtotalCents int64) (int64, string, error)

	CreateVoucher(ctx context.Context, v *domain.Voucher) error
	GetVoucher(ctx context.Context, code string) (*domain.Voucher, error)
	DeactivateVoucher(ctx context.Context, code string) error
}

type VehicleService interface {
	AddVehicle(ctx context.Context, v *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, userID int32, v *domain.Vehicle) error
	ListMyVehicles(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

// EventPublisher pushes reservation lifecycle events to downstream
// consumers (payment initiation, contract generation, notifications).
// Publishing is best-effort; failures must never fail the request.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, r *domain.Reservation) error
	PublishReservationStatusChanged(ctx context.Context, r *domain.Reservation, previous domain.ReservationStatus) error
}
