package service

import (
	"context"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository"
	"driveshare-backend/internal/utils"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type reservationService struct {
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	voucherRepo     repository.VoucherRepository
	voucherSvc      VoucherService
	publisher       EventPublisher
	clock           Clock
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	voucherRepo repository.VoucherRepository,
	voucherSvc VoucherService,
	publisher EventPublisher,
	clock Clock,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		voucherRepo:     voucherRepo,
		voucherSvc:      voucherSvc,
		publisher:       publisher,
		clock:           clock,
	}
}

// CreateReservation runs the full pipeline: availability, pricing, voucher,
// then the transactional write. Each stage short-circuits with its own
// rejection kind; the storage layer re-verifies availability inside the
// insert transaction, so the pre-check here is only a fast path.
func (s *reservationService) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	if req.VehicleID == 0 {
		return nil, domain.NewError(domain.ErrInvalidInput, "vehicle id is required")
	}
	if req.RenterID == 0 {
		return nil, domain.NewError(domain.ErrInvalidInput, "renter id is required")
	}

	startDate, err := parseDate(req.StartDate, "start date")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate, "end date")
	if err != nil {
		return nil, err
	}
	if !endDate.After(startDate) {
		return nil, domain.NewError(domain.ErrInvalidInput, "end date must be after start date")
	}

	startTime, err := parseOptionalTime(req.StartTime, "start time")
	if err != nil {
		return nil, err
	}
	endTime, err := parseOptionalTime(req.EndTime, "end time")
	if err != nil {
		return nil, err
	}

	if req.DeliveryOption != domain.DeliveryOptionPickup && req.DeliveryOption != domain.DeliveryOptionDelivery {
		return nil, domain.NewErrorf(domain.ErrInvalidInput, "unknown delivery option %q", req.DeliveryOption)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.reservationRepo.CountOverlapping(ctx, vehicle.ID, startDate, endDate, 0)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, domain.NewErrorf(domain.ErrConflict, "vehicle %d already reserved between %s and %s",
			vehicle.ID, req.StartDate, req.EndDate)
	}

	// Time-of-day refines the billable duration but not the overlap
	// decision, which is defined on whole dates.
	deliveryFee := req.DeliveryFee
	if req.DeliveryOption == domain.DeliveryOptionPickup {
		deliveryFee = 0
	}
	breakdown, err := utils.ComputeSubtotal(effectiveInstant(startDate, startTime), effectiveInstant(endDate, endTime), vehicle.DailyRateCents, deliveryFee)
	if err != nil {
		return nil, err
	}

	var discountCents int64
	var voucherCode *string
	if req.VoucherCode != "" {
		discount, resolved, err := s.voucherSvc.ApplyVoucher(ctx, req.VoucherCode, breakdown.SubtotalCents)
		if err != nil {
			return nil, err
		}
		discountCents = discount
		voucherCode = &resolved
	}

	pickupLocation := req.PickupAddress
	returnLocation := req.ReturnAddress
	if req.DeliveryOption == domain.DeliveryOptionPickup {
		pickupLocation = vehicle.PickupLocation
		if returnLocation == "" {
			returnLocation = vehicle.PickupLocation
		}
	}

	reservation := &domain.Reservation{
		Reference:      uuid.NewString(),
		VehicleID:      vehicle.ID,
		RenterID:       req.RenterID,
		StartDate:      startDate,
		EndDate:        endDate,
		StartTime:      startTime,
		EndTime:        endTime,
		TotalDays:      breakdown.TotalDays,
		SubtotalCents:  breakdown.SubtotalCents,
		DeliveryCents:  breakdown.DeliveryCents,
		DiscountCents:  discountCents,
		TotalCents:     utils.TotalAmount(breakdown.SubtotalCents, breakdown.DeliveryCents, discountCents),
		TotalPaidCents: 0,
		VoucherCode:    voucherCode,
		DeliveryOption: req.DeliveryOption,
		PickupLocation: pickupLocation,
		ReturnLocation: returnLocation,
		Status:         domain.ReservationStatusPending,
	}

	if err := s.reservationRepo.CreateIfAvailable(ctx, reservation); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReservationCreated(ctx, reservation); err != nil {
			logger.Warn("Failed to publish reservation created event", "reservation_id", reservation.ID, "error", err)
		}
	}

	return reservation, nil
}

func (s *reservationService) CheckAvailability(ctx context.Context, vehicleID int32, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, domain.NewError(domain.ErrInvalidInput, "end date must be after start date")
	}
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return false, err
	}
	count, err := s.reservationRepo.CountOverlapping(ctx, vehicleID, start, end, 0)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *reservationService) GetReservation(ctx context.Context, userID, reservationID int32) (*domain.Reservation, error) {
	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rv.RenterID != userID {
		vehicle, err := s.vehicleRepo.GetByID(ctx, rv.VehicleID)
		if err != nil || vehicle.OwnerID != userID {
			return nil, domain.NewError(domain.ErrUnauthorized, "reservation belongs to another user")
		}
	}
	return rv, nil
}

func (s *reservationService) ListReservations(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return s.reservationRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

// TransitionStatus applies one lifecycle step. Transitions into an active
// status re-verify the no-overlap invariant (excluding the reservation
// itself), and confirming a voucher-backed reservation consumes one use of
// the voucher before the status is persisted.
func (s *reservationService) TransitionStatus(ctx context.Context, reservationID int32, next domain.ReservationStatus) (*domain.Reservation, error) {
	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !rv.Status.CanTransition(next) {
		return nil, domain.NewErrorf(domain.ErrInvalidInput, "cannot transition reservation from %s to %s", rv.Status, next)
	}

	if next.IsActive() {
		count, err := s.reservationRepo.CountOverlapping(ctx, rv.VehicleID, rv.StartDate, rv.EndDate, rv.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.NewErrorf(domain.ErrConflict, "vehicle %d has a conflicting active reservation", rv.VehicleID)
		}
	}

	if next == domain.ReservationStatusConfirmed && rv.VoucherCode != nil {
		if err := s.voucherRepo.IncrementUsage(ctx, *rv.VoucherCode); err != nil {
			return nil, err
		}
	}

	previous := rv.Status
	if err := s.reservationRepo.UpdateStatus(ctx, rv.ID, next); err != nil {
		return nil, err
	}
	rv.Status = next

	if s.publisher != nil {
		if err := s.publisher.PublishReservationStatusChanged(ctx, rv, previous); err != nil {
			logger.Warn("Failed to publish status change event", "reservation_id", rv.ID, "error", err)
		}
	}

	return rv, nil
}

func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, domain.NewErrorf(domain.ErrInvalidInput, "%s is required", field)
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewErrorf(domain.ErrInvalidInput, "%s must be formatted as yyyy-mm-dd", field)
	}
	return t, nil
}

func parseOptionalTime(value, field string) (*string, error) {
	if value == "" {
		return nil, nil
	}
	if _, err := time.Parse(timeLayout, value); err != nil {
		return nil, domain.NewErrorf(domain.ErrInvalidInput, "%s must be formatted as HH:MM", field)
	}
	return &value, nil
}

// effectiveInstant folds an optional time-of-day into the date so the
// billable duration reflects a late pickup or return.
func effectiveInstant(date time.Time, tod *string) time.Time {
	if tod == nil {
		return date
	}
	t, err := time.Parse(timeLayout, *tod)
	if err != nil {
		return date
	}
	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}
