package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"driveshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// memReservationRepo is an in-memory stand-in for the transactional store.
// The mutex plays the role of the per-vehicle advisory lock: the overlap
// check and the insert happen as one atomic step.
type memReservationRepo struct {
	mu           sync.Mutex
	nextID       int32
	reservations []*domain.Reservation
}

func (m *memReservationRepo) CreateIfAvailable(ctx context.Context, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.reservations {
		if existing.VehicleID == r.VehicleID && existing.Status.IsActive() &&
			domain.Overlaps(existing.StartDate, existing.EndDate, r.StartDate, r.EndDate) {
			return domain.NewErrorf(domain.ErrConflict, "vehicle %d already reserved", r.VehicleID)
		}
	}

	m.nextID++
	r.ID = m.nextID
	stored := *r
	m.reservations = append(m.reservations, &stored)
	return nil
}

func (m *memReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, domain.NewErrorf(domain.ErrNotFound, "reservation %d not found", id)
}

func (m *memReservationRepo) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return domain.NewErrorf(domain.ErrNotFound, "reservation %d not found", id)
}

func (m *memReservationRepo) CountOverlapping(ctx context.Context, vehicleID int32, start, end time.Time, excludeID int32) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int32
	for _, r := range m.reservations {
		if r.VehicleID == vehicleID && r.ID != excludeID && r.Status.IsActive() &&
			domain.Overlaps(r.StartDate, r.EndDate, start, end) {
			count++
		}
	}
	return count, nil
}

func (m *memReservationRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.RenterID == renterID && (status == "" || string(r.Status) == status) {
			out = append(out, *r)
		}
	}
	return out, int32(len(out)), nil
}

func (m *memReservationRepo) ListByVehicle(ctx context.Context, vehicleID int32, start, end time.Time) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.VehicleID == vehicleID && domain.Overlaps(r.StartDate, r.EndDate, start, end) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memReservationRepo) activeCount(vehicleID int32) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.reservations {
		if r.VehicleID == vehicleID && r.Status.IsActive() {
			count++
		}
	}
	return count
}

func newConcurrencyService(repo *memReservationRepo) ReservationService {
	clock := fixedClock{time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)}
	vehicleRepo := new(MockVehicleRepo)
	vehicleRepo.On("GetByID", mock.Anything, int32(7)).Return(testVehicle(), nil)
	voucherRepo := new(MockVoucherRepo)
	return NewReservationService(repo, vehicleRepo, voucherRepo, NewVoucherService(voucherRepo, clock), nil, clock)
}

func TestCreateReservation_NoDoubleBooking(t *testing.T) {
	repo := &memReservationRepo{}
	svc := newConcurrencyService(repo)

	const attempts = 32
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(renter int32) {
			defer wg.Done()
			_, err := svc.CreateReservation(context.Background(), CreateReservationRequest{
				VehicleID:      7,
				RenterID:       renter,
				StartDate:      "2025-01-10",
				EndDate:        "2025-01-13",
				DeliveryOption: domain.DeliveryOptionPickup,
			})
			results <- err
		}(int32(i + 1))
	}
	wg.Wait()
	close(results)

	succeeded, conflicted := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case domain.IsKind(err, domain.ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
	assert.Equal(t, 1, repo.activeCount(7))
}

func TestCreateReservation_BackToBackIntervals(t *testing.T) {
	repo := &memReservationRepo{}
	svc := newConcurrencyService(repo)
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, CreateReservationRequest{
		VehicleID:      7,
		RenterID:       1,
		StartDate:      "2025-01-10",
		EndDate:        "2025-01-12",
		DeliveryOption: domain.DeliveryOptionPickup,
	})
	assert.NoError(t, err)

	// The end date is excluded, so a rental starting the day the previous
	// one ends does not conflict.
	second, err := svc.CreateReservation(ctx, CreateReservationRequest{
		VehicleID:      7,
		RenterID:       2,
		StartDate:      "2025-01-12",
		EndDate:        "2025-01-14",
		DeliveryOption: domain.DeliveryOptionPickup,
	})
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, repo.activeCount(7))

	// A third request straddling the boundary hits both.
	_, err = svc.CreateReservation(ctx, CreateReservationRequest{
		VehicleID:      7,
		RenterID:       3,
		StartDate:      "2025-01-11",
		EndDate:        "2025-01-13",
		DeliveryOption: domain.DeliveryOptionPickup,
	})
	assert.True(t, domain.IsKind(err, domain.ErrConflict))
}

func TestCreateReservation_CanceledFreesInterval(t *testing.T) {
	repo := &memReservationRepo{}
	svc := newConcurrencyService(repo)
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, CreateReservationRequest{
		VehicleID:      7,
		RenterID:       1,
		StartDate:      "2025-01-10",
		EndDate:        "2025-01-13",
		DeliveryOption: domain.DeliveryOptionPickup,
	})
	assert.NoError(t, err)

	_, err = svc.TransitionStatus(ctx, first.ID, domain.ReservationStatusCanceled)
	assert.NoError(t, err)

	// The canceled reservation no longer blocks the interval.
	_, err = svc.CreateReservation(ctx, CreateReservationRequest{
		VehicleID:      7,
		RenterID:       2,
		StartDate:      "2025-01-10",
		EndDate:        "2025-01-13",
		DeliveryOption: domain.DeliveryOptionPickup,
	})
	assert.NoError(t, err)
}
