package postgres_test

import (
	"context"
	"testing"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestReservationRepository_CountOverlapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	t.Run("No overlap", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM reservations").
			WithArgs(int32(7), int32(0), end, start, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		count, err := repo.CountOverlapping(ctx, 7, start, end, 0)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), count)
	})

	t.Run("Existing active reservation counted", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM reservations").
			WithArgs(int32(7), int32(21), end, start, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		count, err := repo.CountOverlapping(ctx, 7, start, end, 21)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), count)
	})
}

func TestReservationRepository_CreateIfAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	newReservation := func() *domain.Reservation {
		return &domain.Reservation{
			Reference:      "8f14e45f-ceea-4e67-b2c3-0a5b7f1d9a11",
			VehicleID:      7,
			RenterID:       3,
			StartDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
			TotalDays:      3,
			SubtotalCents:  900000,
			DeliveryCents:  50000,
			DiscountCents:  90000,
			TotalCents:     860000,
			DeliveryOption: domain.DeliveryOptionDelivery,
			PickupLocation: "45 Le Loi, District 1",
			ReturnLocation: "45 Le Loi, District 1",
			Status:         domain.ReservationStatusPending,
		}
	}

	t.Run("Success", func(t *testing.T) {
		rv := newReservation()

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(7201, rv.VehicleID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM reservations").
			WithArgs(rv.VehicleID, int32(0), rv.EndDate, rv.StartDate, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectCommit()

		err := repo.CreateIfAvailable(ctx, rv)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), rv.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict detected under lock", func(t *testing.T) {
		rv := newReservation()

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs(7201, rv.VehicleID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM reservations").
			WithArgs(rv.VehicleID, int32(0), rv.EndDate, rv.StartDate, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.CreateIfAvailable(ctx, rv)
		assert.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrConflict))
		assert.Equal(t, int32(0), rv.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	columns := []string{"id", "reference", "vehicle_id", "renter_id", "start_date", "end_date", "start_time", "end_time",
		"total_days", "subtotal_cents", "delivery_fee_cents", "discount_cents", "total_cents", "total_paid_cents",
		"voucher_code", "delivery_option", "pickup_location", "return_location", "status", "created_on", "updated_on"}

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow(42, "8f14e45f-ceea-4e67-b2c3-0a5b7f1d9a11", 7, 3,
				time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
				nil, nil, 3, 900000, 50000, 90000, 860000, 0,
				"SAVE10", "delivery", "45 Le Loi, District 1", "45 Le Loi, District 1", "PENDING",
				"2025-01-05T12:00:00Z", "2025-01-05T12:00:00Z")

		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs(int32(42)).
			WillReturnRows(rows)

		rv, err := repo.GetByID(ctx, 42)
		assert.NoError(t, err)
		assert.NotNil(t, rv)
		assert.Equal(t, int32(42), rv.ID)
		assert.Equal(t, domain.ReservationStatusPending, rv.Status)
		assert.Equal(t, "SAVE10", *rv.VoucherCode)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetByID(ctx, 99)
		assert.True(t, domain.IsKind(err, domain.ErrNotFound))
	})
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations SET status").
			WithArgs(domain.ReservationStatusConfirmed, sqlmock.AnyArg(), int32(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, 42, domain.ReservationStatusConfirmed)
		assert.NoError(t, err)
	})

	t.Run("Missing reservation", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations SET status").
			WithArgs(domain.ReservationStatusConfirmed, sqlmock.AnyArg(), int32(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, 99, domain.ReservationStatusConfirmed)
		assert.True(t, domain.IsKind(err, domain.ErrNotFound))
	})
}
