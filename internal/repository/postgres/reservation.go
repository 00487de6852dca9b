package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"

	"github.com/lib/pq"
)

// lockClassReservation namespaces the per-vehicle advisory locks so they
// cannot collide with other advisory-lock users of the same database.
const lockClassReservation = 7201

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

const overlapCountQuery = `SELECT count(*) FROM reservations
	WHERE vehicle_id = $1 AND id <> $2
	  AND start_date < $3 AND end_date > $4
	  AND status = ANY($5)`

func (r *reservationRepository) CountOverlapping(ctx context.Context, vehicleID int32, start, end time.Time, excludeID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, overlapCountQuery, vehicleID, excludeID, end, start, pq.Array(activeStatusStrings())).Scan(&count)
	if err != nil {
		return 0, domain.WrapStorage(err, "failed to count overlapping reservations")
	}
	return count, nil
}

// CreateIfAvailable closes the check-then-act window: the overlap re-check
// and the insert run in one transaction while holding an advisory lock keyed
// by vehicle id, so two writers for the same vehicle serialize here even
// though both passed the earlier availability read.
func (r *reservationRepository) CreateIfAvailable(ctx context.Context, rv *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapStorage(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, lockClassReservation, rv.VehicleID); err != nil {
		return domain.WrapStorage(err, "failed to acquire vehicle lock")
	}

	var count int32
	err = tx.QueryRowContext(ctx, overlapCountQuery, rv.VehicleID, int32(0), rv.EndDate, rv.StartDate, pq.Array(activeStatusStrings())).Scan(&count)
	if err != nil {
		return domain.WrapStorage(err, "failed to re-check availability")
	}
	if count > 0 {
		return domain.NewErrorf(domain.ErrConflict, "vehicle %d already reserved between %s and %s",
			rv.VehicleID, rv.StartDate.Format("2006-01-02"), rv.EndDate.Format("2006-01-02"))
	}

	query := `INSERT INTO reservations
		(reference, vehicle_id, renter_id, start_date, end_date, start_time, end_time,
		 total_days, subtotal_cents, delivery_fee_cents, discount_cents, total_cents, total_paid_cents,
		 voucher_code, delivery_option, pickup_location, return_location, status, created_on, updated_on)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	 RETURNING id`
	now := time.Now()
	err = tx.QueryRowContext(ctx, query,
		rv.Reference, rv.VehicleID, rv.RenterID, rv.StartDate, rv.EndDate, rv.StartTime, rv.EndTime,
		rv.TotalDays, rv.SubtotalCents, rv.DeliveryCents, rv.DiscountCents, rv.TotalCents, rv.TotalPaidCents,
		rv.VoucherCode, rv.DeliveryOption, rv.PickupLocation, rv.ReturnLocation, rv.Status, now, now,
	).Scan(&rv.ID)
	if err != nil {
		return domain.WrapStorage(err, "failed to insert reservation")
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapStorage(err, "failed to commit reservation")
	}
	return nil
}

const reservationColumns = `id, reference, vehicle_id, renter_id, start_date, end_date, start_time, end_time,
	total_days, subtotal_cents, delivery_fee_cents, discount_cents, total_cents, total_paid_cents,
	voucher_code, delivery_option, pickup_location, return_location, status, created_on, updated_on`

func scanReservation(row interface{ Scan(dest ...any) error }) (*domain.Reservation, error) {
	rv := &domain.Reservation{}
	err := row.Scan(&rv.ID, &rv.Reference, &rv.VehicleID, &rv.RenterID, &rv.StartDate, &rv.EndDate, &rv.StartTime, &rv.EndTime,
		&rv.TotalDays, &rv.SubtotalCents, &rv.DeliveryCents, &rv.DiscountCents, &rv.TotalCents, &rv.TotalPaidCents,
		&rv.VoucherCode, &rv.DeliveryOption, &rv.PickupLocation, &rv.ReturnLocation, &rv.Status, &rv.CreatedOn, &rv.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE id = $1`, reservationColumns)
	rv, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewErrorf(domain.ErrNotFound, "reservation %d not found", id)
	}
	if err != nil {
		return nil, domain.WrapStorage(err, "failed to load reservation")
	}
	return rv, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reservations SET status=$1, updated_on=$2 WHERE id=$3`, status, time.Now(), id)
	if err != nil {
		return domain.WrapStorage(err, "failed to update reservation status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewErrorf(domain.ErrNotFound, "reservation %d not found", id)
	}
	return nil
}

func (r *reservationRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM reservations WHERE renter_id = $1`
	args := []interface{}{renterID}
	argIdx := 2
	if status != "" {
		base += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, domain.WrapStorage(err, "failed to count reservations")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d", reservationColumns, base, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.WrapStorage(err, "failed to list reservations")
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, 0, domain.WrapStorage(err, "failed to scan reservation")
		}
		reservations = append(reservations, *rv)
	}
	return reservations, count, nil
}

func (r *reservationRepository) ListByVehicle(ctx context.Context, vehicleID int32, start, end time.Time) ([]domain.Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations
		WHERE vehicle_id = $1 AND start_date < $2 AND end_date > $3
		ORDER BY start_date`, reservationColumns)
	rows, err := r.db.QueryContext(ctx, query, vehicleID, end, start)
	if err != nil {
		return nil, domain.WrapStorage(err, "failed to list vehicle reservations")
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, domain.WrapStorage(err, "failed to scan reservation")
		}
		reservations = append(reservations, *rv)
	}
	return reservations, nil
}
