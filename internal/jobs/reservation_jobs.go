package jobs

import (
	"context"
	"fmt"
	"time"

	"driveshare-backend/internal/logger"
)

// ExpireStalePendingReservations cancels reservations that sat in PENDING
// past the configured deposit window. Canceling frees the interval for
// other renters, so this job is what keeps abandoned checkouts from
// blocking a vehicle indefinitely.
func (jr *JobRunner) ExpireStalePendingReservations() {
	jr.runWithRecovery("ExpireStalePendingReservations", func() {
		ctx := context.Background()
		cutoff := time.Now().Add(-time.Duration(jr.config.Reservation.PendingExpiryHours) * time.Hour)

		query := `
			UPDATE reservations
			SET status = 'CANCELED',
			    updated_on = NOW()
			WHERE status = 'PENDING'
			  AND created_on < $1
			RETURNING id, vehicle_id, renter_id
		`

		rows, err := jr.db.QueryContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to expire stale pending reservations", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, vehicleID, renterID int32
			if err := rows.Scan(&id, &vehicleID, &renterID); err != nil {
				logger.Error("Failed to scan expired reservation", "error", err)
				continue
			}
			count++
			logger.Debug("Expired stale pending reservation",
				"reservation_id", id,
				"vehicle_id", vehicleID,
				"renter_id", renterID)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired reservations", "error", err)
			return
		}

		logger.Info("Expired stale pending reservations", "count", count,
			"older_than", fmt.Sprintf("%dh", jr.config.Reservation.PendingExpiryHours))
	})
}

// DeactivateEndedVouchers turns off vouchers whose validity window has
// passed so they stop matching the active-flag check.
func (jr *JobRunner) DeactivateEndedVouchers() {
	jr.runWithRecovery("DeactivateEndedVouchers", func() {
		ctx := context.Background()

		query := `
			UPDATE vouchers
			SET is_active = FALSE,
			    updated_on = NOW()
			WHERE is_active = TRUE
			  AND valid_to < NOW()
		`

		res, err := jr.db.ExecContext(ctx, query)
		if err != nil {
			logger.Error("Failed to deactivate ended vouchers", "error", err)
			return
		}

		count, _ := res.RowsAffected()
		logger.Info("Deactivated ended vouchers", "count", count)
	})
}
