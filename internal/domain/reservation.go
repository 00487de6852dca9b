package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending         ReservationStatus = "PENDING"
	ReservationStatusDepositPaid     ReservationStatus = "DEPOSIT_PAID"
	ReservationStatusConfirmed       ReservationStatus = "CONFIRMED"
	ReservationStatusInProgress      ReservationStatus = "IN_PROGRESS"
	ReservationStatusCompleted       ReservationStatus = "COMPLETED"
	ReservationStatusCancelRequested ReservationStatus = "CANCEL_REQUESTED"
	ReservationStatusCanceled        ReservationStatus = "CANCELED"
)

// ActiveStatuses are the statuses that count toward the no-overlap invariant.
// Two reservations on the same vehicle may never hold overlapping intervals
// while both are in this set.
var ActiveStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusDepositPaid,
	ReservationStatusConfirmed,
	ReservationStatusInProgress,
}

func (s ReservationStatus) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCanceled
}

var statusTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:         {ReservationStatusDepositPaid, ReservationStatusCanceled},
	ReservationStatusDepositPaid:     {ReservationStatusConfirmed, ReservationStatusCancelRequested, ReservationStatusCanceled},
	ReservationStatusConfirmed:       {ReservationStatusInProgress, ReservationStatusCancelRequested, ReservationStatusCanceled},
	ReservationStatusInProgress:      {ReservationStatusCompleted},
	ReservationStatusCancelRequested: {ReservationStatusCanceled},
}

// CanTransition reports whether moving from s to next is a legal lifecycle step.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	for _, n := range statusTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type DeliveryOption string

const (
	DeliveryOptionPickup   DeliveryOption = "pickup"
	DeliveryOptionDelivery DeliveryOption = "delivery"
)

// Reservation holds a vehicle for a renter over a half-open date interval
// [StartDate, EndDate). The end instant is excluded, so back-to-back
// reservations on the same vehicle do not conflict.
type Reservation struct {
	ID             int32             `json:"id"`
	Reference      string            `json:"reference"`
	VehicleID      int32             `json:"vehicle_id"`
	RenterID       int32             `json:"renter_id"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	StartTime      *string           `json:"start_time,omitempty"`
	EndTime        *string           `json:"end_time,omitempty"`
	TotalDays      int32             `json:"total_days"`
	SubtotalCents  int64             `json:"subtotal_cents"`
	DeliveryCents  int64             `json:"delivery_fee_cents"`
	DiscountCents  int64             `json:"discount_cents"`
	TotalCents     int64             `json:"total_cents"`
	TotalPaidCents int64             `json:"total_paid_cents"`
	VoucherCode    *string           `json:"voucher_code,omitempty"`
	DeliveryOption DeliveryOption    `json:"delivery_option"`
	PickupLocation string            `json:"pickup_location"`
	ReturnLocation string            `json:"return_location"`
	Status         ReservationStatus `json:"status"`
	CreatedOn      string            `json:"created_on"`
	UpdatedOn      string            `json:"updated_on"`
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
