package utils

import (
	"math"
	"time"

	"driveshare-backend/internal/domain"
)

// SubtotalBreakdown provides the financial fields computed for a rental
// interval before any discount is applied.
type SubtotalBreakdown struct {
	TotalDays     int32
	SubtotalCents int64
	DeliveryCents int64
}

// TotalDays returns the number of billable days for a half-open interval
// [start, end). Partial days round up and any interval shorter than 24 hours
// still bills one full day.
func TotalDays(start, end time.Time) (int32, error) {
	if !end.After(start) {
		return 0, domain.NewError(domain.ErrInvalidInput, "end date must be after start date")
	}
	hours := end.Sub(start).Hours()
	days := int32(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days, nil
}

// ComputeSubtotal prices the interval at dailyRateCents per day and folds in
// the delivery fee. The delivery fee is normalized, not rounded: fractional
// cents are truncated so the renter is never overcharged.
func ComputeSubtotal(start, end time.Time, dailyRateCents int64, deliveryFee float64) (SubtotalBreakdown, error) {
	if dailyRateCents <= 0 {
		return SubtotalBreakdown{}, domain.NewError(domain.ErrInvalidResource, "daily rate must be positive")
	}

	days, err := TotalDays(start, end)
	if err != nil {
		return SubtotalBreakdown{}, err
	}

	return SubtotalBreakdown{
		TotalDays:     days,
		SubtotalCents: int64(days) * dailyRateCents,
		DeliveryCents: NormalizeDeliveryFee(deliveryFee),
	}, nil
}

// NormalizeDeliveryFee clamps a delivery fee to a non-negative whole-cent
// amount. Truncation is deliberate: discounts round, delivery fees floor.
func NormalizeDeliveryFee(fee float64) int64 {
	if fee <= 0 {
		return 0
	}
	return int64(math.Floor(fee))
}

// ComputeDiscount applies a voucher's discount rule to a subtotal.
// PERCENT discounts round half-up to the nearest cent and respect the
// voucher's cap; AMOUNT discounts are flat but never exceed the subtotal.
func ComputeDiscount(v *domain.Voucher, subtotalCents int64) int64 {
	var discount int64
	switch v.DiscountType {
	case domain.DiscountTypePercent:
		discount = RoundedPercentOf(subtotalCents, v.DiscountValue)
		if v.MaxDiscountCents != nil && discount > *v.MaxDiscountCents {
			discount = *v.MaxDiscountCents
		}
	case domain.DiscountTypeAmount:
		discount = v.DiscountValue
		if discount > subtotalCents {
			discount = subtotalCents
		}
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// RoundedPercentOf returns pct percent of amount in cents, rounded half-up.
func RoundedPercentOf(amountCents, pct int64) int64 {
	return (amountCents*pct + 50) / 100
}

// TotalAmount combines the computed terms, floored at zero.
func TotalAmount(subtotalCents, deliveryCents, discountCents int64) int64 {
	total := subtotalCents + deliveryCents - discountCents
	if total < 0 {
		total = 0
	}
	return total
}
