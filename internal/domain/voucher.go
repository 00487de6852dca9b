package domain

import "time"

type DiscountType string

const (
	DiscountTypePercent DiscountType = "PERCENT"
	DiscountTypeAmount  DiscountType = "AMOUNT"
)

// Voucher is a promotional code. DiscountValue is an integer percentage for
// PERCENT vouchers and a cent amount for AMOUNT vouchers. MaxDiscountCents
// only applies to PERCENT vouchers. A nil UsageLimit means unlimited uses.
type Voucher struct {
	ID               int32        `json:"id"`
	Code             string       `json:"code"`
	DiscountType     DiscountType `json:"discount_type"`
	DiscountValue    int64        `json:"discount_value"`
	MaxDiscountCents *int64       `json:"max_discount_cents,omitempty"`
	MinOrderCents    int64        `json:"min_order_cents"`
	ValidFrom        time.Time    `json:"valid_from"`
	ValidTo          time.Time    `json:"valid_to"`
	UsageLimit       *int32       `json:"usage_limit,omitempty"`
	UsedCount        int32        `json:"used_count"`
	IsActive         bool         `json:"is_active"`
	CreatedOn        string       `json:"created_on"`
	UpdatedOn        string       `json:"updated_on"`
}

// Exhausted reports whether the voucher has no uses left.
func (v *Voucher) Exhausted() bool {
	return v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit
}
