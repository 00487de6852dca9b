package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type voucherRepository struct {
	db *sql.DB
}

func NewVoucherRepository(db *sql.DB) repository.VoucherRepository {
	return &voucherRepository{db: db}
}

const voucherColumns = `id, code, discount_type, discount_value, max_discount_cents, min_order_cents,
	valid_from, valid_to, usage_limit, used_count, is_active, created_on, updated_on`

func (r *voucherRepository) Create(ctx context.Context, v *domain.Voucher) error {
	query := `INSERT INTO vouchers (code, discount_type, discount_value, max_discount_cents, min_order_cents,
	            valid_from, valid_to, usage_limit, used_count, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $11) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, v.Code, v.DiscountType, v.DiscountValue, v.MaxDiscountCents, v.MinOrderCents,
		v.ValidFrom, v.ValidTo, v.UsageLimit, v.IsActive, now, now).Scan(&v.ID)
	if err != nil {
		return domain.WrapStorage(err, "failed to create voucher")
	}
	return nil
}

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	v := &domain.Voucher{}
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&v.ID, &v.Code, &v.DiscountType, &v.DiscountValue,
		&v.MaxDiscountCents, &v.MinOrderCents, &v.ValidFrom, &v.ValidTo, &v.UsageLimit, &v.UsedCount,
		&v.IsActive, &v.CreatedOn, &v.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewVoucherError(domain.VoucherReasonNotFound, "voucher code not found")
	}
	if err != nil {
		return nil, domain.WrapStorage(err, "failed to load voucher")
	}
	return v, nil
}

func (r *voucherRepository) Update(ctx context.Context, v *domain.Voucher) error {
	query := `UPDATE vouchers SET discount_type=$1, discount_value=$2, max_discount_cents=$3, min_order_cents=$4,
	            valid_from=$5, valid_to=$6, usage_limit=$7, is_active=$8, updated_on=$9 WHERE code=$10`
	res, err := r.db.ExecContext(ctx, query, v.DiscountType, v.DiscountValue, v.MaxDiscountCents, v.MinOrderCents,
		v.ValidFrom, v.ValidTo, v.UsageLimit, v.IsActive, time.Now(), v.Code)
	if err != nil {
		return domain.WrapStorage(err, "failed to update voucher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewVoucherError(domain.VoucherReasonNotFound, "voucher code not found")
	}
	return nil
}

// IncrementUsage is a single guarded UPDATE rather than read-then-write, so
// concurrent redemptions cannot push used_count past the limit.
func (r *voucherRepository) IncrementUsage(ctx context.Context, code string) error {
	query := `UPDATE vouchers SET used_count = used_count + 1, updated_on = $1
	          WHERE code = $2 AND (usage_limit IS NULL OR used_count < usage_limit)`
	res, err := r.db.ExecContext(ctx, query, time.Now(), code)
	if err != nil {
		return domain.WrapStorage(err, "failed to increment voucher usage")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewVoucherError(domain.VoucherReasonExhausted, "voucher usage limit reached")
	}
	return nil
}
