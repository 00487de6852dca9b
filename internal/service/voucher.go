package service

import (
	"context"
	"strings"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
	"driveshare-backend/internal/utils"
)

type voucherService struct {
	voucherRepo repository.VoucherRepository
	clock       Clock
}

func NewVoucherService(voucherRepo repository.VoucherRepository, clock Clock) VoucherService {
	return &voucherService{voucherRepo: voucherRepo, clock: clock}
}

// ApplyVoucher runs the eligibility checks in order and short-circuits at
// the first failure: existence and active flag, validity window, usage
// limit, minimum order amount. A discount is never partially applied.
func (s *voucherService) ApplyVoucher(ctx context.Context, code string, subtotalCents int64) (int64, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, "", domain.NewVoucherError(domain.VoucherReasonNotFound, "voucher code is empty")
	}

	v, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return 0, "", err
	}
	if !v.IsActive {
		return 0, "", domain.NewVoucherError(domain.VoucherReasonNotFound, "voucher is inactive")
	}

	now := s.clock.Now()
	if now.Before(v.ValidFrom) {
		return 0, "", domain.NewVoucherError(domain.VoucherReasonNotYetActive, "voucher is not yet active")
	}
	if now.After(v.ValidTo) {
		return 0, "", domain.NewVoucherError(domain.VoucherReasonExpired, "voucher has expired")
	}

	if v.Exhausted() {
		return 0, "", domain.NewVoucherError(domain.VoucherReasonExhausted, "voucher usage limit reached")
	}

	if subtotalCents < v.MinOrderCents {
		return 0, "", domain.NewVoucherError(domain.VoucherReasonBelowMinimum, "subtotal is below the voucher minimum")
	}

	return utils.ComputeDiscount(v, subtotalCents), v.Code, nil
}

func (s *voucherService) CreateVoucher(ctx context.Context, v *domain.Voucher) error {
	v.Code = strings.TrimSpace(v.Code)
	if v.Code == "" {
		return domain.NewError(domain.ErrInvalidInput, "voucher code is required")
	}
	if v.DiscountType != domain.DiscountTypePercent && v.DiscountType != domain.DiscountTypeAmount {
		return domain.NewErrorf(domain.ErrInvalidInput, "unknown discount type %q", v.DiscountType)
	}
	if v.DiscountValue <= 0 {
		return domain.NewError(domain.ErrInvalidInput, "discount value must be positive")
	}
	if v.DiscountType == domain.DiscountTypeAmount && v.MaxDiscountCents != nil {
		return domain.NewError(domain.ErrInvalidInput, "max discount cap only applies to percent vouchers")
	}
	if !v.ValidTo.After(v.ValidFrom) {
		return domain.NewError(domain.ErrInvalidInput, "voucher validity window is empty")
	}
	return s.voucherRepo.Create(ctx, v)
}

func (s *voucherService) GetVoucher(ctx context.Context, code string) (*domain.Voucher, error) {
	return s.voucherRepo.GetByCode(ctx, code)
}

func (s *voucherService) DeactivateVoucher(ctx context.Context, code string) error {
	v, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	v.IsActive = false
	return s.voucherRepo.Update(ctx, v)
}
