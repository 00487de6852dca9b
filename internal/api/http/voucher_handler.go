package http

import (
	"encoding/json"
	"net/http"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type VoucherHandler struct {
	voucherSvc service.VoucherService
}

func NewVoucherHandler(voucherSvc service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherSvc: voucherSvc}
}

type createVoucherRequest struct {
	Code             string `json:"code"`
	DiscountType     string `json:"discount_type"`
	DiscountValue    int64  `json:"discount_value"`
	MaxDiscountCents *int64 `json:"max_discount_cents,omitempty"`
	MinOrderCents    int64  `json:"min_order_cents"`
	ValidFrom        string `json:"valid_from"`
	ValidTo          string `json:"valid_to"`
	UsageLimit       *int32 `json:"usage_limit,omitempty"`
}

func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewError(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		writeError(w, domain.NewError(domain.ErrInvalidInput, "valid_from must be formatted as yyyy-mm-dd"))
		return
	}
	validTo, err := time.Parse("2006-01-02", req.ValidTo)
	if err != nil {
		writeError(w, domain.NewError(domain.ErrInvalidInput, "valid_to must be formatted as yyyy-mm-dd"))
		return
	}

	voucher := &domain.Voucher{
		Code:             req.Code,
		DiscountType:     domain.DiscountType(req.DiscountType),
		DiscountValue:    req.DiscountValue,
		MaxDiscountCents: req.MaxDiscountCents,
		MinOrderCents:    req.MinOrderCents,
		ValidFrom:        validFrom,
		ValidTo:          validTo.Add(24*time.Hour - time.Second), // inclusive end of day
		UsageLimit:       req.UsageLimit,
		IsActive:         true,
	}
	if err := h.voucherSvc.CreateVoucher(r.Context(), voucher); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, voucher)
}

func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	voucher, err := h.voucherSvc.GetVoucher(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voucher)
}

func (h *VoucherHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.voucherSvc.DeactivateVoucher(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code, "status": "deactivated"})
}
