package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type ReservationHandler struct {
	reservationSvc service.ReservationService
}

func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

type createReservationRequest struct {
	VehicleID      int32   `json:"vehicle_id"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	StartTime      string  `json:"start_time,omitempty"`
	EndTime        string  `json:"end_time,omitempty"`
	DeliveryOption string  `json:"delivery_option"`
	PickupAddress  string  `json:"pickup_address,omitempty"`
	ReturnAddress  string  `json:"return_address,omitempty"`
	DeliveryFee    float64 `json:"delivery_fee,omitempty"`
	VoucherCode    string  `json:"voucher_code,omitempty"`
}

type reservationResponse struct {
	ReservationID  int32  `json:"reservation_id"`
	Reference      string `json:"reference"`
	Status         string `json:"status"`
	TotalDays      int32  `json:"total_days"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	DeliveryCents  int64  `json:"delivery_fee_cents"`
	DiscountCents  int64  `json:"discount_cents"`
	TotalCents     int64  `json:"total_cents"`
	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ReservationID:  r.ID,
		Reference:      r.Reference,
		Status:         string(r.Status),
		TotalDays:      r.TotalDays,
		SubtotalCents:  r.SubtotalCents,
		DeliveryCents:  r.DeliveryCents,
		DiscountCents:  r.DiscountCents,
		TotalCents:     r.TotalCents,
		PickupLocation: r.PickupLocation,
		ReturnLocation: r.ReturnLocation,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewError(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	reservation, err := h.reservationSvc.CreateReservation(r.Context(), service.CreateReservationRequest{
		VehicleID:      req.VehicleID,
		RenterID:       userIDFromContext(r.Context()),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		DeliveryOption: domain.DeliveryOption(req.DeliveryOption),
		PickupAddress:  req.PickupAddress,
		ReturnAddress:  req.ReturnAddress,
		DeliveryFee:    req.DeliveryFee,
		VoucherCode:    req.VoucherCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReservationResponse(reservation))
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	reservation, err := h.reservationSvc.GetReservation(r.Context(), userIDFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	reservations, total, err := h.reservationSvc.ListReservations(r.Context(), userIDFromContext(r.Context()), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reservations": reservations,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *ReservationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewError(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	reservation, err := h.reservationSvc.TransitionStatus(r.Context(), id, domain.ReservationStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	start, err := queryDate(r, "start")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		writeError(w, err)
		return
	}

	available, err := h.reservationSvc.CheckAvailability(r.Context(), id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle_id": id, "available": available})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewErrorf(domain.ErrInvalidInput, "invalid %s", name)
	}
	return int32(id), nil
}

func queryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, domain.NewErrorf(domain.ErrInvalidInput, "%s is required", name)
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, domain.NewErrorf(domain.ErrInvalidInput, "%s must be formatted as yyyy-mm-dd", name)
	}
	return t, nil
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 && v <= 100 {
			pageSize = int32(v)
		}
	}
	return page, pageSize
}
