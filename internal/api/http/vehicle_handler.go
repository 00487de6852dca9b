package http

import (
	"encoding/json"
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

type vehicleRequest struct {
	Name           string `json:"name"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	LicensePlate   string `json:"license_plate"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	PickupLocation string `json:"pickup_location"`
	Status         string `json:"status,omitempty"`
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewError(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	vehicle := &domain.Vehicle{
		OwnerID:        userIDFromContext(r.Context()),
		Name:           req.Name,
		Make:           req.Make,
		Model:          req.Model,
		LicensePlate:   req.LicensePlate,
		DailyRateCents: req.DailyRateCents,
		PickupLocation: req.PickupLocation,
		Status:         domain.VehicleStatus(req.Status),
	}
	if err := h.vehicleSvc.AddVehicle(r.Context(), vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	vehicle, err := h.vehicleSvc.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewError(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	vehicle := &domain.Vehicle{
		ID:             id,
		Name:           req.Name,
		Make:           req.Make,
		Model:          req.Model,
		LicensePlate:   req.LicensePlate,
		DailyRateCents: req.DailyRateCents,
		PickupLocation: req.PickupLocation,
		Status:         domain.VehicleStatus(req.Status),
	}
	if err := h.vehicleSvc.UpdateVehicle(r.Context(), userIDFromContext(r.Context()), vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	vehicles, total, err := h.vehicleSvc.ListMyVehicles(r.Context(), userIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vehicles":  vehicles,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
