package http

import (
	"net/http"

	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires all HTTP routes. Everything under /api/v1 requires a
// bearer token except the health endpoint.
func NewRouter(
	reservationSvc service.ReservationService,
	vehicleSvc service.VehicleService,
	voucherSvc service.VoucherService,
	tokenManager security.TokenManager,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	auth := NewAuthMiddleware(tokenManager)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Handler)

	reservations := NewReservationHandler(reservationSvc)
	api.HandleFunc("/reservations", reservations.Create).Methods(http.MethodPost)
	api.HandleFunc("/reservations", reservations.List).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", reservations.Get).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}/status", reservations.Transition).Methods(http.MethodPost)

	vehicles := NewVehicleHandler(vehicleSvc)
	api.HandleFunc("/vehicles", vehicles.Create).Methods(http.MethodPost)
	api.HandleFunc("/vehicles", vehicles.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", vehicles.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", vehicles.Update).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id}/availability", reservations.Availability).Methods(http.MethodGet)

	vouchers := NewVoucherHandler(voucherSvc)
	api.HandleFunc("/vouchers", auth.RequireAdmin(vouchers.Create)).Methods(http.MethodPost)
	api.HandleFunc("/vouchers/{code}", vouchers.Get).Methods(http.MethodGet)
	api.HandleFunc("/vouchers/{code}", auth.RequireAdmin(vouchers.Deactivate)).Methods(http.MethodDelete)

	return r
}
