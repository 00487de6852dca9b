package domain

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusUnavailable VehicleStatus = "UNAVAILABLE"
)

type Vehicle struct {
	ID             int32         `json:"id"`
	OwnerID        int32         `json:"owner_id"`
	Name           string        `json:"name"`
	Make           string        `json:"make"`
	Model          string        `json:"model"`
	LicensePlate   string        `json:"license_plate"`
	DailyRateCents int64         `json:"daily_rate_cents"`
	PickupLocation string        `json:"pickup_location"`
	Status         VehicleStatus `json:"status"`
	CreatedOn      string        `json:"created_on"`
	DeletedOn      *string       `json:"deleted_on,omitempty"`
}
