package domain

import "time"

type VehicleKind string

const (
	VehicleKindCar        VehicleKind = "CAR"
	VehicleKindMotorcycle VehicleKind = "MOTORCYCLE"
)

type Vehicle struct {
	ID             int32       `json:"id"`
	Kind           VehicleKind `json:"kind"`
	Brand          string      `json:"brand"`
	Model          string      `json:"model"`
	Year           int32       `json:"year"`
	Plate          string      `json:"plate"`
	DailyRateCents int64       `json:"daily_rate_cents"`
	// LicenceCategory is only meaningful for motorcycles (e.g. "A", "A2").
	// Empty for cars.
	LicenceCategory string    `json:"licence_category,omitempty"`
	Rented          bool      `json:"rented"`
	Deleted         bool      `json:"deleted"`
	CreatedOn       time.Time `json:"created_on"`
}
