package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type Rental struct {
	ID        int32     `json:"id"`
	VehicleID int32     `json:"vehicle_id"`
	RenterID  int32     `json:"renter_id"`
	RentStart time.Time `json:"rent_start"`
	// RentEnd, RentalDays and TotalCostCents are nil until the rental is
	// returned; once Returned is true all three are set.
	RentEnd        *time.Time    `json:"rent_end,omitempty"`
	Returned       bool          `json:"returned"`
	RentalDays     *int32        `json:"rental_days,omitempty"`
	TotalCostCents *int64        `json:"total_cost_cents,omitempty"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	// PaymentAttemptID is the provider's identifier for the currently active
	// payment attempt. A re-attempt overwrites it.
	PaymentAttemptID *string   `json:"payment_attempt_id,omitempty"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}
