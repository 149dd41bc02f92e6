package service

import (
	"context"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/gateway"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

// UserService is the administrative user surface. Role grants are how a
// fresh deployment gets its first admin promoted from a signed-up renter.
type UserService interface {
	ListUsers(ctx context.Context, caller domain.Caller) ([]domain.User, error)
	GetUser(ctx context.Context, caller domain.Caller, id int32) (*domain.User, error)
	GrantRole(ctx context.Context, caller domain.Caller, userID int32, role string) (*domain.User, error)
	RevokeRole(ctx context.Context, caller domain.Caller, userID int32, role string) (*domain.User, error)
}

type VehicleService interface {
	AddVehicle(ctx context.Context, caller domain.Caller, v *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, caller domain.Caller, id int32) error
	ListAvailable(ctx context.Context) ([]domain.Vehicle, error)
	ListRented(ctx context.Context) ([]domain.Vehicle, error)
	ListDeleted(ctx context.Context) ([]domain.Vehicle, error)
}

type RentalService interface {
	Rent(ctx context.Context, vehicleID, renterID int32) (*domain.Rental, error)
	ReturnRental(ctx context.Context, caller domain.Caller, vehicleID int32) (*domain.Rental, error)
	GetRental(ctx context.Context, id int32) (*domain.Rental, error)
	ListActive(ctx context.Context) ([]domain.Rental, error)
	ListHistory(ctx context.Context) ([]domain.Rental, error)
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error)
	ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Rental, error)
}

// PaymentService reconciles local payment status with the provider. All three
// entry points (poll, webhook, manual) funnel into one serialized transition
// path per rental.
type PaymentService interface {
	CreatePaymentForRental(ctx context.Context, caller domain.Caller, rentalID int32) (*gateway.Attempt, error)
	ReconcileByAttemptID(ctx context.Context, attemptID string) (*domain.Rental, error)
	HandleProviderEvent(ctx context.Context, ev *gateway.Event) error
	SetStatus(ctx context.Context, caller domain.Caller, rentalID int32, attemptID string, forcePaid bool) (*domain.Rental, error)
}

type EmailService interface {
	SendPaymentReceipt(ctx context.Context, toEmail, toName string, rt *domain.Rental) error
	SendPaymentReminder(ctx context.Context, toEmail, toName string, rt *domain.Rental) error
}
