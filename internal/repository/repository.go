package repository

import (
	"context"
	"database/sql"
	"time"

	"motorent-backend/internal/domain"
)

// TxManager runs a function inside a database transaction, committing on nil
// and rolling back on error. Row locks taken inside fn are held until the
// transaction ends.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	// GetByIDForUpdate locks the vehicle row for the duration of tx. rent()
	// and returnRental() go through this so two concurrent calls on the same
	// vehicle serialize.
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Vehicle, error)
	SetRentedTx(ctx context.Context, tx *sql.Tx, id int32, rented bool) error
	SoftDelete(ctx context.Context, id int32) error
	ListAvailable(ctx context.Context) ([]domain.Vehicle, error)
	ListRented(ctx context.Context) ([]domain.Vehicle, error)
	ListDeleted(ctx context.Context) ([]domain.Vehicle, error)
}

type RentalRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// GetByIDForUpdate locks the rental row. The reconciler holds this lock
	// across read-decide-write for every payment status transition.
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Rental, error)
	// GetByIDForUpdateNoWait locks like GetByIDForUpdate but fails with
	// domain.ErrBusy instead of queueing when the row is already locked. The
	// webhook path uses it so the provider's redelivery acts as the retry.
	GetByIDForUpdateNoWait(ctx context.Context, tx *sql.Tx, id int32) (*domain.Rental, error)
	GetByAttemptID(ctx context.Context, attemptID string) (*domain.Rental, error)
	GetActiveByVehicleIDForUpdate(ctx context.Context, tx *sql.Tx, vehicleID int32) (*domain.Rental, error)
	UpdateReturnTx(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error
	UpdatePaymentTx(ctx context.Context, tx *sql.Tx, id int32, status domain.PaymentStatus, attemptID *string) error
	ListActive(ctx context.Context) ([]domain.Rental, error)
	ListHistory(ctx context.Context) ([]domain.Rental, error)
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error)
	ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Rental, error)
	// ListPendingPayment returns returned rentals still PENDING whose attempt
	// id is set and that were returned before cutoff. Feeds the poller.
	ListPendingPayment(ctx context.Context, cutoff time.Time) ([]domain.Rental, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRoles(ctx context.Context, id int32, roles []string) error
}
