package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/repository"

	"github.com/lib/pq"
)

const lockNotAvailable = pq.ErrorCode("55P03")

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, vehicle_id, renter_id, rent_start, rent_end, returned, rental_days, total_cost_cents, payment_status, payment_attempt_id, created_on, updated_on`

func scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.VehicleID, &rt.RenterID, &rt.RentStart, &rt.RentEnd, &rt.Returned, &rt.RentalDays, &rt.TotalCostCents, &rt.PaymentStatus, &rt.PaymentAttemptID, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) CreateTx(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
	query := `INSERT INTO rentals (vehicle_id, renter_id, rent_start, returned, payment_status, created_on, updated_on)
	          VALUES ($1, $2, $3, false, $4, $5, $6) RETURNING id`
	now := time.Now()
	return tx.QueryRowContext(ctx, query, rt.VehicleID, rt.RenterID, rt.RentStart, rt.PaymentStatus, now, now).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	return scanRental(r.db.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE`
	return scanRental(tx.QueryRowContext(ctx, query, id))
}

func (r *rentalRepository) GetByIDForUpdateNoWait(ctx context.Context, tx *sql.Tx, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE NOWAIT`
	rt, err := scanRental(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == lockNotAvailable {
			return nil, domain.ErrBusy
		}
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) GetByAttemptID(ctx context.Context, attemptID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE payment_attempt_id = $1`
	return scanRental(r.db.QueryRowContext(ctx, query, attemptID))
}

func (r *rentalRepository) GetActiveByVehicleIDForUpdate(ctx context.Context, tx *sql.Tx, vehicleID int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE vehicle_id = $1 AND returned = false FOR UPDATE`
	return scanRental(tx.QueryRowContext(ctx, query, vehicleID))
}

func (r *rentalRepository) UpdateReturnTx(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
	query := `UPDATE rentals SET rent_end = $1, returned = $2, rental_days = $3, total_cost_cents = $4, payment_status = $5, updated_on = $6 WHERE id = $7`
	_, err := tx.ExecContext(ctx, query, rt.RentEnd, rt.Returned, rt.RentalDays, rt.TotalCostCents, rt.PaymentStatus, time.Now(), rt.ID)
	return err
}

func (r *rentalRepository) UpdatePaymentTx(ctx context.Context, tx *sql.Tx, id int32, status domain.PaymentStatus, attemptID *string) error {
	query := `UPDATE rentals SET payment_status = $1, payment_attempt_id = COALESCE($2, payment_attempt_id), updated_on = $3 WHERE id = $4`
	_, err := tx.ExecContext(ctx, query, status, attemptID, time.Now(), id)
	return err
}

func (r *rentalRepository) ListActive(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE returned = false ORDER BY rent_start DESC`
	return r.list(ctx, query)
}

func (r *rentalRepository) ListHistory(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE returned = true ORDER BY rent_end DESC`
	return r.list(ctx, query)
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE renter_id = $1 ORDER BY rent_start DESC`
	return r.list(ctx, query, renterID)
}

func (r *rentalRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE vehicle_id = $1 ORDER BY rent_start DESC`
	return r.list(ctx, query, vehicleID)
}

func (r *rentalRepository) ListPendingPayment(ctx context.Context, cutoff time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE returned = true AND payment_status = $1 AND payment_attempt_id IS NOT NULL AND rent_end < $2
	          ORDER BY rent_end`
	return r.list(ctx, query, domain.PaymentStatusPending, cutoff)
}

func (r *rentalRepository) list(ctx context.Context, query string, args ...any) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(&rt.ID, &rt.VehicleID, &rt.RenterID, &rt.RentStart, &rt.RentEnd, &rt.Returned, &rt.RentalDays, &rt.TotalCostCents, &rt.PaymentStatus, &rt.PaymentAttemptID, &rt.CreatedOn, &rt.UpdatedOn); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
