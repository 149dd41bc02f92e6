package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, kind, brand, model, year, plate, daily_rate_cents, licence_category, rented, deleted, created_on`

func scanVehicle(row interface{ Scan(...any) error }) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(&v.ID, &v.Kind, &v.Brand, &v.Model, &v.Year, &v.Plate, &v.DailyRateCents, &v.LicenceCategory, &v.Rented, &v.Deleted, &v.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (kind, brand, model, year, plate, daily_rate_cents, licence_category, rented, deleted, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, false, false, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query, v.Kind, v.Brand, v.Model, v.Year, v.Plate, v.DailyRateCents, v.LicenceCategory, time.Now()).Scan(&v.ID)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return scanVehicle(r.db.QueryRowContext(ctx, query, id))
}

func (r *vehicleRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 FOR UPDATE`
	return scanVehicle(tx.QueryRowContext(ctx, query, id))
}

func (r *vehicleRepository) SetRentedTx(ctx context.Context, tx *sql.Tx, id int32, rented bool) error {
	res, err := tx.ExecContext(ctx, `UPDATE vehicles SET rented = $1 WHERE id = $2`, rented, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) SoftDelete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET deleted = true WHERE id = $1 AND deleted = false`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) ListAvailable(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE rented = false AND deleted = false ORDER BY id`
	return r.list(ctx, query)
}

func (r *vehicleRepository) ListRented(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE rented = true AND deleted = false ORDER BY id`
	return r.list(ctx, query)
}

func (r *vehicleRepository) ListDeleted(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE deleted = true ORDER BY id`
	return r.list(ctx, query)
}

func (r *vehicleRepository) list(ctx context.Context, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Kind, &v.Brand, &v.Model, &v.Year, &v.Plate, &v.DailyRateCents, &v.LicenceCategory, &v.Rented, &v.Deleted, &v.CreatedOn); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
