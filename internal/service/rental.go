package service

import (
	"context"
	"database/sql"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/pricing"
	"motorent-backend/internal/repository"
)

type rentalService struct {
	txm         repository.TxManager
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	clock       pricing.Clock
}

func NewRentalService(
	txm repository.TxManager,
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	clock pricing.Clock,
) RentalService {
	return &rentalService{
		txm:         txm,
		rentalRepo:  rentalRepo,
		vehicleRepo: vehicleRepo,
		clock:       clock,
	}
}

// Rent creates a rental and flips the vehicle to rented in one transaction.
// The vehicle row lock makes concurrent rent calls on the same vehicle
// serialize: the loser observes rented=true and gets ErrConflict.
func (s *rentalService) Rent(ctx context.Context, vehicleID, renterID int32) (*domain.Rental, error) {
	var created *domain.Rental
	err := s.txm.WithinTx(ctx, func(tx *sql.Tx) error {
		vehicle, err := s.vehicleRepo.GetByIDForUpdate(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		if vehicle.Deleted || vehicle.Rented {
			return domain.ErrConflict
		}

		rt := &domain.Rental{
			VehicleID:     vehicleID,
			RenterID:      renterID,
			RentStart:     pricing.TruncateToMinute(s.clock.Now()),
			PaymentStatus: domain.PaymentStatusPending,
		}
		if err := s.rentalRepo.CreateTx(ctx, tx, rt); err != nil {
			return err
		}
		if err := s.vehicleRepo.SetRentedTx(ctx, tx, vehicleID, true); err != nil {
			return err
		}
		created = rt
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Vehicle rented", "vehicle_id", vehicleID, "renter_id", renterID, "rental_id", created.ID)
	return created, nil
}

// ReturnRental closes the active rental for a vehicle. The caller must be the
// renter or an admin. The total cost uses the vehicle's daily rate as read at
// return time, inside the same transaction.
func (s *rentalService) ReturnRental(ctx context.Context, caller domain.Caller, vehicleID int32) (*domain.Rental, error) {
	var returned *domain.Rental
	err := s.txm.WithinTx(ctx, func(tx *sql.Tx) error {
		vehicle, err := s.vehicleRepo.GetByIDForUpdate(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		rt, err := s.rentalRepo.GetActiveByVehicleIDForUpdate(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		if rt.RenterID != caller.UserID && !caller.IsAdmin() {
			return domain.ErrForbidden
		}

		end := pricing.TruncateToMinute(s.clock.Now())
		days := pricing.RentalDays(rt.RentStart, end)
		cost := pricing.TotalCostCents(vehicle.DailyRateCents, days)

		rt.RentEnd = &end
		rt.Returned = true
		rt.RentalDays = &days
		rt.TotalCostCents = &cost
		rt.PaymentStatus = domain.PaymentStatusPending

		if err := s.rentalRepo.UpdateReturnTx(ctx, tx, rt); err != nil {
			return err
		}
		if err := s.vehicleRepo.SetRentedTx(ctx, tx, vehicleID, false); err != nil {
			return err
		}
		returned = rt
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Vehicle returned", "vehicle_id", vehicleID, "rental_id", returned.ID,
		"rental_days", *returned.RentalDays, "total_cost_cents", *returned.TotalCostCents)
	return returned, nil
}

func (s *rentalService) GetRental(ctx context.Context, id int32) (*domain.Rental, error) {
	return s.rentalRepo.GetByID(ctx, id)
}

func (s *rentalService) ListActive(ctx context.Context) ([]domain.Rental, error) {
	return s.rentalRepo.ListActive(ctx)
}

func (s *rentalService) ListHistory(ctx context.Context) ([]domain.Rental, error) {
	return s.rentalRepo.ListHistory(ctx)
}

func (s *rentalService) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error) {
	return s.rentalRepo.ListByRenter(ctx, renterID)
}

func (s *rentalService) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Rental, error) {
	return s.rentalRepo.ListByVehicle(ctx, vehicleID)
}
