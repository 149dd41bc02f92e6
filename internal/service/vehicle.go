package service

import (
	"context"
	"errors"
	"fmt"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
)

var ErrInvalidVehicle = errors.New("invalid vehicle")

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo}
}

func (s *vehicleService) AddVehicle(ctx context.Context, caller domain.Caller, v *domain.Vehicle) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if v.Plate == "" || v.Brand == "" || v.Model == "" {
		return fmt.Errorf("%w: plate, brand and model are required", ErrInvalidVehicle)
	}
	if v.DailyRateCents <= 0 {
		return fmt.Errorf("%w: daily rate must be positive", ErrInvalidVehicle)
	}
	switch v.Kind {
	case domain.VehicleKindCar:
		v.LicenceCategory = ""
	case domain.VehicleKindMotorcycle:
		if v.LicenceCategory == "" {
			return fmt.Errorf("%w: motorcycles require a licence category", ErrInvalidVehicle)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidVehicle, v.Kind)
	}

	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return err
	}
	logger.Info("Vehicle added", "vehicle_id", v.ID, "kind", v.Kind, "plate", v.Plate)
	return nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// DeleteVehicle soft-deletes. Vehicles are never physically removed so
// rental history keeps a valid reference.
func (s *vehicleService) DeleteVehicle(ctx context.Context, caller domain.Caller, id int32) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.Rented {
		return fmt.Errorf("%w: vehicle %d is currently rented", domain.ErrConflict, id)
	}
	return s.vehicleRepo.SoftDelete(ctx, id)
}

func (s *vehicleService) ListAvailable(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListAvailable(ctx)
}

func (s *vehicleService) ListRented(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListRented(ctx)
}

func (s *vehicleService) ListDeleted(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListDeleted(ctx)
}
