package service

import (
	"context"
	"testing"
	"time"

	"motorent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func availableVehicle(id int32, rateCents int64) *domain.Vehicle {
	return &domain.Vehicle{
		ID:             id,
		Kind:           domain.VehicleKindCar,
		Brand:          "Toyota",
		Model:          "Yaris",
		Plate:          "WA12345",
		DailyRateCents: rateCents,
	}
}

func TestRentalService_Rent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 8, 11, 30, 45, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: now})

		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(availableVehicle(7, 10000), nil).Once()
		rentalRepo.On("CreateTx", ctx, mock.Anything, mock.MatchedBy(func(rt *domain.Rental) bool {
			// rent start is truncated to the minute
			return rt.VehicleID == 7 && rt.RenterID == 1 &&
				rt.PaymentStatus == domain.PaymentStatusPending &&
				rt.RentStart.Equal(time.Date(2025, 6, 8, 11, 30, 0, 0, time.UTC))
		})).Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Rental).ID = 42
		}).Return(nil).Once()
		vehicleRepo.On("SetRentedTx", ctx, mock.Anything, int32(7), true).Return(nil).Once()

		rt, err := svc.Rent(ctx, 7, 1)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), rt.ID)
		rentalRepo.AssertExpectations(t)
		vehicleRepo.AssertExpectations(t)
	})

	t.Run("VehicleAlreadyRented", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: now})

		v := availableVehicle(7, 10000)
		v.Rented = true
		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).Return(v, nil).Once()

		_, err := svc.Rent(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrConflict)
		rentalRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("VehicleDeleted", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: now})

		v := availableVehicle(7, 10000)
		v.Deleted = true
		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).Return(v, nil).Once()

		_, err := svc.Rent(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("VehicleNotFound", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: now})

		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(nil, domain.ErrNotFound).Once()

		_, err := svc.Rent(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalService_ReturnRental(t *testing.T) {
	ctx := context.Background()
	renter := domain.Caller{UserID: 1, Roles: []string{domain.RoleRenter}}

	t.Run("CostUsesRateAtReturn", func(t *testing.T) {
		start := time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)
		// 49 hours later: two full days
		now := start.Add(49 * time.Hour)

		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: now})

		v := availableVehicle(7, 10000)
		v.Rented = true
		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).Return(v, nil).Once()
		rentalRepo.On("GetActiveByVehicleIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(&domain.Rental{ID: 42, VehicleID: 7, RenterID: 1, RentStart: start, PaymentStatus: domain.PaymentStatusPending}, nil).Once()
		rentalRepo.On("UpdateReturnTx", ctx, mock.Anything, mock.MatchedBy(func(rt *domain.Rental) bool {
			return rt.Returned && *rt.RentalDays == 2 && *rt.TotalCostCents == 20000
		})).Return(nil).Once()
		vehicleRepo.On("SetRentedTx", ctx, mock.Anything, int32(7), false).Return(nil).Once()

		rt, err := svc.ReturnRental(ctx, renter, 7)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), *rt.RentalDays)
		assert.Equal(t, int64(20000), *rt.TotalCostCents)
		assert.Equal(t, domain.PaymentStatusPending, rt.PaymentStatus)
		rentalRepo.AssertExpectations(t)
		vehicleRepo.AssertExpectations(t)
	})

	t.Run("SameDayReturnChargesOneDay", func(t *testing.T) {
		start := time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)
		now := start.Add(45 * time.Minute)

		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: now})

		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(availableVehicle(7, 15000), nil).Once()
		rentalRepo.On("GetActiveByVehicleIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(&domain.Rental{ID: 42, VehicleID: 7, RenterID: 1, RentStart: start, PaymentStatus: domain.PaymentStatusPending}, nil).Once()
		rentalRepo.On("UpdateReturnTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		vehicleRepo.On("SetRentedTx", ctx, mock.Anything, int32(7), false).Return(nil).Once()

		rt, err := svc.ReturnRental(ctx, renter, 7)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), *rt.RentalDays)
		assert.Equal(t, int64(15000), *rt.TotalCostCents)
	})

	t.Run("ForbiddenForOtherRenter", func(t *testing.T) {
		start := time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)

		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: start.Add(time.Hour)})

		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(availableVehicle(7, 10000), nil).Once()
		rentalRepo.On("GetActiveByVehicleIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(&domain.Rental{ID: 42, VehicleID: 7, RenterID: 2, RentStart: start}, nil).Once()

		_, err := svc.ReturnRental(ctx, renter, 7)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		rentalRepo.AssertNotCalled(t, "UpdateReturnTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AdminCanReturnForRenter", func(t *testing.T) {
		start := time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)
		admin := domain.Caller{UserID: 5, Roles: []string{domain.RoleAdmin}}

		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: start.Add(time.Hour)})

		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(availableVehicle(7, 10000), nil).Once()
		rentalRepo.On("GetActiveByVehicleIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(&domain.Rental{ID: 42, VehicleID: 7, RenterID: 2, RentStart: start}, nil).Once()
		rentalRepo.On("UpdateReturnTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		vehicleRepo.On("SetRentedTx", ctx, mock.Anything, int32(7), false).Return(nil).Once()

		_, err := svc.ReturnRental(ctx, admin, 7)
		assert.NoError(t, err)
	})

	t.Run("NoActiveRental", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		vehicleRepo := new(MockVehicleRepo)
		svc := NewRentalService(fakeTxManager{}, rentalRepo, vehicleRepo, fixedClock{now: time.Now()})

		vehicleRepo.On("GetByIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(availableVehicle(7, 10000), nil).Once()
		rentalRepo.On("GetActiveByVehicleIDForUpdate", ctx, mock.Anything, int32(7)).
			Return(nil, domain.ErrNotFound).Once()

		_, err := svc.ReturnRental(ctx, renter, 7)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
