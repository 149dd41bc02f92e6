package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/gateway"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
)

type paymentService struct {
	txm        repository.TxManager
	rentalRepo repository.RentalRepository
	userRepo   repository.UserRepository
	gw         gateway.Gateway
	emailSvc   EmailService
	currency   string
}

func NewPaymentService(
	txm repository.TxManager,
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
	gw gateway.Gateway,
	emailSvc EmailService,
	currency string,
) PaymentService {
	return &paymentService{
		txm:        txm,
		rentalRepo: rentalRepo,
		userRepo:   userRepo,
		gw:         gw,
		emailSvc:   emailSvc,
		currency:   currency,
	}
}

// CreatePaymentForRental opens a fresh checkout attempt at the provider and
// binds its id to the rental. A new attempt against a FAILED rental revives
// it to PENDING; an already-PAID rental is never charged twice.
func (s *paymentService) CreatePaymentForRental(ctx context.Context, caller domain.Caller, rentalID int32) (*gateway.Attempt, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.RenterID != caller.UserID && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !rt.Returned || rt.TotalCostCents == nil {
		return nil, fmt.Errorf("%w: rental %d has no cost yet", domain.ErrConflict, rentalID)
	}
	if rt.PaymentStatus == domain.PaymentStatusPaid {
		return nil, domain.ErrAlreadyPaid
	}

	attempt, err := s.gw.CreateAttempt(ctx, gateway.CreateAttemptRequest{
		AmountCents: *rt.TotalCostCents,
		Currency:    s.currency,
		Description: fmt.Sprintf("Vehicle %d rental for %d day(s)", rt.VehicleID, *rt.RentalDays),
		Metadata: map[string]string{
			"rental_id": fmt.Sprintf("%d", rt.ID),
			"renter_id": fmt.Sprintf("%d", rt.RenterID),
		},
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.applyTransition(ctx, rt.ID, attempt.ID, domain.PaymentStatusPending, false); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// a webhook confirmed the payment while the attempt was being
			// created; the new attempt is abandoned
			return nil, domain.ErrAlreadyPaid
		}
		return nil, err
	}

	logger.Info("Payment attempt created", "rental_id", rt.ID, "attempt_id", attempt.ID)
	return attempt, nil
}

// ReconcileByAttemptID asks the provider for the attempt's current status and
// applies it. A gateway failure leaves local state untouched.
func (s *paymentService) ReconcileByAttemptID(ctx context.Context, attemptID string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByAttemptID(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	status, err := s.gw.GetStatus(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	updated, err := s.applyTransition(ctx, rt.ID, attemptID, toPaymentStatus(status), false)
	if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrStaleUpdate) {
		// out-of-order delivery, not a caller bug; the record stands
		logger.Warn("Stale payment poll ignored", "rental_id", rt.ID, "attempt_id", attemptID, "proposed", status)
		return updated, nil
	}
	return updated, err
}

// HandleProviderEvent applies a verified, normalized webhook event. The
// provider delivers at least once; re-applying a PAID event is a no-op. The
// rental lock is taken without waiting: on ErrBusy the caller answers non-2xx
// and the provider's redelivery retries later instead of a handler queueing
// on the row.
func (s *paymentService) HandleProviderEvent(ctx context.Context, ev *gateway.Event) error {
	rt, err := s.rentalRepo.GetByAttemptID(ctx, ev.AttemptID)
	if err != nil {
		return fmt.Errorf("event %s: %w", ev.ID, err)
	}

	_, err = s.applyTransition(ctx, rt.ID, ev.AttemptID, toPaymentStatus(ev.Status), true)
	if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrStaleUpdate) {
		logger.Warn("Out-of-order provider event ignored",
			"rental_id", rt.ID, "event_id", ev.ID, "event_type", ev.Type, "proposed", ev.Status)
		return nil
	}
	return err
}

// SetStatus is the administrative override. It runs through the same
// transition table as poll and webhook, so even an admin cannot downgrade a
// PAID rental.
func (s *paymentService) SetStatus(ctx context.Context, caller domain.Caller, rentalID int32, attemptID string, forcePaid bool) (*domain.Rental, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	proposed := domain.PaymentStatusFailed
	if forcePaid {
		proposed = domain.PaymentStatusPaid
	}
	rt, err := s.applyTransition(ctx, rentalID, attemptID, proposed, false)
	if err == nil {
		logger.Info("Payment status set manually", "rental_id", rentalID, "status", proposed, "admin_id", caller.UserID)
	}
	return rt, err
}

// applyTransition is the single serialized update path. It locks the rental
// row, decides the transition against the current status, and writes the
// result before releasing the lock, so poll, webhook and manual updates for
// one rental can never interleave their read-decide-write sequences.
//
// Transition table:
//
//	* -> PAID            applied; PAID is absorbing, re-application is a no-op
//	PENDING -> FAILED    applied
//	FAILED  -> PENDING   applied only with a new attempt id, else ErrStaleUpdate
//	PAID    -> anything  ErrInvalidTransition
//
// With lockNoWait the row lock is not queued for; a held lock surfaces as
// domain.ErrBusy.
func (s *paymentService) applyTransition(ctx context.Context, rentalID int32, attemptID string, proposed domain.PaymentStatus, lockNoWait bool) (*domain.Rental, error) {
	var result *domain.Rental
	var becamePaid bool

	lock := s.rentalRepo.GetByIDForUpdate
	if lockNoWait {
		lock = s.rentalRepo.GetByIDForUpdateNoWait
	}

	err := s.txm.WithinTx(ctx, func(tx *sql.Tx) error {
		rt, err := lock(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		result = rt

		newAttempt := attemptID != "" && (rt.PaymentAttemptID == nil || *rt.PaymentAttemptID != attemptID)
		var attemptPtr *string
		if newAttempt {
			attemptPtr = &attemptID
		}

		switch {
		case rt.PaymentStatus == domain.PaymentStatusPaid:
			if proposed == domain.PaymentStatusPaid {
				return nil
			}
			return domain.ErrInvalidTransition

		case proposed == domain.PaymentStatusPaid:
			becamePaid = true

		case proposed == domain.PaymentStatusFailed:
			if rt.PaymentStatus == domain.PaymentStatusFailed && !newAttempt {
				return nil
			}

		case proposed == domain.PaymentStatusPending:
			if rt.PaymentStatus == domain.PaymentStatusFailed && !newAttempt {
				return domain.ErrStaleUpdate
			}
			if rt.PaymentStatus == domain.PaymentStatusPending && !newAttempt {
				return nil
			}
		}

		if err := s.rentalRepo.UpdatePaymentTx(ctx, tx, rt.ID, proposed, attemptPtr); err != nil {
			return err
		}
		rt.PaymentStatus = proposed
		if newAttempt {
			id := attemptID
			rt.PaymentAttemptID = &id
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	if becamePaid {
		logger.Info("Rental paid", "rental_id", result.ID, "attempt_id", attemptID)
		s.sendReceipt(ctx, result)
	}
	return result, nil
}

// sendReceipt fires exactly once, on the edge into PAID. Failures are logged,
// never propagated: the payment itself already succeeded.
func (s *paymentService) sendReceipt(ctx context.Context, rt *domain.Rental) {
	renter, err := s.userRepo.GetByID(ctx, rt.RenterID)
	if err != nil {
		logger.Error("Failed to load renter for receipt", "rental_id", rt.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendPaymentReceipt(ctx, renter.Email, renter.Name, rt); err != nil {
		logger.Error("Failed to send payment receipt", "rental_id", rt.ID, "error", err)
	}
}

func toPaymentStatus(st gateway.ExternalStatus) domain.PaymentStatus {
	switch st {
	case gateway.StatusPaid:
		return domain.PaymentStatusPaid
	case gateway.StatusFailed:
		return domain.PaymentStatusFailed
	default:
		return domain.PaymentStatusPending
	}
}
