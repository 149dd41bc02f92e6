package jobs

import (
	"context"
	"time"

	"motorent-backend/internal/logger"
)

// pollGrace keeps freshly created attempts out of the poll. A renter who just
// opened checkout gets time to finish before the poller asks the provider.
const pollGrace = 10 * time.Minute

// reminderAge is how long a payment stays outstanding before a reminder goes
// out.
const reminderAge = 24 * time.Hour

// PollPendingPayments reconciles every outstanding payment attempt against
// the provider. Webhooks normally settle payments first; this is the safety
// net for deliveries that never arrived.
func (jr *JobRunner) PollPendingPayments() {
	jr.runWithRecovery("PollPendingPayments", func() {
		ctx := context.Background()

		pending, err := jr.store.RentalRepository.ListPendingPayment(ctx, time.Now().Add(-pollGrace))
		if err != nil {
			logger.Error("Failed to list pending payments", "error", err)
			return
		}

		reconciled := 0
		for _, rt := range pending {
			if _, err := jr.services.Payment.ReconcileByAttemptID(ctx, *rt.PaymentAttemptID); err != nil {
				logger.Error("Failed to reconcile payment", "rental_id", rt.ID, "attempt_id", *rt.PaymentAttemptID, "error", err)
				continue
			}
			reconciled++
		}

		logger.Info("Polled pending payments", "total", len(pending), "reconciled", reconciled)
	})
}

// SendPaymentReminders emails renters whose returned rentals have been
// unpaid for longer than reminderAge.
func (jr *JobRunner) SendPaymentReminders() {
	jr.runWithRecovery("SendPaymentReminders", func() {
		ctx := context.Background()

		pending, err := jr.store.RentalRepository.ListPendingPayment(ctx, time.Now().Add(-reminderAge))
		if err != nil {
			logger.Error("Failed to list rentals for reminders", "error", err)
			return
		}

		sent := 0
		for _, rt := range pending {
			renter, err := jr.store.UserRepository.GetByID(ctx, rt.RenterID)
			if err != nil {
				logger.Error("Failed to load renter for reminder", "rental_id", rt.ID, "renter_id", rt.RenterID, "error", err)
				continue
			}
			if err := jr.services.Email.SendPaymentReminder(ctx, renter.Email, renter.Name, &rt); err != nil {
				logger.Error("Failed to send payment reminder", "rental_id", rt.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent payment reminders", "total", len(pending), "sent", sent)
	})
}
