package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/gateway"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/service"
)

const maxWebhookBody = 1 << 16

// EventDeduper remembers provider event ids across deliveries. Satisfied by
// eventcache.Cache.
type EventDeduper interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

type PaymentHandler struct {
	svc           service.PaymentService
	events        EventDeduper
	webhookSecret string
}

func NewPaymentHandler(svc service.PaymentService, events EventDeduper, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{svc: svc, events: events, webhookSecret: webhookSecret}
}

type checkoutResponse struct {
	AttemptID   string `json:"attempt_id"`
	RedirectURL string `json:"redirect_url"`
}

// Checkout opens a payment attempt for a returned rental and hands back the
// provider's redirect URL.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	rentalID, ok := pathID(w, r, "rentalId")
	if !ok {
		return
	}

	attempt, err := h.svc.CreatePaymentForRental(r.Context(), caller, rentalID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, checkoutResponse{AttemptID: attempt.ID, RedirectURL: attempt.RedirectURL})
}

// Status polls the provider for the attempt's current state and returns the
// reconciled rental.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	attemptID := r.URL.Query().Get("attempt_id")
	if attemptID == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "attempt_id is required"})
		return
	}

	rt, err := h.svc.ReconcileByAttemptID(r.Context(), attemptID)
	if err != nil {
		respondError(w, err)
		return
	}
	if rt.RenterID != caller.UserID && !caller.IsAdmin() {
		respondError(w, domain.ErrForbidden)
		return
	}
	respondJSON(w, http.StatusOK, rt)
}

// Webhook receives provider events. The signature is verified against the raw
// body before anything is parsed. Every outcome except a bad signature or a
// reconciler failure is acknowledged with 200 so the provider stops retrying.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return
	}

	sig := r.Header.Get("X-Provider-Signature")
	if err := gateway.VerifySignature(payload, sig, h.webhookSecret, time.Now()); err != nil {
		logger.Warn("Webhook signature rejected", "error", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "signature verification failed"})
		return
	}

	ev, err := gateway.ParseEvent(payload)
	if err != nil {
		if errors.Is(err, gateway.ErrUnhandledEvent) {
			respondJSON(w, http.StatusOK, nil)
			return
		}
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed event"})
		return
	}

	// Dedup on event id. On a cache error the event still goes through; the
	// reconciler treats re-application as a no-op.
	if first, err := h.events.MarkProcessed(r.Context(), ev.ID); err != nil {
		logger.Warn("Event cache unavailable, processing without dedup", "event_id", ev.ID, "error", err)
	} else if !first {
		logger.Debug("Duplicate provider event dropped", "event_id", ev.ID)
		respondJSON(w, http.StatusOK, nil)
		return
	}

	if err := h.svc.HandleProviderEvent(r.Context(), ev); err != nil {
		// a non-2xx makes the provider redeliver later; the event id must be
		// unmarked or the redelivery would be dropped as a duplicate
		if ferr := h.events.Forget(r.Context(), ev.ID); ferr != nil {
			logger.Warn("Failed to unmark event after reconciler error", "event_id", ev.ID, "error", ferr)
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

type overrideRequest struct {
	AttemptID string `json:"attempt_id"`
	Paid      bool   `json:"paid"`
}

// Override is the manual admin path. Transition errors surface to the caller
// instead of being absorbed.
func (h *PaymentHandler) Override(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	rentalID, ok := pathID(w, r, "rentalId")
	if !ok {
		return
	}

	var req overrideRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rt, err := h.svc.SetStatus(r.Context(), caller, rentalID, req.AttemptID, req.Paid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rt)
}
