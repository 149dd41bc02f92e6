package http

import (
	"net/http"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/service"
)

type RentalHandler struct {
	svc service.RentalService
}

func NewRentalHandler(svc service.RentalService) *RentalHandler {
	return &RentalHandler{svc: svc}
}

func (h *RentalHandler) Rent(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	vehicleID, ok := pathID(w, r, "vehicleId")
	if !ok {
		return
	}

	rt, err := h.svc.Rent(r.Context(), vehicleID, caller.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rt)
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	vehicleID, ok := pathID(w, r, "vehicleId")
	if !ok {
		return
	}

	rt, err := h.svc.ReturnRental(r.Context(), caller, vehicleID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rt)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rt, err := h.svc.GetRental(r.Context(), id)
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

// ListActive and ListHistory are fleet-wide views for admins.
func (h *RentalHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	if !caller.IsAdmin() {
		respondError(w, domain.ErrForbidden)
		return
	}
	rentals, err := h.svc.ListActive(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	if !caller.IsAdmin() {
		respondError(w, domain.ErrForbidden)
		return
	}
	rentals, err := h.svc.ListHistory(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	rentals, err := h.svc.ListByRenter(r.Context(), caller.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) ListByVehicle(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	if !caller.IsAdmin() {
		respondError(w, domain.ErrForbidden)
		return
	}
	vehicleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rentals, err := h.svc.ListByVehicle(r.Context(), vehicleID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rentals)
}
