package http

import (
	"context"
	"net/http"
	"strconv"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/service"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	svc service.VehicleService
}

func NewVehicleHandler(svc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{svc: svc}
}

type addVehicleRequest struct {
	Kind            string `json:"kind"`
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	Year            int32  `json:"year"`
	Plate           string `json:"plate"`
	DailyRateCents  int64  `json:"daily_rate_cents"`
	LicenceCategory string `json:"licence_category"`
}

func (h *VehicleHandler) Add(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())

	var req addVehicleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	v := &domain.Vehicle{
		Kind:            domain.VehicleKind(req.Kind),
		Brand:           req.Brand,
		Model:           req.Model,
		Year:            req.Year,
		Plate:           req.Plate,
		DailyRateCents:  req.DailyRateCents,
		LicenceCategory: req.LicenceCategory,
	}
	if err := h.svc.AddVehicle(r.Context(), caller, v); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetVehicle(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVehicle(r.Context(), caller, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *VehicleHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.svc.ListAvailable)
}

func (h *VehicleHandler) ListRented(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.svc.ListRented)
}

func (h *VehicleHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.svc.ListDeleted)
}

func (h *VehicleHandler) respondList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]domain.Vehicle, error)) {
	vehicles, err := list(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return int32(id), true
}
