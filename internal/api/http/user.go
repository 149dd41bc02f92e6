package http

import (
	"net/http"

	"motorent-backend/internal/service"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	users, err := h.svc.ListUsers(r.Context(), caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.svc.GetUser(r.Context(), caller, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

type grantRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req grantRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.svc.GrantRole(r.Context(), caller, id, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *UserHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	u, err := h.svc.RevokeRole(r.Context(), caller, id, mux.Vars(r)["role"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
