package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every API route. The webhook and the auth endpoints are the
// only unauthenticated paths.
func NewRouter(
	authMW *AuthMiddleware,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	vehicleHandler *VehicleHandler,
	rentalHandler *RentalHandler,
	paymentHandler *PaymentHandler,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")

	api.HandleFunc("/users", authMW.RequireAuth(userHandler.List)).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}", authMW.RequireAuth(userHandler.Get)).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}/roles", authMW.RequireAuth(userHandler.GrantRole)).Methods("POST")
	api.HandleFunc("/users/{id:[0-9]+}/roles/{role}", authMW.RequireAuth(userHandler.RevokeRole)).Methods("DELETE")

	api.HandleFunc("/vehicles", authMW.RequireAuth(vehicleHandler.Add)).Methods("POST")
	api.HandleFunc("/vehicles/available", authMW.RequireAuth(vehicleHandler.ListAvailable)).Methods("GET")
	api.HandleFunc("/vehicles/rented", authMW.RequireAuth(vehicleHandler.ListRented)).Methods("GET")
	api.HandleFunc("/vehicles/deleted", authMW.RequireAuth(vehicleHandler.ListDeleted)).Methods("GET")
	api.HandleFunc("/vehicles/{id:[0-9]+}", authMW.RequireAuth(vehicleHandler.Get)).Methods("GET")
	api.HandleFunc("/vehicles/{id:[0-9]+}", authMW.RequireAuth(vehicleHandler.Delete)).Methods("DELETE")
	api.HandleFunc("/vehicles/{id:[0-9]+}/rentals", authMW.RequireAuth(rentalHandler.ListByVehicle)).Methods("GET")

	api.HandleFunc("/rentals/rent/{vehicleId:[0-9]+}", authMW.RequireAuth(rentalHandler.Rent)).Methods("POST")
	api.HandleFunc("/rentals/return/{vehicleId:[0-9]+}", authMW.RequireAuth(rentalHandler.Return)).Methods("POST")
	api.HandleFunc("/rentals/active", authMW.RequireAuth(rentalHandler.ListActive)).Methods("GET")
	api.HandleFunc("/rentals/history", authMW.RequireAuth(rentalHandler.ListHistory)).Methods("GET")
	api.HandleFunc("/rentals/my", authMW.RequireAuth(rentalHandler.ListMine)).Methods("GET")
	api.HandleFunc("/rentals/{id:[0-9]+}", authMW.RequireAuth(rentalHandler.Get)).Methods("GET")

	api.HandleFunc("/payments/checkout/{rentalId:[0-9]+}", authMW.RequireAuth(paymentHandler.Checkout)).Methods("POST")
	api.HandleFunc("/payments/status", authMW.RequireAuth(paymentHandler.Status)).Methods("GET")
	api.HandleFunc("/payments/webhook", paymentHandler.Webhook).Methods("POST")
	api.HandleFunc("/payments/override/{rentalId:[0-9]+}", authMW.RequireAuth(paymentHandler.Override)).Methods("POST")

	return router
}
