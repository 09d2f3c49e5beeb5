package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"motoyard/internal/auth"
)

// RegisterRoutes mounts the REST surface under /api/v1. Auth endpoints
// are open; everything else requires a bearer token.
func RegisterRoutes(r *mux.Router, h *Handler, jwtCfg auth.Config) {
	open := r.PathPrefix("/api/v1").Subrouter()
	open.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	open.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	sec := r.PathPrefix("/api/v1").Subrouter()
	sec.Use(auth.Middleware(jwtCfg))

	sec.HandleFunc("/vehicles", h.ListVehicles).Methods(http.MethodGet)
	sec.HandleFunc("/vehicles", h.CreateVehicle).Methods(http.MethodPost)
	sec.HandleFunc("/vehicles/plate/{plate}", h.GetVehicleByPlate).Methods(http.MethodGet)
	sec.HandleFunc("/vehicles/{id:[0-9]+}", h.GetVehicle).Methods(http.MethodGet)
	sec.HandleFunc("/vehicles/{id:[0-9]+}", h.UpdateVehicle).Methods(http.MethodPut)
	sec.HandleFunc("/vehicles/{id:[0-9]+}", h.DeleteVehicle).Methods(http.MethodDelete)

	sec.HandleFunc("/yards", h.ListYards).Methods(http.MethodGet)
	sec.HandleFunc("/yards", h.CreateYard).Methods(http.MethodPost)
	sec.HandleFunc("/yards/lookup/{identifier}", h.LookupYards).Methods(http.MethodGet)
	sec.HandleFunc("/yards/{id:[0-9]+}", h.GetYard).Methods(http.MethodGet)
	sec.HandleFunc("/yards/{id:[0-9]+}", h.UpdateYard).Methods(http.MethodPut)
	sec.HandleFunc("/yards/{id:[0-9]+}", h.DeleteYard).Methods(http.MethodDelete)
	sec.HandleFunc("/yards/{id:[0-9]+}/vehicles", h.ListYardVehicles).Methods(http.MethodGet)

	sec.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	sec.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	sec.HandleFunc("/users/email/{email}", h.GetUserByEmail).Methods(http.MethodGet)
	sec.HandleFunc("/users/{id:[0-9]+}", h.GetUser).Methods(http.MethodGet)
	sec.HandleFunc("/users/{id:[0-9]+}", h.UpdateUser).Methods(http.MethodPut)
	sec.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods(http.MethodDelete)

	sec.HandleFunc("/predictions/stay-duration/yards/{id:[0-9]+}", h.PredictStayDuration).Methods(http.MethodGet)
}
