package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"motoyard/internal/fleet"
	"motoyard/internal/models"
)

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	p := pageParams(r)
	items, total, err := h.fleet.ListVehicles(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res := models.NewPagedResult(items, p.Page, p.Size, total).WithLinks(r.URL.Path, p)
	models.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var in fleet.CreateVehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed request body", nil)
		return
	}
	res, err := h.fleet.CreateVehicle(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	// Re-admitting an existing unassigned vehicle is a success, not a creation.
	status := http.StatusCreated
	if res.Allocated {
		status = http.StatusOK
	}
	models.WriteJSON(w, status, res.Vehicle)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.fleet.GetVehicle(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) GetVehicleByPlate(w http.ResponseWriter, r *http.Request) {
	v, err := h.fleet.GetVehicleByPlate(r.Context(), mux.Vars(r)["plate"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var in fleet.UpdateVehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed request body", nil)
		return
	}
	v, err := h.fleet.UpdateVehicle(r.Context(), pathID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.DeleteVehicle(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
