package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"motoyard/internal/fleet"
	"motoyard/internal/models"
)

func (h *Handler) ListYards(w http.ResponseWriter, r *http.Request) {
	p := pageParams(r)
	items, total, err := h.fleet.ListYards(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res := models.NewPagedResult(items, p.Page, p.Size, total).WithLinks(r.URL.Path, p)
	models.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) CreateYard(w http.ResponseWriter, r *http.Request) {
	var in fleet.CreateYardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed request body", nil)
		return
	}
	y, err := h.fleet.CreateYard(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, y)
}

func (h *Handler) GetYard(w http.ResponseWriter, r *http.Request) {
	y, err := h.fleet.GetYard(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, y)
}

// LookupYards resolves a numeric id or a name fragment to yards.
func (h *Handler) LookupYards(w http.ResponseWriter, r *http.Request) {
	yards, err := h.fleet.FindYards(r.Context(), mux.Vars(r)["identifier"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, yards)
}

func (h *Handler) ListYardVehicles(w http.ResponseWriter, r *http.Request) {
	p := pageParams(r)
	items, total, err := h.fleet.ListYardVehicles(r.Context(), pathID(r), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res := models.NewPagedResult(items, p.Page, p.Size, total).WithLinks(r.URL.Path, p)
	models.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) UpdateYard(w http.ResponseWriter, r *http.Request) {
	var in fleet.UpdateYardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed request body", nil)
		return
	}
	y, err := h.fleet.UpdateYard(r.Context(), pathID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, y)
}

func (h *Handler) DeleteYard(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.DeleteYard(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
