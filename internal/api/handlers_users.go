package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"motoyard/internal/identity"
	"motoyard/internal/models"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := pageParams(r)
	items, total, err := h.identity.ListUsers(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	res := models.NewPagedResult(items, p.Page, p.Size, total).WithLinks(r.URL.Path, p)
	models.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in identity.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed request body", nil)
		return
	}
	u, err := h.identity.CreateUser(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.identity.GetUser(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	u, err := h.identity.GetUserByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in identity.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed request body", nil)
		return
	}
	u, err := h.identity.UpdateUser(r.Context(), pathID(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.DeleteUser(r.Context(), pathID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
