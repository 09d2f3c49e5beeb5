package api

import (
	"encoding/json"
	"net/http"

	"motoyard/internal/identity"
	"motoyard/internal/models"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in identity.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed request body", nil)
		return
	}
	res, err := h.identity.Register(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "malformed request body", nil)
		return
	}
	res, err := h.identity.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, res)
}
