package api

import (
	"net/http"

	"motoyard/internal/models"
)

// PredictStayDuration answers the per-yard stay-duration prediction.
// 503 when the model artifact failed to load at startup.
func (h *Handler) PredictStayDuration(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil {
		models.WriteProblem(w, http.StatusServiceUnavailable,
			"Service Unavailable", "prediction model is not loaded", nil)
		return
	}
	res, err := h.predictor.StayDuration(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, res)
}
