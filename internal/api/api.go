package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"motoyard/internal/fleet"
	"motoyard/internal/identity"
	"motoyard/internal/logs"
	"motoyard/internal/middleware"
	"motoyard/internal/models"
	"motoyard/internal/predict"
)

// Handler carries the domain services behind the REST surface.
type Handler struct {
	fleet     *fleet.Service
	identity  *identity.Service
	predictor *predict.Predictor // nil when the model artifact is unavailable
}

func NewHandler(fleetSvc *fleet.Service, identitySvc *identity.Service, predictor *predict.Predictor) *Handler {
	return &Handler{fleet: fleetSvc, identity: identitySvc, predictor: predictor}
}

// writeServiceError translates domain failures 1:1 to transport codes.
// Unexpected errors are logged with the request id; the client gets a
// generic detail, never internal error text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fv *fleet.ValidationError
	var iv *identity.ValidationError
	var conflict *fleet.ConflictError

	switch {
	case errors.As(err, &fv), errors.As(err, &iv):
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
	case errors.Is(err, fleet.ErrVehicleNotFound),
		errors.Is(err, fleet.ErrYardNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.As(err, &conflict), errors.Is(err, identity.ErrEmailTaken):
		models.WriteProblem(w, http.StatusConflict, "Conflict", err.Error(), nil)
	case errors.Is(err, identity.ErrInvalidCredentials):
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), nil)
	default:
		logs.Logger.Errorf("reqid=%s uri=%s unexpected error: %v",
			middleware.GetRequestID(r), r.RequestURI, err)
		models.WriteProblem(w, http.StatusInternalServerError,
			"Internal Server Error", "unexpected server error", nil)
	}
}

func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id)
}

// pageParams decodes paging/sorting/filtering query parameters.
func pageParams(r *http.Request) models.PageParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page_number"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	return models.PageParams{
		Page:     page,
		Size:     size,
		Search:   q.Get("search"),
		SortBy:   q.Get("sort_by"),
		SortDesc: q.Get("sort_desc") == "true",
	}.Normalize()
}
