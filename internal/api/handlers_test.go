package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motoyard/internal/api"
	"motoyard/internal/auth"
	"motoyard/internal/fleet"
	"motoyard/internal/identity"
	"motoyard/internal/logs"
	"motoyard/internal/models"
	"motoyard/internal/repo"
)

var testJWT = auth.Config{
	Secret:   "test-secret",
	Issuer:   "motoyard",
	Audience: "motoyard-api",
	TTL:      30 * time.Minute,
}

type testEnv struct {
	srv      *httptest.Server
	vehicles *repo.MemVehicleStore
	yards    *repo.MemYardStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logs.Init(logs.Options{Level: "error", Format: "text"})

	yards := repo.NewMemYardStore()
	vehicles := repo.NewMemVehicleStore(yards)
	users := repo.NewMemUserStore()

	h := api.NewHandler(
		fleet.NewService(vehicles, yards),
		identity.NewService(users, testJWT),
		nil, // no model artifact in tests
	)
	r := mux.NewRouter()
	api.RegisterRoutes(r, h, testJWT)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, vehicles: vehicles, yards: yards}
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response, out any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

func registerAndLogin(t *testing.T, env *testEnv) string {
	t.Helper()
	res := doJSON(t, http.MethodPost, env.srv.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@x.com", "password": "abcdef",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var ar identity.AuthResponse
	decodeBody(t, res, &ar)
	require.NotEmpty(t, ar.Token)
	return ar.Token
}

func createYard(t *testing.T, env *testEnv, token, name string, capacity int) models.Yard {
	t.Helper()
	res := doJSON(t, http.MethodPost, env.srv.URL+"/api/v1/yards", token, map[string]any{
		"name": name, "address": "Rua A, 100", "capacity": capacity,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var y models.Yard
	decodeBody(t, res, &y)
	return y
}

func TestRequiresBearerToken(t *testing.T) {
	env := newTestEnv(t)

	res := doJSON(t, http.MethodGet, env.srv.URL+"/api/v1/vehicles", "", nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = doJSON(t, http.MethodGet, env.srv.URL+"/api/v1/vehicles", "not-a-token", nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	registerAndLogin(t, env)

	res := doJSON(t, http.MethodPost, env.srv.URL+"/api/v1/auth/register", "", map[string]string{
		"name": "Other", "email": "ANA@X.COM", "password": "abcdef",
	})
	defer res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestLoginFailure(t *testing.T) {
	env := newTestEnv(t)
	registerAndLogin(t, env)

	res := doJSON(t, http.MethodPost, env.srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "ana@x.com", "password": "wrong",
	})
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestVehicleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)

	central := createYard(t, env, token, "Central", 50)
	norte := createYard(t, env, token, "Norte", 30)

	// create a vehicle in Central; plate is normalized to uppercase
	res := doJSON(t, http.MethodPost, env.srv.URL+"/api/v1/vehicles", token, map[string]any{
		"model": "CG 160", "plate": "abc-1234", "chassis": "9BWZZZ377VT004251", "yard_id": central.ID,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var v models.Vehicle
	decodeBody(t, res, &v)
	assert.Equal(t, "ABC-1234", v.Plate)
	require.NotNil(t, v.YardID)
	assert.Equal(t, central.ID, *v.YardID)

	// same plate into another yard: conflict naming the blocking yard
	res = doJSON(t, http.MethodPost, env.srv.URL+"/api/v1/vehicles", token, map[string]any{
		"model": "CG 160", "plate": "ABC-1234", "chassis": "9BWZZZ377VT999999", "yard_id": norte.ID,
	})
	require.Equal(t, http.StatusConflict, res.StatusCode)
	var problem models.Problem
	decodeBody(t, res, &problem)
	assert.Contains(t, problem.Detail, "Central")

	// lookup by plate
	res = doJSON(t, http.MethodGet, env.srv.URL+"/api/v1/vehicles/plate/abc-1234", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var byPlate models.Vehicle
	decodeBody(t, res, &byPlate)
	assert.Equal(t, v.ID, byPlate.ID)

	// yard with a vehicle cannot be deleted
	res = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/yards/%d", env.srv.URL, central.ID), token, nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// delete the vehicle, then 404 on lookup and the yard is deletable
	res = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/vehicles/%d", env.srv.URL, v.ID), token, nil)
	defer res.Body.Close()
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/vehicles/%d", env.srv.URL, v.ID), token, nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/yards/%d", env.srv.URL, central.ID), token, nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestCreateReadmitsUnassignedVehicle(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)
	yard := createYard(t, env, token, "Central", 50)

	// a vehicle known to the system but not parked anywhere
	existing := &models.Vehicle{
		Model: "Biz 125", Plate: "XYZ-9876", Chassis: "9BWZZZ377VT111111", Active: true,
	}
	require.NoError(t, env.vehicles.Create(context.Background(), existing))

	res := doJSON(t, http.MethodPost, env.srv.URL+"/api/v1/vehicles", token, map[string]any{
		"model": "Biz 125", "plate": "xyz-9876", "chassis": "9BWZZZ377VT111111", "yard_id": yard.ID,
	})
	// re-admission reports success, not creation
	require.Equal(t, http.StatusOK, res.StatusCode)
	var v models.Vehicle
	decodeBody(t, res, &v)
	assert.Equal(t, existing.ID, v.ID)
	require.NotNil(t, v.YardID)
	assert.Equal(t, yard.ID, *v.YardID)
}

func TestListVehiclesPaging(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)
	yard := createYard(t, env, token, "Central", 50)

	for i := 0; i < 5; i++ {
		res := doJSON(t, http.MethodPost, env.srv.URL+"/api/v1/vehicles", token, map[string]any{
			"model":   "CG 160",
			"plate":   fmt.Sprintf("AAA-%04d", i),
			"chassis": fmt.Sprintf("9BWZZZ377VT%06d", i),
			"yard_id": yard.ID,
		})
		require.Equal(t, http.StatusCreated, res.StatusCode)
		res.Body.Close()
	}

	res := doJSON(t, http.MethodGet, env.srv.URL+"/api/v1/vehicles?page_number=2&page_size=2", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var page models.PagedResult[models.Vehicle]
	decodeBody(t, res, &page)

	assert.EqualValues(t, 5, page.TotalRecords)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasPrevious)
	assert.True(t, page.HasNext)

	rels := make(map[string]string)
	for _, l := range page.Links {
		rels[l.Rel] = l.Href
	}
	assert.Contains(t, rels, "self")
	assert.Contains(t, rels, "prev")
	assert.Contains(t, rels, "next")
	assert.Contains(t, rels["next"], "page_number=3")
}

func TestYardLookup(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)
	yard := createYard(t, env, token, "Patio Central", 50)

	// by numeric id
	res := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/yards/lookup/%d", env.srv.URL, yard.ID), token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var byID []models.Yard
	decodeBody(t, res, &byID)
	require.Len(t, byID, 1)
	assert.Equal(t, yard.ID, byID[0].ID)

	// by name fragment
	res = doJSON(t, http.MethodGet, env.srv.URL+"/api/v1/yards/lookup/Central", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var byName []models.Yard
	decodeBody(t, res, &byName)
	require.Len(t, byName, 1)
	assert.Equal(t, "Patio Central", byName[0].Name)
}

func TestPredictionUnavailableWithoutModel(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)

	res := doJSON(t, http.MethodGet, env.srv.URL+"/api/v1/predictions/stay-duration/yards/1", token, nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env)

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+"/api/v1/yards", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
