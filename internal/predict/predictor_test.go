package predict

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motoyard/internal/fleet"
	"motoyard/internal/models"
	"motoyard/internal/repo"
)

const artifact = `{
	"bias": 10,
	"weights": {
		"yard_capacity": 0.0,
		"vehicles_in_yard": 0.5,
		"occupancy_rate": 0.1,
		"weekday": 0.0,
		"hour_of_day": 0.0,
		"historical_avg": 0.5
	}
}`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadModel(t *testing.T) {
	m, err := LoadModel(writeArtifact(t, artifact))
	require.NoError(t, err)
	assert.Equal(t, 10.0, m.Bias)
	assert.Equal(t, 0.5, m.Weights.VehiclesInYard)
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadModelCorrupt(t *testing.T) {
	_, err := LoadModel(writeArtifact(t, "{not json"))
	assert.Error(t, err)
}

func TestPredictClampsNegative(t *testing.T) {
	var m Model
	m.Bias = -100
	assert.Equal(t, 0.0, m.Predict(Features{VehiclesInYard: 3}))
}

func TestStayDuration(t *testing.T) {
	m, err := LoadModel(writeArtifact(t, artifact))
	require.NoError(t, err)

	yards := repo.NewMemYardStore()
	vehicles := repo.NewMemVehicleStore(yards)
	ctx := context.Background()

	yard := &models.Yard{Name: "Central", Address: "Rua A", Capacity: 40, Active: true}
	require.NoError(t, yards.Create(ctx, yard))
	for _, plate := range []string{"AAA-0001", "AAA-0002"} {
		id := yard.ID
		require.NoError(t, vehicles.Create(ctx, &models.Vehicle{
			Model: "CG 160", Plate: plate, Chassis: "CH-" + plate, Active: true, YardID: &id,
		}))
	}

	p := NewPredictor(m, yards, vehicles)
	p.now = func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) } // Monday 09:00

	res, err := p.StayDuration(ctx, yard.ID)
	require.NoError(t, err)
	assert.Equal(t, yard.ID, res.YardID)
	assert.Equal(t, "Central", res.YardName)
	assert.EqualValues(t, 2, res.CurrentVehicles)
	assert.InDelta(t, 5.0, res.OccupancyRate, 0.001) // 2/40

	// bias 10 + 0.5*2 + 0.1*5 + 0.5*55 (capacity<=50) = 39
	assert.InDelta(t, 39.0, res.PredictedHours, 0.001)
	assert.Equal(t, "normal", res.Status)
	assert.Equal(t, "1 day(s) and 15 hour(s)", res.Formatted)
}

func TestStayDurationUnknownYard(t *testing.T) {
	m, err := LoadModel(writeArtifact(t, artifact))
	require.NoError(t, err)
	yards := repo.NewMemYardStore()
	vehicles := repo.NewMemVehicleStore(yards)

	p := NewPredictor(m, yards, vehicles)
	_, err = p.StayDuration(context.Background(), 99)
	assert.ErrorIs(t, err, fleet.ErrYardNotFound)
}

func TestClassifyBuckets(t *testing.T) {
	cases := []struct {
		hours  float64
		status string
	}{
		{72, "very slow"},
		{60, "very slow"},
		{50, "slow"},
		{48, "slow"},
		{40, "normal"},
		{36, "normal"},
		{30, "fast"},
		{24, "fast"},
		{10, "very fast"},
		{0, "very fast"},
	}
	for _, c := range cases {
		status, recommendation := classify(c.hours)
		assert.Equal(t, c.status, status, "hours=%v", c.hours)
		assert.NotEmpty(t, recommendation)
	}
}

func TestHistoricalAverage(t *testing.T) {
	assert.Equal(t, 55.0, historicalAverage(30))
	assert.Equal(t, 48.0, historicalAverage(100))
	assert.Equal(t, 45.0, historicalAverage(150))
	assert.Equal(t, 42.0, historicalAverage(500))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "5 hour(s)", formatHours(5.9))
	assert.Equal(t, "1 day(s) and 0 hour(s)", formatHours(24))
	assert.Equal(t, "2 day(s) and 3 hour(s)", formatHours(51.4))
}
