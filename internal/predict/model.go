package predict

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model is a pre-trained linear regression over yard occupancy
// features. The artifact is produced offline by the trainer pipeline;
// this package only evaluates it.
type Model struct {
	Bias    float64 `json:"bias"`
	Weights struct {
		YardCapacity   float64 `json:"yard_capacity"`
		VehiclesInYard float64 `json:"vehicles_in_yard"`
		OccupancyRate  float64 `json:"occupancy_rate"`
		Weekday        float64 `json:"weekday"`
		HourOfDay      float64 `json:"hour_of_day"`
		HistoricalAvg  float64 `json:"historical_avg"`
	} `json:"weights"`
}

// Features is one prediction input row.
type Features struct {
	YardCapacity   float64
	VehiclesInYard float64
	OccupancyRate  float64
	Weekday        float64
	HourOfDay      float64
	HistoricalAvg  float64
}

// LoadModel reads the artifact from disk. A missing or corrupt file is
// reported to the caller; the service keeps running without the
// prediction feature.
func LoadModel(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}
	return &m, nil
}

// Predict evaluates the regression, clamped to non-negative hours.
func (m *Model) Predict(f Features) float64 {
	h := m.Bias +
		m.Weights.YardCapacity*f.YardCapacity +
		m.Weights.VehiclesInYard*f.VehiclesInYard +
		m.Weights.OccupancyRate*f.OccupancyRate +
		m.Weights.Weekday*f.Weekday +
		m.Weights.HourOfDay*f.HourOfDay +
		m.Weights.HistoricalAvg*f.HistoricalAvg
	if h < 0 {
		return 0
	}
	return h
}
