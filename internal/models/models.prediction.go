// FilePath: internal/models/models.prediction.go
package models

import "time"

// PredictionPoint is one forecasted hourly step from the external model.
type PredictionPoint struct {
	PredictedTime time.Time `json:"predicted_time"`
	PredictedCO2  float64   `json:"predicted_co2"`
	Confidence    float64   `json:"confidence"`
}

// Prediction is the forecast document produced by the external prediction
// service. The hub treats its contents as opaque and forwards them unmodified;
// the typed fields exist for storage keys and ordering only.
type Prediction struct {
	SensorID    string            `json:"sensor_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Predictions []PredictionPoint `json:"predictions"`
}
