// FilePath: internal/hubservice/hubservice.prediction.go
package hubservice

import (
	"context"
	"encoding/json"

	"github.com/breev/aqhub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// GetPrediction serves the most recently stored forecast for the sensor. When
// none is stored it falls through to a synchronous generate call; that fetch
// is not persisted, so this path performs no caching of its own. A failed or
// unconfigured upstream surfaces as not-found on this endpoint.
func (s *HubService) GetPrediction(ctx context.Context, sensorID string) (json.RawMessage, error) {
	stored, err := s.Predictions.GetLatest(ctx, sensorID)
	if err == nil {
		return stored, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	fresh, genErr := s.Forecaster.Generate(ctx, sensorID, s.Forecaster.DefaultHours())
	if genErr != nil {
		nuts.L.Warnf("[PredictionService] No stored forecast for %s and generate failed: %v", sensorID, genErr)
		return nil, errors.NewNotFoundError("no predictions available", genErr)
	}
	return fresh, nil
}

// RegeneratePrediction forces a fresh forecast and stores it as the new
// latest document. Upstream failure surfaces as-is (500 on this endpoint).
func (s *HubService) RegeneratePrediction(ctx context.Context, sensorID string, hoursAhead int) (json.RawMessage, error) {
	fresh, err := s.Forecaster.Generate(ctx, sensorID, hoursAhead)
	if err != nil {
		return nil, err
	}

	if err := s.Predictions.Store(ctx, sensorID, fresh); err != nil {
		// The caller still gets the forecast; only the stored copy is stale.
		nuts.L.Warnf("[PredictionService] Failed to store forecast for %s: %v", sensorID, err)
	}
	return fresh, nil
}
