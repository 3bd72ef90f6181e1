package hubservice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/breev/aqhub/internal/cleanup"
	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/repository"
)

// Forecaster is the boundary to the external prediction service.
type Forecaster interface {
	Generate(ctx context.Context, sensorID string, hoursAhead int) (json.RawMessage, error)
	DefaultHours() int
}

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Devices     repository.DeviceRepository
	Readings    repository.ReadingRepository
	Predictions repository.PredictionRepository
	Settings    repository.SettingsRepository
	Forecaster  Forecaster
	Cleanup     *cleanup.CleanupService

	bucketLoc *time.Location
	publicURL string
	now       func() time.Time
}

// New creates a new HubService instance. bucketLoc is the timezone trend
// buckets are truncated in; publicURL is the dashboard base used for device
// deep links.
func New(
	devices repository.DeviceRepository,
	readings repository.ReadingRepository,
	predictions repository.PredictionRepository,
	settings repository.SettingsRepository,
	forecaster Forecaster,
	bucketLoc *time.Location,
	publicURL string,
) *HubService {
	svc := &HubService{
		Devices:     devices,
		Readings:    readings,
		Predictions: predictions,
		Settings:    settings,
		Forecaster:  forecaster,
		bucketLoc:   bucketLoc,
		publicURL:   publicURL,
		now:         time.Now,
	}
	svc.Cleanup = cleanup.New(devices, readings, predictions)
	return svc
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Devices == nil {
		return ErrMissingRepository("devices")
	}
	if s.Readings == nil {
		return ErrMissingRepository("readings")
	}
	if s.Predictions == nil {
		return ErrMissingRepository("predictions")
	}
	if s.Settings == nil {
		return ErrMissingRepository("settings")
	}
	if s.Forecaster == nil {
		return ErrMissingRepository("forecaster")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
