package cleanup

import (
	"context"
	"fmt"

	"github.com/breev/aqhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// CleanupService coordinates cascading deletion of device data. Readings and
// predictions live in separate stores, so the cascade is best-effort per
// store rather than one transaction.
type CleanupService struct {
	devices     repository.DeviceRepository
	readings    repository.ReadingRepository
	predictions repository.PredictionRepository
	events      *nuts.EventEmitter
}

// New creates a new CleanupService
func New(
	devices repository.DeviceRepository,
	readings repository.ReadingRepository,
	predictions repository.PredictionRepository,
) *CleanupService {
	return &CleanupService{
		devices:     devices,
		readings:    readings,
		predictions: predictions,
		events:      nuts.NewEventEmitter(),
	}
}

// DeleteDevice deletes a device together with its reading log and stored
// forecast.
func (s *CleanupService) DeleteDevice(ctx context.Context, sensorID string) error {
	if err := s.readings.DeleteBySensorID(ctx, sensorID); err != nil {
		return fmt.Errorf("failed to delete sensor readings: %w", err)
	}
	s.events.Emit("readings.deleted", sensorID)

	if err := s.predictions.Delete(ctx, sensorID); err != nil {
		// A dangling forecast is harmless; do not abort the cascade.
		nuts.L.Warnf("[Cleanup] Failed to delete stored prediction for %s: %v", sensorID, err)
	}

	if err := s.devices.Delete(ctx, sensorID); err != nil {
		return err
	}

	s.events.Emit("device.deleted", sensorID)
	return nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.events.On(event, "cleanup_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}
