// FilePath: internal/hubservice/hubservice.sensor.go
package hubservice

import (
	"context"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// historyLimit caps the trailing-24h series served on the room page.
const historyLimit = 100

// GetSensorHistory returns a sensor's current reading merged with its registry
// metadata, plus the trailing 24h of readings oldest first. A sensor that has
// never reported is a not-found condition.
func (s *HubService) GetSensorHistory(ctx context.Context, sensorID string) (*models.SensorHistory, error) {
	current, err := s.Readings.GetLatestReading(ctx, sensorID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("no data found for this sensor", nil)
		}
		return nil, err
	}

	snapshot := models.SensorSnapshot{SensorReading: *current}
	device, err := s.Devices.Get(ctx, sensorID)
	if err == nil {
		snapshot.Name = device.Name
		snapshot.Location = device.Location
	} else if !errors.IsNotFound(err) {
		nuts.L.Warnf("[SensorService] Failed to load metadata for sensor %s: %v", sensorID, err)
	}

	historical, err := s.Readings.GetSensorHistory(ctx, sensorID, s.now().Add(-aggregationWindow), historyLimit)
	if err != nil {
		return nil, err
	}

	return &models.SensorHistory{
		Current:    snapshot,
		Historical: historical,
	}, nil
}

// RecordReading validates and appends one reported measurement. Timestamps
// are stamped by the ingest path; readings are immutable once written.
func (s *HubService) RecordReading(ctx context.Context, reading *models.SensorReading) error {
	if reading.SensorID == "" {
		return errors.NewValidationError("reading is missing sensor_id", nil)
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = s.now()
	}
	return s.Readings.InsertReading(ctx, reading)
}
