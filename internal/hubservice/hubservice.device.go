// FilePath: internal/hubservice/hubservice.device.go
package hubservice

import (
	"context"
	"strings"
	"time"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
	"github.com/itsatony/struccy"
	nuts "github.com/vaudience/go-nuts"
)

// CreateDevice registers a new sensor unit. A duplicate sensor id is a
// conflict; the existing record is never overwritten.
func (s *HubService) CreateDevice(ctx context.Context, device *models.Device) error {
	if device.SensorID == "" {
		return errors.NewValidationError("sensor_id is required", nil)
	}
	if device.Name == "" {
		return errors.NewValidationError("device name is required", nil)
	}
	if device.Location == "" {
		return errors.NewValidationError("device location is required", nil)
	}

	now := s.now()
	device.Status = models.DeviceStatusActive
	device.QRCode = s.publicURL + "/room/" + device.SensorID
	device.InstalledDate = now
	device.CreatedAt = now
	device.UpdatedAt = now

	nuts.L.Infof("[DeviceService] Registering device %s (%s, %s)", device.SensorID, device.Name, device.Location)
	return s.Devices.Create(ctx, device)
}

// UpdateDevice applies a partial update to a registered device. Empty fields
// of the update are ignored.
func (s *HubService) UpdateDevice(ctx context.Context, sensorID string, update *models.DeviceUpdate) (*models.Device, error) {
	if update.Status != "" &&
		update.Status != models.DeviceStatusActive && update.Status != models.DeviceStatusInactive {
		return nil, errors.NewValidationError("status must be active or inactive", nil)
	}

	existing, err := s.Devices.Get(ctx, sensorID)
	if err != nil {
		return nil, err
	}

	updatedFields, _, err := struccy.UpdateStructFields(existing, update, []string{"admin"}, true, true)
	if err != nil {
		return nil, errors.NewInternalError("failed to apply device update", err)
	}

	existing.UpdatedAt = s.now()
	if err := s.Devices.Update(ctx, existing); err != nil {
		return nil, err
	}

	nuts.L.Infof("[DeviceService] Updated device %s, fields changed: %v", sensorID, updatedFields)
	return existing, nil
}

// DeleteDevice removes a device and cascades to its readings and stored
// predictions.
func (s *HubService) DeleteDevice(ctx context.Context, sensorID string) error {
	if sensorID == "" {
		return errors.NewValidationError("sensor_id is required", nil)
	}

	// Verify existence before the cascade so a missing device stays a 404.
	if _, err := s.Devices.Get(ctx, sensorID); err != nil {
		return err
	}

	nuts.L.Infof("[DeviceService] Deleting device %s", sensorID)
	return s.Cleanup.DeleteDevice(ctx, sensorID)
}

// ListDevices returns the registry in insertion order, enriched with liveness
// state and narrowed by the optional filters.
func (s *HubService) ListDevices(ctx context.Context, filters models.DeviceFilters) ([]models.EnrichedDevice, error) {
	devices, err := s.Devices.List(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.Readings.GetLatestReadings(ctx)
	if err != nil {
		return nil, err
	}

	enriched := enrichDevices(devices, latest, s.now())
	return filterDevices(enriched, filters), nil
}

// enrichDevices joins each registry record with its most recent reading. The
// join is left-outer: devices that never reported keep a nil last_seen, a zero
// latest AQI and an offline badge. A device is online while strictly less than
// OnlineWindow has passed since its last reading; exactly at the boundary it
// is offline.
func enrichDevices(devices []*models.Device, latest map[string]*models.SensorReading, now time.Time) []models.EnrichedDevice {
	enriched := make([]models.EnrichedDevice, 0, len(devices))
	for _, device := range devices {
		e := models.EnrichedDevice{
			Device:         *device,
			LivenessStatus: models.LivenessOffline,
		}
		if reading, ok := latest[device.SensorID]; ok {
			ts := reading.Timestamp
			e.LastSeen = &ts
			e.LatestAQI = reading.AQICalculated
			if now.Sub(reading.Timestamp) < OnlineWindow {
				e.LivenessStatus = models.LivenessOnline
			}
		}
		enriched = append(enriched, e)
	}
	return enriched
}

// filterDevices applies the search (case-insensitive substring over name,
// location and id) and liveness filters. Both must match; order is preserved.
func filterDevices(devices []models.EnrichedDevice, filters models.DeviceFilters) []models.EnrichedDevice {
	search := strings.ToLower(filters.Search)
	status := filters.Status
	if status == "" {
		status = models.LivenessFilterAll
	}
	if search == "" && status == models.LivenessFilterAll {
		return devices
	}

	filtered := make([]models.EnrichedDevice, 0, len(devices))
	for _, d := range devices {
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Name), search) &&
			!strings.Contains(strings.ToLower(d.Location), search) &&
			!strings.Contains(strings.ToLower(d.SensorID), search) {
			continue
		}
		if status != models.LivenessFilterAll && d.LivenessStatus != status {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}
