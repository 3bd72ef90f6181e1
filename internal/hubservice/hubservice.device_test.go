package hubservice

import (
	"context"
	"testing"
	"time"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
)

func TestCreateDevice(t *testing.T) {
	env := newTestService(t)

	device := &models.Device{SensorID: "DEV001", Name: "Living Room", Location: "1st floor"}
	if err := env.svc.CreateDevice(context.Background(), device); err != nil {
		t.Fatalf("CreateDevice failed: %v", err)
	}

	if device.Status != models.DeviceStatusActive {
		t.Errorf("Expected new device status active, got %q", device.Status)
	}
	if device.QRCode != "http://localhost:3001/room/DEV001" {
		t.Errorf("Unexpected qr_code link %q", device.QRCode)
	}
	if !device.InstalledDate.Equal(testNow) {
		t.Errorf("Expected installed_date stamped %s, got %s", testNow, device.InstalledDate)
	}
}

func TestCreateDevice_Validation(t *testing.T) {
	env := newTestService(t)

	tests := []struct {
		name   string
		device models.Device
	}{
		{"missing sensor_id", models.Device{Name: "Office", Location: "2nd floor"}},
		{"missing name", models.Device{SensorID: "DEV002", Location: "2nd floor"}},
		{"missing location", models.Device{SensorID: "DEV002", Name: "Office"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := tt.device
			err := env.svc.CreateDevice(context.Background(), &device)
			if !errors.IsValidation(err) {
				t.Fatalf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDevice_DuplicateConflict(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "DEV001", "Living Room", "1st floor")

	err := env.svc.CreateDevice(context.Background(),
		&models.Device{SensorID: "DEV001", Name: "Other", Location: "elsewhere"})
	if !errors.IsConflict(err) {
		t.Fatalf("Expected conflict for duplicate sensor id, got %v", err)
	}
	if len(env.devices.devices) != 1 {
		t.Errorf("Expected registry unchanged, have %d devices", len(env.devices.devices))
	}
	if env.devices.devices[0].Name != "Living Room" {
		t.Errorf("Existing record was overwritten: %+v", env.devices.devices[0])
	}
}

func TestUpdateDevice_Partial(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "DEV001", "Living Room", "1st floor")

	updated, err := env.svc.UpdateDevice(context.Background(), "DEV001",
		&models.DeviceUpdate{Name: "Lounge"})
	if err != nil {
		t.Fatalf("UpdateDevice failed: %v", err)
	}

	if updated.Name != "Lounge" {
		t.Errorf("Expected name updated to Lounge, got %q", updated.Name)
	}
	if updated.Location != "1st floor" {
		t.Errorf("Expected untouched location preserved, got %q", updated.Location)
	}
	if updated.Status != models.DeviceStatusActive {
		t.Errorf("Expected untouched status preserved, got %q", updated.Status)
	}
}

func TestUpdateDevice_InvalidStatus(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "DEV001", "Living Room", "1st floor")

	_, err := env.svc.UpdateDevice(context.Background(), "DEV001",
		&models.DeviceUpdate{Status: "broken"})
	if !errors.IsValidation(err) {
		t.Fatalf("Expected validation error for bad status, got %v", err)
	}
}

func TestUpdateDevice_Missing(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.UpdateDevice(context.Background(), "DEV404",
		&models.DeviceUpdate{Name: "Ghost"})
	if !errors.IsNotFound(err) {
		t.Fatalf("Expected not-found, got %v", err)
	}
}

func TestDeleteDevice_CascadesStores(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "DEV001", "Living Room", "1st floor")
	addReading(env.readings, "DEV001", 50, 500, testNow.Add(-time.Hour))
	addReading(env.readings, "DEV002", 60, 550, testNow.Add(-time.Hour))
	env.predictions.stored["DEV001"] = []byte(`{}`)

	if err := env.svc.DeleteDevice(context.Background(), "DEV001"); err != nil {
		t.Fatalf("DeleteDevice failed: %v", err)
	}

	if _, err := env.devices.Get(context.Background(), "DEV001"); !errors.IsNotFound(err) {
		t.Errorf("Expected device removed from registry, got %v", err)
	}
	for _, r := range env.readings.readings {
		if r.SensorID == "DEV001" {
			t.Errorf("Expected readings for DEV001 purged, found %+v", r)
		}
	}
	if len(env.readings.readings) != 1 {
		t.Errorf("Expected other sensors' readings untouched, have %d", len(env.readings.readings))
	}
	if _, ok := env.predictions.stored["DEV001"]; ok {
		t.Error("Expected stored prediction purged")
	}
}

func TestDeleteDevice_Missing(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "DEV001", "Living Room", "1st floor")
	addReading(env.readings, "DEV001", 50, 500, testNow.Add(-time.Hour))

	err := env.svc.DeleteDevice(context.Background(), "DEV404")
	if !errors.IsNotFound(err) {
		t.Fatalf("Expected not-found for unknown device, got %v", err)
	}
	if len(env.devices.devices) != 1 || len(env.readings.readings) != 1 {
		t.Error("Expected registry and readings unchanged after failed delete")
	}
}

func TestEnrichDevices_LivenessBoundary(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "DEV001", "Living Room", "1st floor")
	addDevice(env.devices, "DEV002", "Bedroom", "2nd floor")
	addDevice(env.devices, "DEV003", "Office", "2nd floor")
	addDevice(env.devices, "DEV004", "Basement", "cellar")

	addReading(env.readings, "DEV001", 42, 500, testNow.Add(-4*time.Minute))
	addReading(env.readings, "DEV002", 55, 520, testNow.Add(-6*time.Minute))
	addReading(env.readings, "DEV003", 70, 600, testNow.Add(-5*time.Minute))
	// DEV004 never reported

	devices, err := env.svc.ListDevices(context.Background(), models.DeviceFilters{})
	if err != nil {
		t.Fatalf("ListDevices failed: %v", err)
	}
	if len(devices) != 4 {
		t.Fatalf("Expected all 4 devices listed, got %d", len(devices))
	}

	byID := map[string]models.EnrichedDevice{}
	for _, d := range devices {
		byID[d.SensorID] = d
	}

	if byID["DEV001"].LivenessStatus != models.LivenessOnline {
		t.Errorf("Expected DEV001 online at 4min, got %q", byID["DEV001"].LivenessStatus)
	}
	if byID["DEV002"].LivenessStatus != models.LivenessOffline {
		t.Errorf("Expected DEV002 offline at 6min, got %q", byID["DEV002"].LivenessStatus)
	}
	// exactly 5 minutes old counts as offline
	if byID["DEV003"].LivenessStatus != models.LivenessOffline {
		t.Errorf("Expected DEV003 offline at exactly 5min, got %q", byID["DEV003"].LivenessStatus)
	}

	silent := byID["DEV004"]
	if silent.LivenessStatus != models.LivenessOffline || silent.LastSeen != nil || silent.LatestAQI != 0 {
		t.Errorf("Expected never-reported device offline with no reading data, got %+v", silent)
	}

	if byID["DEV001"].LatestAQI != 42 || byID["DEV001"].LastSeen == nil {
		t.Errorf("Expected DEV001 enriched with its latest reading, got %+v", byID["DEV001"])
	}
}

func TestFilterDevices(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "DEV001", "Living Room", "1st floor")
	addDevice(env.devices, "DEV002", "Bedroom", "2nd floor")
	addReading(env.readings, "DEV001", 42, 500, testNow.Add(-time.Minute))

	tests := []struct {
		name    string
		filters models.DeviceFilters
		wantIDs []string
	}{
		{"search by name", models.DeviceFilters{Search: "living"}, []string{"DEV001"}},
		{"search by location", models.DeviceFilters{Search: "2nd"}, []string{"DEV002"}},
		{"search by id", models.DeviceFilters{Search: "dev002"}, []string{"DEV002"}},
		{"search no match", models.DeviceFilters{Search: "kitchen"}, []string{}},
		{"status online", models.DeviceFilters{Status: models.LivenessOnline}, []string{"DEV001"}},
		{"status offline", models.DeviceFilters{Status: models.LivenessOffline}, []string{"DEV002"}},
		{"status all", models.DeviceFilters{Status: models.LivenessFilterAll}, []string{"DEV001", "DEV002"}},
		{"search and status combined", models.DeviceFilters{Search: "room", Status: models.LivenessOffline}, []string{"DEV002"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devices, err := env.svc.ListDevices(context.Background(), tt.filters)
			if err != nil {
				t.Fatalf("ListDevices failed: %v", err)
			}
			if len(devices) != len(tt.wantIDs) {
				t.Fatalf("Expected %d devices, got %d", len(tt.wantIDs), len(devices))
			}
			for i, want := range tt.wantIDs {
				if devices[i].SensorID != want {
					t.Errorf("Expected device %d to be %s, got %s", i, want, devices[i].SensorID)
				}
			}
		})
	}
}
