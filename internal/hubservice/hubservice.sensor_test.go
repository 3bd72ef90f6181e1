package hubservice

import (
	"context"
	"testing"
	"time"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
)

func TestGetSensorHistory(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "S1", "Living Room", "1st floor")
	addReading(env.readings, "S1", 40, 500, testNow.Add(-3*time.Hour))
	addReading(env.readings, "S1", 55, 540, testNow.Add(-time.Hour))
	addReading(env.readings, "S1", 90, 700, testNow.Add(-30*time.Hour)) // outside 24h
	addReading(env.readings, "S2", 120, 800, testNow.Add(-time.Minute))

	history, err := env.svc.GetSensorHistory(context.Background(), "S1")
	if err != nil {
		t.Fatalf("GetSensorHistory failed: %v", err)
	}

	if history.Current.AQICalculated != 55 {
		t.Errorf("Expected current reading AQI 55, got %f", history.Current.AQICalculated)
	}
	if history.Current.Name != "Living Room" || history.Current.Location != "1st floor" {
		t.Errorf("Expected registry metadata merged in, got %+v", history.Current)
	}

	if len(history.Historical) != 2 {
		t.Fatalf("Expected 2 readings in the 24h window, got %d", len(history.Historical))
	}
	if history.Historical[0].AQICalculated != 40 {
		t.Errorf("Expected history oldest first, got %+v", history.Historical)
	}
}

func TestGetSensorHistory_UnregisteredSensor(t *testing.T) {
	env := newTestService(t)
	// Readings exist but no registry record: metadata stays empty.
	addReading(env.readings, "S1", 40, 500, testNow.Add(-time.Hour))

	history, err := env.svc.GetSensorHistory(context.Background(), "S1")
	if err != nil {
		t.Fatalf("GetSensorHistory failed: %v", err)
	}
	if history.Current.Name != "" || history.Current.Location != "" {
		t.Errorf("Expected empty metadata for unregistered sensor, got %+v", history.Current)
	}
}

func TestGetSensorHistory_NoData(t *testing.T) {
	env := newTestService(t)
	addDevice(env.devices, "S1", "Living Room", "1st floor")

	_, err := env.svc.GetSensorHistory(context.Background(), "S1")
	if !errors.IsNotFound(err) {
		t.Fatalf("Expected not-found for a sensor that never reported, got %v", err)
	}
}

func TestRecordReading(t *testing.T) {
	env := newTestService(t)

	reading := &models.SensorReading{SensorID: "S1", AQICalculated: 42, CO2PPM: 510}
	if err := env.svc.RecordReading(context.Background(), reading); err != nil {
		t.Fatalf("RecordReading failed: %v", err)
	}

	if len(env.readings.readings) != 1 {
		t.Fatalf("Expected 1 stored reading, got %d", len(env.readings.readings))
	}
	if !env.readings.readings[0].Timestamp.Equal(testNow) {
		t.Errorf("Expected missing timestamp stamped with the current time, got %s",
			env.readings.readings[0].Timestamp)
	}
}

func TestRecordReading_MissingSensorID(t *testing.T) {
	env := newTestService(t)

	err := env.svc.RecordReading(context.Background(), &models.SensorReading{AQICalculated: 42})
	if !errors.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if len(env.readings.readings) != 0 {
		t.Error("Expected nothing stored for an invalid reading")
	}
}
