package hubservice

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
)

func TestGetSettings_DefaultsWhenUnset(t *testing.T) {
	env := newTestService(t)

	doc, err := env.svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}

	var settings models.SystemSettings
	if err := json.Unmarshal(doc, &settings); err != nil {
		t.Fatalf("Defaults are not valid JSON: %v", err)
	}
	defaults := models.DefaultSettings()
	if settings.AQIThreshold.Moderate != defaults.AQIThreshold.Moderate {
		t.Errorf("Expected default moderate threshold %d, got %d",
			defaults.AQIThreshold.Moderate, settings.AQIThreshold.Moderate)
	}
	if settings.MQTT.BrokerURL != defaults.MQTT.BrokerURL {
		t.Errorf("Expected default broker %q, got %q", defaults.MQTT.BrokerURL, settings.MQTT.BrokerURL)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	env := newTestService(t)
	doc := json.RawMessage(`{"aqi_threshold":{"moderate":80,"unhealthy":120},"mqtt":{"broker_url":"mqtt://broker.local","topic":"breev/data","qos":1},"notification":{"enabled":true,"channel":["dashboard"]}}`)

	if err := env.svc.SaveSettings(context.Background(), doc); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	got, err := env.svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	var settings models.SystemSettings
	if err := json.Unmarshal(got, &settings); err != nil {
		t.Fatalf("Stored settings are not valid JSON: %v", err)
	}
	if settings.AQIThreshold.Moderate != 80 {
		t.Errorf("Expected saved moderate threshold 80, got %d", settings.AQIThreshold.Moderate)
	}
}

func TestSaveSettings_MalformedDocument(t *testing.T) {
	env := newTestService(t)

	err := env.svc.SaveSettings(context.Background(), json.RawMessage(`{"thresholds":`))
	if !errors.IsValidation(err) {
		t.Fatalf("Expected validation error for malformed JSON, got %v", err)
	}
	if env.settings.record != nil {
		t.Error("Expected nothing stored for a malformed document")
	}
}
