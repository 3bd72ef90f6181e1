// FilePath: internal/models/models.settings.go
package models

import "time"

// AQIThresholds are the display cutoffs used by the dashboard.
type AQIThresholds struct {
	Moderate  int `json:"moderate"`
	Unhealthy int `json:"unhealthy"`
}

// MQTTSettings describe the broker the ingest bridge subscribes to.
type MQTTSettings struct {
	BrokerURL string `json:"broker_url"`
	Topic     string `json:"topic"`
	QoS       int    `json:"qos"`
}

// NotificationSettings control alerting channels.
type NotificationSettings struct {
	Enabled  bool     `json:"enabled"`
	Channels []string `json:"channel"`
}

// SystemSettings is the single global configuration document.
type SystemSettings struct {
	AQIThreshold AQIThresholds        `json:"aqi_threshold"`
	MQTT         MQTTSettings         `json:"mqtt"`
	Notification NotificationSettings `json:"notification"`
}

// SettingsRecord is the persisted settings row; Config is stored as JSONB.
type SettingsRecord struct {
	Type      string    `db:"type"`
	Config    []byte    `db:"config"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DefaultSettings returns the configuration served before an admin has ever
// saved one.
func DefaultSettings() SystemSettings {
	return SystemSettings{
		AQIThreshold: AQIThresholds{Moderate: 100, Unhealthy: 150},
		MQTT: MQTTSettings{
			BrokerURL: "mqtt://broker.hivemq.com",
			Topic:     "breev/data",
			QoS:       1,
		},
		Notification: NotificationSettings{
			Enabled:  true,
			Channels: []string{"dashboard"},
		},
	}
}
