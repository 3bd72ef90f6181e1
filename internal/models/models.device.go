// FilePath: internal/models/models.device.go
package models

import "time"

// Device statuses as kept in the registry.
const (
	DeviceStatusActive   = "active"
	DeviceStatusInactive = "inactive"
)

// Liveness badges derived from the most recent reading.
const (
	LivenessOnline  = "online"
	LivenessOffline = "offline"
)

// Device is a registered air-quality sensor unit. SensorID is the unique key
// used by the firmware when publishing readings.
type Device struct {
	SensorID      string    `json:"sensor_id" db:"sensor_id"`
	Name          string    `json:"name" db:"name" writexs:"admin,system"`
	Location      string    `json:"location" db:"location" writexs:"admin,system"`
	Status        string    `json:"status" db:"status" writexs:"admin,system"`
	QRCode        string    `json:"qr_code" db:"qr_code"`
	InstalledDate time.Time `json:"installed_date" db:"installed_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DeviceUpdate carries the mutable registry fields for a partial update.
// Empty fields are left untouched.
type DeviceUpdate struct {
	Name     string `json:"name" writexs:"admin,system"`
	Location string `json:"location" writexs:"admin,system"`
	Status   string `json:"status" writexs:"admin,system"`
}

// EnrichedDevice is a registry record joined with liveness state derived from
// the reading log. Devices that never reported keep zero values; they are
// never dropped from listings.
type EnrichedDevice struct {
	Device
	LivenessStatus string     `json:"liveness_status"`
	LastSeen       *time.Time `json:"last_seen"`
	LatestAQI      float64    `json:"latest_aqi"`
}
