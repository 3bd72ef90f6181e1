// FilePath: internal/models/models.reading.go
package models

import "time"

// SensorReading is a single measurement reported by a device. Readings are
// append-only and ordered by timestamp per sensor.
type SensorReading struct {
	ID            string    `json:"id" db:"id"`
	SensorID      string    `json:"sensor_id" db:"sensor_id"`
	AQICalculated float64   `json:"aqi_calculated" db:"aqi_calculated"`
	CO2PPM        float64   `json:"co2_ppm" db:"co2_ppm"`
	Temperature   float64   `json:"temperature" db:"temperature"`
	Humidity      float64   `json:"humidity" db:"humidity"`
	Battery       *float64  `json:"battery,omitempty" db:"battery"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
}

// SensorSnapshot is the current reading of a device merged with its registry
// metadata, as served on the room detail endpoint.
type SensorSnapshot struct {
	SensorReading
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
}

// SensorHistory bundles the current snapshot with the trailing-24h series.
type SensorHistory struct {
	Current    SensorSnapshot  `json:"current"`
	Historical []SensorReading `json:"historical"`
}
