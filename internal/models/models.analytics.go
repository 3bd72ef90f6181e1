// FilePath: internal/models/models.analytics.go
package models

import "time"

// AnalyticsSummary aggregates the trailing 24h of readings. AvgAQI is rounded
// for display; the unrounded mean stays internal to the aggregation engine.
type AnalyticsSummary struct {
	AvgAQI        int     `json:"avg_aqi"`
	MaxAQI        float64 `json:"max_aqi"`
	MinAQI        float64 `json:"min_aqi"`
	ActiveDevices int     `json:"active_devices"`
}

// TrendPoint is an hourly average bucket. Time is the bucket start formatted
// as "2006-01-02T15:00:00" in the configured bucketing timezone. Hours without
// readings produce no point.
type TrendPoint struct {
	Time string `json:"time"`
	AQI  int    `json:"aqi"`
	CO2  int    `json:"co2"`
}

// Insight compares the current 24h window against the previous one.
type Insight struct {
	Message string `json:"message"`
	Trend   string `json:"trend"` // "good" or "bad"
}

// ChartPoint is one entry of the detailed per-reading series used by the
// dashboard charts, oldest first.
type ChartPoint struct {
	Time        time.Time `json:"time"`
	GasPPM      float64   `json:"gas_ppm"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
}

// AnalyticsReport is the full payload of the analytics endpoint.
type AnalyticsReport struct {
	Summary    AnalyticsSummary `json:"summary"`
	AQITrend   []TrendPoint     `json:"aqi_trend"`
	SensorData []ChartPoint     `json:"sensor_data"`
	Insight    Insight          `json:"insight"`
}
