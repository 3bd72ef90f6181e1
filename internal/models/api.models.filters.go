// FilePath: internal/models/api.models.filters.go
package models

// Device list filter values for the liveness badge.
const (
	LivenessFilterAll     = "all"
	LivenessFilterOnline  = "online"
	LivenessFilterOffline = "offline"
)

// DeviceFilters narrow the enriched device listing. Search matches
// case-insensitively against name, location and sensor id; Status is ANDed
// with the search and applied after enrichment.
type DeviceFilters struct {
	Search string `schema:"search"`
	Status string `schema:"status"`
}

// AnalyticsFilters narrow the detailed chart series of the analytics report.
// The summary, trend and insight computations ignore it.
type AnalyticsFilters struct {
	SensorID string `schema:"sensor_id"`
}
