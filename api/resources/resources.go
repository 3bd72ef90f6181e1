// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/breev/aqhub/api/middleware"
	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Devices     *DeviceHandlers
	Sensors     *SensorHandlers
	Predictions *PredictionHandlers
	Analytics   *AnalyticsHandlers
	Settings    *SettingsHandlers
	Auth        *AuthHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService, auth *middleware.SharedSecretMiddleware) *Resources {
	return &Resources{
		Devices:     &DeviceHandlers{hubservice: svc},
		Sensors:     &SensorHandlers{hubservice: svc},
		Predictions: &PredictionHandlers{hubservice: svc},
		Analytics:   &AnalyticsHandlers{hubservice: svc},
		Settings:    &SettingsHandlers{hubservice: svc},
		Auth:        &AuthHandlers{auth: auth},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// Shared helpers

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithServiceError maps a service error to its HTTP status, falling
// back to a generic internal error for anything untyped.
func respondWithServiceError(w http.ResponseWriter, err error, requestID string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError("unexpected error", err).WithRequestID(requestID))
}
