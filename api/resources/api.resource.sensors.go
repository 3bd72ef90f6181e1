// FilePath: api/resources/api.resource.sensors.go
package resources

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/breev/aqhub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// SensorHandlers encapsulates the sensor data HTTP handlers
type SensorHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Get sensor snapshot and history
// @Description Get the current reading plus the trailing 24h for one sensor
// @Tags sensors
// @Produce json
// @Param id path string true "Sensor ID"
// @Success 200 {object} models.SensorHistory
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [get]
func (h *SensorHandlers) GetSensor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	history, err := h.hubservice.GetSensorHistory(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}
