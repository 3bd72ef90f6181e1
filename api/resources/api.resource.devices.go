// FilePath: api/resources/api.resource.devices.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/hubservice"
	"github.com/breev/aqhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// DeviceHandlers encapsulates the device registry HTTP handlers
type DeviceHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List devices
// @Description List registered devices enriched with liveness state
// @Tags devices
// @Produce json
// @Param search query string false "Substring match on name, location or id"
// @Param status query string false "Liveness filter (all, online, offline)"
// @Success 200 {array} models.EnrichedDevice
// @Failure 500 {object} errors.APIError
// @Router /devices [get]
func (h *DeviceHandlers) ListDevices(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var filters models.DeviceFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	devices, err := h.hubservice.ListDevices(r.Context(), filters)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, devices)
}

// @Summary Register a device
// @Description Register a new sensor unit in the registry
// @Tags devices
// @Accept json
// @Produce json
// @Param device body models.Device true "Device details (sensor_id, name, location)"
// @Success 201 {object} models.Device
// @Failure 400 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Router /devices [post]
// @Security BearerAuth
func (h *DeviceHandlers) CreateDevice(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var device models.Device
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.CreateDevice(r.Context(), &device); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, device)
}

// @Summary Update a device
// @Description Partially update name, location or status of a device
// @Tags devices
// @Accept json
// @Produce json
// @Param sensor_id query string true "Sensor ID"
// @Param update body models.DeviceUpdate true "Fields to change"
// @Success 200 {object} models.Device
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /devices [put]
// @Security BearerAuth
func (h *DeviceHandlers) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	sensorID := r.URL.Query().Get("sensor_id")
	if sensorID == "" {
		respondWithError(w, errors.NewValidationError("sensor_id query parameter is required", nil).WithRequestID(requestID))
		return
	}

	var update models.DeviceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	device, err := h.hubservice.UpdateDevice(r.Context(), sensorID, &update)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, device)
}

// @Summary Remove a device
// @Description Delete a device and its associated readings and forecasts
// @Tags devices
// @Produce json
// @Param sensor_id query string true "Sensor ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /devices [delete]
// @Security BearerAuth
func (h *DeviceHandlers) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	sensorID := r.URL.Query().Get("sensor_id")
	if sensorID == "" {
		respondWithError(w, errors.NewValidationError("sensor_id query parameter is required", nil).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.DeleteDevice(r.Context(), sensorID); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "device deleted successfully"})
}
