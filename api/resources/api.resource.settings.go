// FilePath: api/resources/api.resource.settings.go
package resources

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// SettingsHandlers encapsulates the global settings HTTP handlers
type SettingsHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Get settings
// @Description Get the global configuration document, or defaults if unset
// @Tags settings
// @Produce json
// @Success 200 {object} models.SystemSettings
// @Failure 500 {object} errors.APIError
// @Router /settings [get]
func (h *SettingsHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	settings, err := h.hubservice.GetSettings(r.Context())
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithRawJSON(w, http.StatusOK, settings)
}

// @Summary Save settings
// @Description Upsert the global configuration document
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body models.SystemSettings true "Settings document"
// @Success 200 {object} map[string]string
// @Failure 500 {object} errors.APIError
// @Router /settings [post]
// @Security BearerAuth
func (h *SettingsHandlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, errors.NewValidationError("failed to read request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.SaveSettings(r.Context(), json.RawMessage(body)); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	nuts.L.Infof("[SettingsHandler] Settings saved")
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "settings saved successfully"})
}
