// FilePath: api/resources/api.resource.predictions.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// PredictionHandlers encapsulates the forecast HTTP handlers
type PredictionHandlers struct {
	hubservice *hubservice.HubService
}

type regenerateRequest struct {
	HoursAhead int `json:"hours_ahead"`
}

// @Summary Get forecast
// @Description Get the latest stored forecast, generating one when none exists
// @Tags predictions
// @Produce json
// @Param id path string true "Sensor ID"
// @Success 200 {object} models.Prediction
// @Failure 404 {object} errors.APIError
// @Router /predictions/{id} [get]
func (h *PredictionHandlers) GetPrediction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	doc, err := h.hubservice.GetPrediction(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithRawJSON(w, http.StatusOK, doc)
}

// @Summary Regenerate forecast
// @Description Force a fresh forecast and store it as the new latest
// @Tags predictions
// @Accept json
// @Produce json
// @Param id path string true "Sensor ID"
// @Param body body regenerateRequest false "Optional horizon override"
// @Success 200 {object} models.Prediction
// @Failure 500 {object} errors.APIError
// @Router /predictions/{id} [post]
// @Security BearerAuth
func (h *PredictionHandlers) RegeneratePrediction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var req regenerateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
			return
		}
	}

	doc, err := h.hubservice.RegeneratePrediction(r.Context(), id, req.HoursAhead)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithRawJSON(w, http.StatusOK, doc)
}

// respondWithRawJSON forwards an upstream document without re-encoding it.
func respondWithRawJSON(w http.ResponseWriter, code int, doc json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(doc)
}
