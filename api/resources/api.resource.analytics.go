// FilePath: api/resources/api.resource.analytics.go
package resources

import (
	"net/http"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/hubservice"
	"github.com/breev/aqhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// AnalyticsHandlers encapsulates the aggregation HTTP handlers
type AnalyticsHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Get analytics report
// @Description Get the 24h summary, hourly trend, insight and chart series
// @Tags analytics
// @Produce json
// @Param sensor_id query string false "Narrow the chart series to one sensor"
// @Success 200 {object} models.AnalyticsReport
// @Failure 500 {object} errors.APIError
// @Router /analytics [get]
func (h *AnalyticsHandlers) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var filters models.AnalyticsFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	report, err := h.hubservice.GetAnalytics(r.Context(), filters)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}
