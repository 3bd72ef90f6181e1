// FilePath: internal/prediction/client.go
package prediction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/breev/aqhub/internal/config"
	"github.com/breev/aqhub/internal/errors"
	"github.com/go-resty/resty/v2"
	nuts "github.com/vaudience/go-nuts"
)

// Client calls the external forecasting service. Each call is a single
// synchronous request with a hard timeout; there is no retry.
type Client struct {
	http         *resty.Client
	url          string
	defaultHours int
}

type predictRequest struct {
	SensorID   string `json:"sensor_id"`
	HoursAhead int    `json:"hours_ahead"`
}

func NewClient(cfg config.PredictionConfig) *Client {
	http := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		http.SetHeader("x-api-key", cfg.APIKey)
	}

	return &Client{
		http:         http,
		url:          cfg.URL,
		defaultHours: cfg.DefaultHours,
	}
}

// DefaultHours is the horizon used when the caller does not request one.
func (c *Client) DefaultHours() int {
	return c.defaultHours
}

// Generate requests a fresh forecast for the sensor and returns the upstream
// JSON body unmodified. hoursAhead <= 0 falls back to the configured default.
func (c *Client) Generate(ctx context.Context, sensorID string, hoursAhead int) (json.RawMessage, error) {
	if c.url == "" {
		return nil, errors.NewUpstreamError("prediction service is not configured", nil)
	}
	if hoursAhead <= 0 {
		hoursAhead = c.defaultHours
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(predictRequest{SensorID: sensorID, HoursAhead: hoursAhead}).
		Post(c.url + "/predict")
	if err != nil {
		return nil, errors.NewUpstreamError("prediction service unreachable", err)
	}
	if resp.IsError() {
		return nil, errors.NewUpstreamError(
			fmt.Sprintf("prediction service returned status %d", resp.StatusCode()), nil)
	}

	nuts.L.Infof("[PredictionClient] Generated forecast for sensor %s (%d hours)", sensorID, hoursAhead)
	return json.RawMessage(resp.Body()), nil
}
