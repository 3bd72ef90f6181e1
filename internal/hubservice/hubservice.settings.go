// FilePath: internal/hubservice/hubservice.settings.go
package hubservice

import (
	"context"
	"encoding/json"

	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
)

// GetSettings returns the stored global configuration, or the built-in
// defaults when no admin has saved one yet.
func (s *HubService) GetSettings(ctx context.Context) (json.RawMessage, error) {
	record, err := s.Settings.Get(ctx)
	if err != nil {
		if errors.IsNotFound(err) {
			defaults, marshalErr := json.Marshal(models.DefaultSettings())
			if marshalErr != nil {
				return nil, errors.NewInternalError("failed to marshal default settings", marshalErr)
			}
			return defaults, nil
		}
		return nil, err
	}
	return json.RawMessage(record.Config), nil
}

// SaveSettings validates and upserts the global configuration document.
func (s *HubService) SaveSettings(ctx context.Context, config json.RawMessage) error {
	var settings models.SystemSettings
	if err := json.Unmarshal(config, &settings); err != nil {
		return errors.NewValidationError("malformed settings document", err)
	}
	return s.Settings.Upsert(ctx, config)
}
