// FilePath: internal/repository/postgres/postgres.settings.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/breev/aqhub/internal/database"
	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// settingsType is the key of the single global settings row.
const settingsType = "global"

type SettingsRepo struct {
	PostgresBaseRepo
}

func NewSettingsRepository(db database.DB) *SettingsRepo {
	repo := &SettingsRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		nuts.L.Errorf("[SettingsRepo] Failed to initialize schema: %v", err)
	}
	return repo
}

func (r *SettingsRepo) initializeSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS system_settings (
			type TEXT PRIMARY KEY,
			config JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`

	_, err := r.db.GetDB().Exec(query)
	if err != nil {
		return errors.NewDatabaseError("failed to initialize settings schema", err)
	}
	return nil
}

func (r *SettingsRepo) Get(ctx context.Context) (*models.SettingsRecord, error) {
	record := &models.SettingsRecord{}
	query := `SELECT type, config, updated_at FROM system_settings WHERE type = $1`

	err := r.db.GetDB().GetContext(ctx, record, query, settingsType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("settings not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get settings", err)
	}
	return record, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, config json.RawMessage) error {
	query := `
		INSERT INTO system_settings (type, config, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (type) DO UPDATE SET
			config = EXCLUDED.config,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.GetDB().ExecContext(ctx, query, settingsType, []byte(config), time.Now())
	if err != nil {
		return errors.NewDatabaseError("failed to save settings", err)
	}
	return nil
}
