// FilePath: internal/repository/postgres/postgres.device.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/breev/aqhub/internal/database"
	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

type DeviceRepo struct {
	PostgresBaseRepo
}

func NewDeviceRepository(db database.DB) *DeviceRepo {
	repo := &DeviceRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		nuts.L.Errorf("[DeviceRepo] Failed to initialize schema: %v", err)
	}
	return repo
}

func (r *DeviceRepo) initializeSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS devices (
			sensor_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			qr_code TEXT NOT NULL DEFAULT '',
			installed_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`

	_, err := r.db.GetDB().Exec(query)
	if err != nil {
		return errors.NewDatabaseError("failed to initialize devices schema", err)
	}
	return nil
}

func (r *DeviceRepo) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (
			sensor_id, name, location, status, qr_code,
			installed_date, created_at, updated_at
		) VALUES (
			:sensor_id, :name, :location, :status, :qr_code,
			:installed_date, :created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, device)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return errors.NewConflictError("device already registered", err)
		}
		return errors.NewDatabaseError("failed to create device", err)
	}
	return nil
}

func (r *DeviceRepo) Get(ctx context.Context, sensorID string) (*models.Device, error) {
	device := &models.Device{}
	query := `SELECT * FROM devices WHERE sensor_id = $1`

	err := r.db.GetDB().GetContext(ctx, device, query, sensorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device", err)
	}
	return device, nil
}

func (r *DeviceRepo) Update(ctx context.Context, device *models.Device) error {
	query := `
		UPDATE devices SET
			name = :name,
			location = :location,
			status = :status,
			updated_at = :updated_at
		WHERE sensor_id = :sensor_id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, device)
	if err != nil {
		return errors.NewDatabaseError("failed to update device", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}

	return nil
}

func (r *DeviceRepo) Delete(ctx context.Context, sensorID string) error {
	query := `DELETE FROM devices WHERE sensor_id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, sensorID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete device", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}

	return nil
}

// List returns every registered device in insertion order.
func (r *DeviceRepo) List(ctx context.Context) ([]*models.Device, error) {
	devices := []*models.Device{}
	query := `SELECT * FROM devices ORDER BY created_at ASC`

	err := r.db.GetDB().SelectContext(ctx, &devices, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list devices", err)
	}

	return devices, nil
}
