// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/breev/aqhub/internal/database"
	"github.com/breev/aqhub/internal/models"
)

// DeviceRepository defines the interface for the device registry
type DeviceRepository interface {
	database.Repository
	Create(ctx context.Context, device *models.Device) error
	Get(ctx context.Context, sensorID string) (*models.Device, error)
	Update(ctx context.Context, device *models.Device) error
	Delete(ctx context.Context, sensorID string) error
	List(ctx context.Context) ([]*models.Device, error)
}

// ReadingRepository defines the interface for the append-only sensor reading log
type ReadingRepository interface {
	database.Repository
	InsertReading(ctx context.Context, reading *models.SensorReading) error
	GetReadingsSince(ctx context.Context, since time.Time) ([]models.SensorReading, error)
	GetReadingsBetween(ctx context.Context, start, end time.Time) ([]models.SensorReading, error)
	GetSensorHistory(ctx context.Context, sensorID string, since time.Time, limit int) ([]models.SensorReading, error)
	GetLatestReading(ctx context.Context, sensorID string) (*models.SensorReading, error)
	GetLatestReadings(ctx context.Context) (map[string]*models.SensorReading, error)
	GetRecentReadings(ctx context.Context, sensorID string, limit int) ([]models.SensorReading, error)
	GetActiveSensorIDs(ctx context.Context, since time.Time) ([]string, error)
	DeleteOldData(ctx context.Context, before time.Time) error
	DeleteBySensorID(ctx context.Context, sensorID string) error
}

// PredictionRepository stores the most recent forecast document per sensor.
// Documents are kept as raw JSON so upstream responses pass through unmodified.
type PredictionRepository interface {
	GetLatest(ctx context.Context, sensorID string) (json.RawMessage, error)
	Store(ctx context.Context, sensorID string, doc json.RawMessage) error
	Delete(ctx context.Context, sensorID string) error
}

// SettingsRepository persists the single global settings document
type SettingsRepository interface {
	database.Repository
	Get(ctx context.Context) (*models.SettingsRecord, error)
	Upsert(ctx context.Context, config json.RawMessage) error
}
