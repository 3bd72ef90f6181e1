// FilePath: internal/repository/timescale/timescale.readings.go
package timescale

import (
	"context"
	"database/sql"
	"time"

	"github.com/breev/aqhub/internal/database"
	"github.com/breev/aqhub/internal/errors"
	"github.com/breev/aqhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

type ReadingRepo struct {
	db database.DB
}

func NewReadingRepository(db database.DB) (*ReadingRepo, error) {
	repo := &ReadingRepo{db: db}
	err := repo.initializeSchema()
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ReadingRepo) initializeSchema() error {
	// Create hypertable for the sensor reading log
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sensor_logs (
			id TEXT PRIMARY KEY,
			sensor_id TEXT NOT NULL,
			aqi_calculated DOUBLE PRECISION NOT NULL,
			co2_ppm DOUBLE PRECISION NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			humidity DOUBLE PRECISION NOT NULL,
			battery DOUBLE PRECISION,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`SELECT create_hypertable('sensor_logs', 'timestamp',
			chunk_time_interval => INTERVAL '1 day',
			if_not_exists => TRUE
		)`,
		// Index for latest-reading and per-sensor window queries
		`CREATE INDEX IF NOT EXISTS idx_sensor_logs_sensor_timestamp
         ON sensor_logs(sensor_id, timestamp DESC)`,
	}

	for _, query := range queries {
		_, err := r.db.GetDB().Exec(query)
		if err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}
	return nil
}

func (r *ReadingRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *ReadingRepo) InsertReading(ctx context.Context, reading *models.SensorReading) error {
	if reading.ID == "" {
		reading.ID = nuts.NID("sr", 12)
	}
	query := `
		INSERT INTO sensor_logs (id, sensor_id, aqi_calculated, co2_ppm, temperature, humidity, battery, timestamp)
		VALUES (:id, :sensor_id, :aqi_calculated, :co2_ppm, :temperature, :humidity, :battery, :timestamp)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert sensor reading", err)
	}
	return nil
}

// GetReadingsSince returns all readings across sensors from the given instant
// until now, oldest first.
func (r *ReadingRepo) GetReadingsSince(ctx context.Context, since time.Time) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	query := `
		SELECT * FROM sensor_logs
		WHERE timestamp >= $1
		ORDER BY timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, since)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get sensor readings", err)
	}
	return readings, nil
}

// GetReadingsBetween returns readings with start <= timestamp < end.
func (r *ReadingRepo) GetReadingsBetween(ctx context.Context, start, end time.Time) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	query := `
		SELECT * FROM sensor_logs
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get sensor readings", err)
	}
	return readings, nil
}

// GetSensorHistory returns one sensor's readings since the given instant,
// oldest first, capped at limit rows.
func (r *ReadingRepo) GetSensorHistory(ctx context.Context, sensorID string, since time.Time, limit int) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}
	query := `
		SELECT * FROM sensor_logs
		WHERE sensor_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC
		LIMIT $3`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, sensorID, since, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get sensor history", err)
	}
	return readings, nil
}

func (r *ReadingRepo) GetLatestReading(ctx context.Context, sensorID string) (*models.SensorReading, error) {
	reading := &models.SensorReading{}
	query := `
        SELECT * FROM sensor_logs
        WHERE sensor_id = $1
        ORDER BY timestamp DESC
        LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, reading, query, sensorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no readings for sensor", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest sensor reading", err)
	}
	return reading, nil
}

// GetLatestReadings returns the most recent reading of every sensor that has
// ever reported, keyed by sensor id.
func (r *ReadingRepo) GetLatestReadings(ctx context.Context) (map[string]*models.SensorReading, error) {
	// Use a window function to get the latest reading for each sensor efficiently
	query := `
        WITH RankedReadings AS (
            SELECT *,
                   ROW_NUMBER() OVER (PARTITION BY sensor_id ORDER BY timestamp DESC) as rn
            FROM sensor_logs
        )
        SELECT id, sensor_id, aqi_calculated, co2_ppm, temperature, humidity, battery, timestamp
        FROM RankedReadings
        WHERE rn = 1`

	readings := []*models.SensorReading{}
	err := r.db.GetDB().SelectContext(ctx, &readings, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get latest readings", err)
	}

	result := make(map[string]*models.SensorReading)
	for _, reading := range readings {
		result[reading.SensorID] = reading
	}
	return result, nil
}

// GetRecentReadings returns the last limit readings, newest first. An empty
// sensorID returns readings across all sensors.
func (r *ReadingRepo) GetRecentReadings(ctx context.Context, sensorID string, limit int) ([]models.SensorReading, error) {
	readings := []models.SensorReading{}

	if sensorID == "" {
		query := `SELECT * FROM sensor_logs ORDER BY timestamp DESC LIMIT $1`
		if err := r.db.GetDB().SelectContext(ctx, &readings, query, limit); err != nil {
			return nil, errors.NewDatabaseError("failed to get recent readings", err)
		}
		return readings, nil
	}

	query := `SELECT * FROM sensor_logs WHERE sensor_id = $1 ORDER BY timestamp DESC LIMIT $2`
	if err := r.db.GetDB().SelectContext(ctx, &readings, query, sensorID, limit); err != nil {
		return nil, errors.NewDatabaseError("failed to get recent readings", err)
	}
	return readings, nil
}

// GetActiveSensorIDs returns the distinct sensors with at least one reading
// since the given instant.
func (r *ReadingRepo) GetActiveSensorIDs(ctx context.Context, since time.Time) ([]string, error) {
	ids := []string{}
	query := `SELECT DISTINCT sensor_id FROM sensor_logs WHERE timestamp >= $1`

	err := r.db.GetDB().SelectContext(ctx, &ids, query, since)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get active sensors", err)
	}
	return ids, nil
}

func (r *ReadingRepo) DeleteOldData(ctx context.Context, before time.Time) error {
	query := `DELETE FROM sensor_logs WHERE timestamp < $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, before)
	if err != nil {
		return errors.NewDatabaseError("failed to delete old data", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[ReadingRepo] Deleted %d old sensor readings before %v", rows, before)
	return nil
}

func (r *ReadingRepo) DeleteBySensorID(ctx context.Context, sensorID string) error {
	query := `DELETE FROM sensor_logs WHERE sensor_id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, sensorID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete sensor readings", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[ReadingRepo] Deleted %d readings for sensor %s", rows, sensorID)
	return nil
}
