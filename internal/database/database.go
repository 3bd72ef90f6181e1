// FilePath: internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/breev/aqhub/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

// Pool sizing for both connections. The hub serves a single dashboard, so a
// small pool is plenty; idle connections age out so restarts of the database
// do not leave dead sockets around.
const (
	maxOpenConns    = 16
	maxIdleConns    = 4
	connMaxLifetime = 30 * time.Minute
)

// DB abstracts the two Postgres-protocol stores: the app database holding the
// device registry and settings, and the TimescaleDB instance holding the
// reading log.
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
}

// Transaction is the subset of sqlx.Tx the repositories use.
type Transaction interface {
	Commit() error
	Rollback() error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Repository represents common repository operations
type Repository interface {
	BeginTx(ctx context.Context) (Transaction, error)
}

type pgConn struct {
	db *sqlx.DB
}

func connect(cfg config.PostgresConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	return db, nil
}

// NewPostgresDB connects to the application database (registry, settings).
func NewPostgresDB(cfg config.PostgresConfig) (DB, error) {
	db, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}

	nuts.L.Infof("[AppDB] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return &pgConn{db: db}, nil
}

// NewTimescaleDB connects to the reading-log database and verifies the
// timescaledb extension is installed, since the hypertable setup depends on it.
func NewTimescaleDB(cfg config.PostgresConfig) (DB, error) {
	db, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("error connecting to TimescaleDB: %w", err)
	}

	var hasExtension bool
	err = db.Get(&hasExtension, "SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'timescaledb')")
	if err != nil || !hasExtension {
		db.Close()
		return nil, fmt.Errorf("TimescaleDB extension not available on %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	}

	nuts.L.Infof("[TimescaleDB] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return &pgConn{db: db}, nil
}

func (c *pgConn) Close() error {
	return c.db.Close()
}

func (c *pgConn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *pgConn) GetDB() *sqlx.DB {
	return c.db
}
