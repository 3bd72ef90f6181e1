// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"

	"github.com/breev/aqhub/api"
	"github.com/breev/aqhub/api/middleware"
	"github.com/breev/aqhub/internal/config"
	"github.com/breev/aqhub/internal/database"
	"github.com/breev/aqhub/internal/hubservice"
	"github.com/breev/aqhub/internal/ingest"
	"github.com/breev/aqhub/internal/monitoring"
	"github.com/breev/aqhub/internal/prediction"
	"github.com/breev/aqhub/internal/repository/postgres"
	"github.com/breev/aqhub/internal/repository/redisstore"
	"github.com/breev/aqhub/internal/repository/timescale"
	"github.com/breev/aqhub/internal/retention"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
	ingest     *ingest.Bridge
	retention  *retention.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{config: cfg}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	s.hubservice = initializeHubService(s.config)
	s.monitoring = monitoring.NewService()

	// Set up cleanup event handlers
	s.setupCleanupHandlers()

	// Build the router and wrap it in recovery, CORS and request logging
	router := api.NewRouter(s.hubservice, middleware.AuthConfig{
		AdminPassword: s.config.Auth.AdminPassword,
		TokenPrefix:   s.config.Auth.TokenPrefix,
	})
	router.Resources().SetHealthCheck(handleHealth())

	var handler http.Handler = router
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(handler)
	handler = handlers.RecoveryHandler()(handler)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	// Start the MQTT ingest bridge
	if s.config.MQTT.Enabled {
		s.ingest = ingest.NewBridge(s.config.MQTT, s.hubservice)
		if err := s.ingest.Start(); err != nil {
			nuts.L.Errorf("[Server] Failed to start ingest bridge: %v", err)
			return err
		}
	}

	// Start the retention schedule
	if s.config.Retention.Enabled {
		s.retention = retention.New(s.config.Retention, s.hubservice.Readings)
		if err := s.retention.Start(); err != nil {
			nuts.L.Errorf("[Server] Failed to start retention schedule: %v", err)
			return err
		}
	}

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	if s.ingest != nil {
		s.ingest.Stop()
	}
	if s.retention != nil {
		s.retention.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handleHealth returns a simple health check handler
func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupCleanupHandlers() {
	// Handle device deletion events
	s.hubservice.Cleanup.OnCleanup("device.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Device %s and all associated data deleted", id)
		s.monitoring.RecordEvent("device_deletion", map[string]string{
			"sensor_id": id,
		})
	})

	// Handle reading deletion events
	s.hubservice.Cleanup.OnCleanup("readings.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Readings for sensor %s deleted", id)
		s.monitoring.RecordEvent("readings_deletion", map[string]string{
			"sensor_id": id,
		})
	})
}

// initializeHubService creates and configures the hub service
func initializeHubService(cfg *config.Config) *hubservice.HubService {
	// Initialize database connections
	tsdb := initTimescaleDB(cfg.Database.TimescaleDB)
	appDB := initAppDB(cfg.Database.AppDB)

	// Initialize repositories
	devices := postgres.NewDeviceRepository(appDB)
	settings := postgres.NewSettingsRepository(appDB)

	readings, err := timescale.NewReadingRepository(tsdb)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize reading repository: %v", err)
	}

	predictions, err := redisstore.NewPredictionRepository(cfg.Redis)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize prediction repository: %v", err)
	}

	forecaster := prediction.NewClient(cfg.Prediction)

	// Validated at config load, so this cannot fail here
	bucketLoc, err := time.LoadLocation(cfg.Analytics.BucketTimezone)
	if err != nil {
		nuts.L.Fatalf("[Server] Invalid bucket timezone: %v", err)
	}

	return hubservice.New(devices, readings, predictions, settings, forecaster, bucketLoc, cfg.PublicURL)
}

func initTimescaleDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewTimescaleDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to TimescaleDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping TimescaleDB: %v", err)
	}
	return wrappedDB
}

func initAppDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to AppDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping AppDB: %v", err)
	}
	return wrappedDB
}
