// FilePath: internal/retention/retention.go
package retention

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/breev/aqhub/internal/config"
	"github.com/breev/aqhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

const jobTimeout = 5 * time.Minute

// Service deletes readings older than the configured maximum age on a cron
// schedule.
type Service struct {
	cron     *cron.Cron
	readings repository.ReadingRepository
	cfg      config.RetentionConfig
}

// New creates the retention service; Start installs and runs the schedule.
func New(cfg config.RetentionConfig, readings repository.ReadingRepository) *Service {
	return &Service{
		cron:     cron.New(),
		readings: readings,
		cfg:      cfg,
	}
}

func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	nuts.L.Infof("[Retention] Scheduled reading cleanup %q, max age %v", s.cfg.Schedule, s.cfg.MaxAge)
	return nil
}

func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Service) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	before := time.Now().Add(-s.cfg.MaxAge)
	if err := s.readings.DeleteOldData(ctx, before); err != nil {
		nuts.L.Errorf("[Retention] Failed to delete readings before %v: %v", before, err)
	}
}
