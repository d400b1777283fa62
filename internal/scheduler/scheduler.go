package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/SPMS-2025/progress-service/internal/services"
)

// Scheduler runs the daily batch sync on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	sync   services.SyncService
	logger *slog.Logger
	spec   string
}

func New(sync services.SyncService, logger *slog.Logger, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		sync:   sync,
		logger: logger,
		spec:   spec,
	}
}

// Start registers the sync job and starts the cron loop. A running batch is
// never cancelled; it proceeds to completion.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.logger.Info("daily sync job running")
		result, err := s.sync.SyncAll(context.Background())
		if err != nil {
			s.logger.Error("daily sync job failed", "error", err)
			return
		}
		s.logger.Info("daily sync completed",
			"total", result.Total,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
			"skipped", result.Skipped)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("sync scheduler started", "spec", s.spec)
	return nil
}

// Stop stops scheduling new runs and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("sync scheduler stopped")
}
