package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/runnerr0/linktrack/internal/logger"
)

// Scheduler runs periodic ingestion sweeps. A tick that lands while the
// previous sweep is still running is dropped by the coordinator's guard.
type Scheduler struct {
	coordinator *Coordinator
	log         logger.Logger
	cron        *cron.Cron
}

func NewScheduler(coordinator *Coordinator, log logger.Logger) *Scheduler {
	return &Scheduler{coordinator: coordinator, log: log}
}

// Start schedules a sweep every interval. The first sweep fires after one
// interval, not immediately; callers wanting an immediate pass run Sweep
// themselves first.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid sweep interval %v", interval)
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		_, err := s.coordinator.Sweep(context.Background())
		if errors.Is(err, ErrSweepInProgress) {
			s.log.Warn("sweep still running, skipping this tick")
			return
		}
		if err != nil {
			s.log.Error("scheduled sweep failed", logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.cron.Start()
	s.log.Info("sweep scheduler started", logger.Duration("interval", interval))
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep callback to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("sweep scheduler stopped")
}
