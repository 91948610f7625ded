package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/linktrack/internal/ingest"
)

// Execute implements the go-flags Commander interface for WatchCommand.
func (c *WatchCommand) Execute(args []string) error {
	store, cfg, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	log := newLogger(c.globals, cfg)
	defer log.Sync()

	interval := time.Duration(cfg.Scan.IntervalMinutes) * time.Minute
	if c.Interval != "" {
		interval, err = parseDuration(c.Interval)
		if err != nil {
			return fmt.Errorf("invalid --interval value: %w", err)
		}
	}

	ctx := context.Background()

	if _, err := registerDiscovered(ctx, store); err != nil {
		return err
	}

	coordinator := newCoordinator(store, cfg, log)

	// One sweep right away; the scheduler only fires after an interval.
	results, err := coordinator.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("initial sweep: %w", err)
	}
	printSweepResults(results)

	scheduler := ingest.NewScheduler(coordinator, log)
	if err := scheduler.Start(interval); err != nil {
		return err
	}

	fmt.Printf("Watching %s between sweeps. Ctrl-C to stop.\n", interval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	scheduler.Stop()
	fmt.Println("Stopped.")
	return nil
}
