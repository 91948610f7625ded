package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/linktrack/internal/browser"
	"github.com/runnerr0/linktrack/internal/config"
	"github.com/runnerr0/linktrack/internal/ingest"
	"github.com/runnerr0/linktrack/internal/logger"
	"github.com/runnerr0/linktrack/internal/storage"
)

// Execute implements the go-flags Commander interface for ScanCommand.
func (c *ScanCommand) Execute(args []string) error {
	store, cfg, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer store.Close()

	log := newLogger(c.globals, cfg)
	defer log.Sync()

	ctx := context.Background()

	registered, err := registerDiscovered(ctx, store)
	if err != nil {
		return err
	}
	if registered > 0 {
		fmt.Printf("Registered %d new browser source(s)\n", registered)
	}

	if c.DiscoverOnly {
		sources, err := store.GetSources(ctx, false)
		if err != nil {
			return err
		}
		fmt.Printf("%d source(s) registered in total\n", len(sources))
		return nil
	}

	coordinator := newCoordinator(store, cfg, log)
	results, err := coordinator.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	printSweepResults(results)
	return nil
}

// registerDiscovered registers every discovered profile as a source and
// returns how many were new.
func registerDiscovered(ctx context.Context, store *storage.Store) (int, error) {
	existing, err := store.GetSources(ctx, false)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, src := range existing {
		known[src.Browser+"/"+src.Profile] = true
	}

	registered := 0
	for _, p := range browser.Discover() {
		if _, err := store.RegisterSource(ctx, p.Browser, p.Name, p.Path); err != nil {
			return registered, fmt.Errorf("register %s/%s: %w", p.Browser, p.Name, err)
		}
		if !known[p.Browser+"/"+p.Name] {
			registered++
		}
	}
	return registered, nil
}

// newCoordinator wires the coordinator from config.
func newCoordinator(store *storage.Store, cfg *config.Config, log logger.Logger) *ingest.Coordinator {
	scanner := browser.NewScanner(log, cfg.Scan.MaxItems)
	return ingest.NewCoordinator(store, scanner, log, ingest.Options{
		Workers:       cfg.Scan.Workers,
		Lookback:      time.Duration(cfg.Scan.LookbackHours) * time.Hour,
		SourceTimeout: time.Duration(cfg.Scan.SourceTimeoutSeconds) * time.Second,
	})
}

func printSweepResults(results []ingest.SourceResult) {
	if len(results) == 0 {
		fmt.Println("No active sources to scan. Run with --discover-only or check 'sources'.")
		return
	}

	totalNew, totalUpdated, failed := 0, 0, 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  %s/%s: FAILED (%v)\n", r.Browser, r.Profile, r.Err)
			failed++
			continue
		}
		fmt.Printf("  %s/%s: %d new, %d updated, %d skipped (%d events)\n",
			r.Browser, r.Profile, r.New, r.Updated, r.Skipped, r.Total)
		totalNew += r.New
		totalUpdated += r.Updated
	}

	fmt.Printf("Sweep complete: %d new, %d updated", totalNew, totalUpdated)
	if failed > 0 {
		fmt.Printf(", %d source(s) failed", failed)
	}
	fmt.Println()
}
