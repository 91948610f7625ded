package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/runnerr0/linktrack/internal/browser"
	"github.com/runnerr0/linktrack/internal/logger"
	"github.com/runnerr0/linktrack/internal/storage"
)

// ErrSweepInProgress is returned when a sweep is requested while another is
// still running. Overlapping requests are dropped, not queued.
var ErrSweepInProgress = errors.New("ingestion sweep already in progress")

// Scanner produces visit events for one browser profile. Satisfied by
// *browser.Scanner.
type Scanner interface {
	Scan(ctx context.Context, p browser.Profile, since time.Time) ([]browser.VisitEvent, error)
}

// SourceResult is the outcome of one source within a sweep.
type SourceResult struct {
	Browser string
	Profile string
	New     int
	Updated int
	Skipped int
	Total   int
	Err     error
}

// Options tunes a Coordinator.
type Options struct {
	Workers       int           // concurrent source scans, min 1
	Lookback      time.Duration // watermark for sources never scanned
	SourceTimeout time.Duration // per-source deadline, 0 = none
}

// Coordinator drives ingestion sweeps: it scans every active source, feeds
// the events through the catalog's upsert, and advances each source's
// watermark once all of its events have been applied.
type Coordinator struct {
	store   *storage.Store
	scanner Scanner
	log     logger.Logger
	opts    Options

	sweeping atomic.Bool

	// applyMu serializes catalog writes so concurrent workers cannot
	// interleave upserts for the same URL.
	applyMu sync.Mutex
}

func NewCoordinator(store *storage.Store, scanner Scanner, log logger.Logger, opts Options) *Coordinator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Coordinator{store: store, scanner: scanner, log: log, opts: opts}
}

// Sweep runs one ingestion pass over all active sources and returns
// per-source statistics. At most one sweep runs at a time; a request
// arriving mid-sweep gets ErrSweepInProgress.
func (c *Coordinator) Sweep(ctx context.Context) ([]SourceResult, error) {
	if !c.sweeping.CompareAndSwap(false, true) {
		return nil, ErrSweepInProgress
	}
	defer c.sweeping.Store(false)

	start := time.Now().UTC()

	sources, err := c.store.GetSources(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, nil
	}

	seen := newSweepSet()
	results := make([]SourceResult, len(sources))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < c.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.processSource(ctx, sources[i], start, seen)
			}
		}()
	}
	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			c.log.Error("source ingestion failed",
				logger.String("browser", r.Browser),
				logger.String("profile", r.Profile),
				logger.Error(r.Err))
			continue
		}
		c.log.Info("source ingested",
			logger.String("browser", r.Browser),
			logger.String("profile", r.Profile),
			logger.Int("new", r.New),
			logger.Int("updated", r.Updated),
			logger.Int("skipped", r.Skipped),
			logger.Int("total", r.Total))
	}

	return results, nil
}

// processSource scans one source and applies its events. The watermark
// advances to the sweep start only when every event applied cleanly; any
// failure holds it so the remainder is retried next sweep.
func (c *Coordinator) processSource(ctx context.Context, src storage.BrowserSource, start time.Time, seen *sweepSet) SourceResult {
	result := SourceResult{Browser: src.Browser, Profile: src.Profile}

	if c.opts.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.SourceTimeout)
		defer cancel()
	}

	since := src.LastScannedAt
	if since.IsZero() && c.opts.Lookback > 0 {
		since = start.Add(-c.opts.Lookback)
	}

	profile := browser.Profile{Browser: src.Browser, Name: src.Profile, Path: src.ProfilePath}
	events, err := c.scanner.Scan(ctx, profile, since)
	if err != nil {
		result.Err = fmt.Errorf("scan: %w", err)
		return result
	}
	result.Total = len(events)

	for i := range events {
		if err := c.applyEvent(ctx, &events[i], seen, &result); err != nil {
			result.Err = fmt.Errorf("apply %s: %w", events[i].URL, err)
			return result
		}
	}

	if err := c.store.UpdateScanTime(ctx, src.ID, start); err != nil {
		result.Err = fmt.Errorf("advance watermark: %w", err)
	}
	return result
}

// applyEvent upserts one visit event. URLs already applied this sweep and
// URLs rejected by the active filters are skipped.
func (c *Coordinator) applyEvent(ctx context.Context, ev *browser.VisitEvent, seen *sweepSet, result *SourceResult) error {
	if !seen.add(ev.URL) {
		result.Skipped++
		return nil
	}

	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	track, err := c.store.ShouldTrack(ctx, ev.URL)
	if err != nil {
		return err
	}
	if !track {
		result.Skipped++
		return nil
	}

	existing, err := c.store.GetLinkByURL(ctx, ev.URL)
	if err != nil {
		return err
	}

	_, err = c.store.UpsertLink(ctx, storage.UpsertParams{
		URL:       ev.URL,
		Title:     ev.Title,
		Browser:   ev.Browser,
		Profile:   ev.Profile,
		VisitedAt: ev.VisitedAt,
	})
	if err != nil {
		return err
	}

	if existing == nil {
		result.New++
	} else {
		result.Updated++
	}
	return nil
}

// sweepSet is the working set of URLs applied during one sweep. It lives
// exactly as long as the sweep; nothing carries over between runs.
type sweepSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

func newSweepSet() *sweepSet {
	return &sweepSet{urls: make(map[string]struct{})}
}

// add records url and reports whether it was new to this sweep.
func (s *sweepSet) add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}
