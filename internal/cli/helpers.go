package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/runnerr0/linktrack/internal/config"
	"github.com/runnerr0/linktrack/internal/logger"
	"github.com/runnerr0/linktrack/internal/storage"
)

// loadConfig loads the config file named by --config, or the default
// location (creating it on first run).
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// openDefaultStore loads the config and opens the catalog database with
// migrations applied.
func openDefaultStore(globals *GlobalFlags) (*storage.Store, *config.Config, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}

	return store, cfg, nil
}

// newLogger builds the logger from config, bumped to debug with --verbose.
func newLogger(globals *GlobalFlags, cfg *config.Config) logger.Logger {
	level := cfg.Logging.Level
	if globals != nil && globals.Verbose {
		level = "debug"
	}
	return logger.New(level, cfg.Logging.Pretty)
}

// parseDuration parses a human-friendly duration string like "30d", "24h", "15m".
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration %q (use d, h, w, or m suffix)", s)
	}
}

// parseIDs converts positional args to link ids.
func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one id is required")
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formatTimeAgo renders t relative to now, e.g. "3h ago".
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
