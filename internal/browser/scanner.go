package browser

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/linktrack/internal/logger"
	"github.com/runnerr0/linktrack/internal/timeutil"
	"github.com/runnerr0/linktrack/internal/urlutil"
)

const defaultMaxItems = 1000

// Scanner reads visit events out of Chromium history databases. It never
// touches a live store directly; every scan works on a private snapshot copy
// that is removed before the scan returns.
type Scanner struct {
	log      logger.Logger
	maxItems int
}

func NewScanner(log logger.Logger, maxItems int) *Scanner {
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	return &Scanner{log: log, maxItems: maxItems}
}

// Scan returns the visit events recorded in p's history since the watermark,
// newest first, capped at the configured maximum. A zero watermark means the
// full history (still capped). Visits to the same URL are coalesced to one
// event carrying the newest visit time.
func (s *Scanner) Scan(ctx context.Context, p Profile, since time.Time) ([]VisitEvent, error) {
	path, cleanup, err := snapshot(p.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("scan %s/%s: %w", p.Browser, p.Name, err)
	}
	defer cleanup()

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer db.Close()

	query := `
		SELECT u.url, u.title, u.visit_count, MAX(v.visit_time)
		FROM urls u
		JOIN visits v ON u.id = v.url`
	args := []interface{}{}
	if !since.IsZero() {
		query += " WHERE v.visit_time > ?"
		args = append(args, timeutil.ToChromium(since))
	}
	query += `
		GROUP BY u.url
		ORDER BY 4 DESC
		LIMIT ?`
	args = append(args, s.maxItems)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var events []VisitEvent
	for rows.Next() {
		var url string
		var title sql.NullString
		var visitCount, ticks int64
		if err := rows.Scan(&url, &title, &visitCount, &ticks); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if url == "" {
			continue
		}

		cleaned := urlutil.CleanTitle(title.String)
		if cleaned == "" {
			cleaned = url
		}

		events = append(events, VisitEvent{
			URL:        url,
			Title:      cleaned,
			VisitCount: visitCount,
			VisitedAt:  timeutil.FromChromium(ticks),
			Browser:    p.Browser,
			Profile:    p.Name,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history rows: %w", err)
	}

	s.log.Debug("history scan complete",
		logger.String("browser", p.Browser),
		logger.String("profile", p.Name),
		logger.Int("events", len(events)))

	return events, nil
}
