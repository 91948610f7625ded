package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/runnerr0/linktrack/internal/urlutil"
)

// GetStats returns aggregate statistics about the catalog.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query string
		dst   *int64
	}{
		{"SELECT COUNT(*) FROM links", &stats.TotalLinks},
		{"SELECT COUNT(*) FROM links WHERE is_favorite = 1 AND is_deleted = 0", &stats.FavoriteLinks},
		{"SELECT COUNT(*) FROM links WHERE is_deleted = 1", &stats.DeletedLinks},
		{"SELECT COUNT(*) FROM categories", &stats.TotalCategories},
		{"SELECT COUNT(*) FROM tags", &stats.TotalTags},
		{"SELECT COUNT(*) FROM visits", &stats.TotalVisits},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count query: %w", err)
		}
	}

	if stats.TotalLinks > 0 {
		var oldest, newest string
		err := s.db.QueryRowContext(ctx,
			"SELECT MIN(last_accessed_at), MAX(last_accessed_at) FROM links",
		).Scan(&oldest, &newest)
		if err != nil {
			return nil, fmt.Errorf("access time range: %w", err)
		}
		stats.OldestAccess, _ = parseTime(oldest)
		stats.NewestAccess, _ = parseTime(newest)
	}

	domains, err := s.topDomains(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.TopDomains = domains

	return stats, nil
}

// topDomains counts non-deleted links per domain, top n. Domain extraction
// happens in Go; URLs are too irregular to substring reliably in SQL.
func (s *Store) topDomains(ctx context.Context, n int) ([]DomainCount, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT url FROM links WHERE is_deleted = 0")
	if err != nil {
		return nil, fmt.Errorf("query urls: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		if domain := urlutil.Domain(url); domain != "" {
			counts[domain]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]DomainCount, 0, len(counts))
	for d, c := range counts {
		result = append(result, DomainCount{Domain: d, Count: c})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Domain < result[j].Domain
	})

	if len(result) > n {
		result = result[:n]
	}
	return result, nil
}
