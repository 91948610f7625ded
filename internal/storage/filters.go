package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/runnerr0/linktrack/internal/urlutil"
)

// AddFilter registers a URL filter. The pattern is required; a regex pattern
// must compile. A duplicate (pattern, match type) pair reports ErrExists.
func (s *Store) AddFilter(ctx context.Context, pattern, matchType, description string) (*URLFilter, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("%w: filter pattern is required", ErrInvalid)
	}

	switch matchType {
	case MatchDomain, MatchPrefix, MatchContains:
	case MatchRegex:
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: invalid regex %q: %v", ErrInvalid, pattern, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown match type %q", ErrInvalid, matchType)
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM url_filters WHERE pattern = ? AND match_type = ?",
		pattern, matchType).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check filter: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("filter %q (%s): %w", pattern, matchType, ErrExists)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO url_filters (pattern, match_type, description) VALUES (?, ?, ?)",
		pattern, matchType, description)
	if err != nil {
		return nil, fmt.Errorf("insert filter: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &URLFilter{
		ID: id, Pattern: pattern, MatchType: matchType,
		Active: true, Description: description,
	}, nil
}

// GetFilters returns registered URL filters, optionally only active ones.
func (s *Store) GetFilters(ctx context.Context, activeOnly bool) ([]URLFilter, error) {
	query := "SELECT id, pattern, match_type, is_active, description FROM url_filters"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query filters: %w", err)
	}
	defer rows.Close()

	filters := []URLFilter{}
	for rows.Next() {
		var f URLFilter
		if err := rows.Scan(&f.ID, &f.Pattern, &f.MatchType, &f.Active, &f.Description); err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		filters = append(filters, f)
	}
	return filters, rows.Err()
}

// SetFilterActive toggles a filter on or off. Returns false when no row
// matched.
func (s *Store) SetFilterActive(ctx context.Context, id int64, active bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE url_filters SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return false, fmt.Errorf("set filter active: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteFilter removes a filter.
func (s *Store) DeleteFilter(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM url_filters WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete filter: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ShouldTrack reports whether url passes every active filter. Evaluation
// short-circuits on the first match, in no guaranteed order. The predicate
// has no side effects; whether ingestion honors it is the caller's business.
func (s *Store) ShouldTrack(ctx context.Context, url string) (bool, error) {
	filters, err := s.GetFilters(ctx, true)
	if err != nil {
		return false, err
	}

	for _, f := range filters {
		if f.Matches(url) {
			return false, nil
		}
	}
	return true, nil
}

// Matches reports whether url matches the filter's pattern under its match
// type. A domain pattern matches the exact host and any subdomain; an
// invalid regex matches nothing.
func (f *URLFilter) Matches(url string) bool {
	switch f.MatchType {
	case MatchDomain:
		domain := urlutil.Domain(url)
		if domain == "" {
			return false
		}
		pattern := strings.ToLower(f.Pattern)
		return domain == pattern || strings.HasSuffix(domain, "."+pattern)
	case MatchPrefix:
		return strings.HasPrefix(url, f.Pattern)
	case MatchContains:
		return strings.Contains(url, f.Pattern)
	case MatchRegex:
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(url)
	}
	return false
}
