package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RegisterSource registers a (browser, profile) pair for scanning. A pair
// already registered keeps its id, active flag, and watermark; only its
// profile path is refreshed, since browsers occasionally relocate profiles.
func (s *Store) RegisterSource(ctx context.Context, browser, profile, path string) (*BrowserSource, error) {
	if browser == "" || profile == "" {
		return nil, fmt.Errorf("%w: browser and profile are required", ErrInvalid)
	}

	existing, err := s.findSource(ctx, browser, profile)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.ProfilePath != path {
			if _, err := s.db.ExecContext(ctx,
				"UPDATE browser_sources SET profile_path = ? WHERE id = ?",
				path, existing.ID); err != nil {
				return nil, fmt.Errorf("update source path: %w", err)
			}
			existing.ProfilePath = path
		}
		return existing, nil
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO browser_sources (browser_name, profile_name, profile_path) VALUES (?, ?, ?)",
		browser, profile, path)
	if err != nil {
		return nil, fmt.Errorf("insert source: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &BrowserSource{
		ID: id, Browser: browser, Profile: profile,
		ProfilePath: path, Active: true,
	}, nil
}

func (s *Store) findSource(ctx context.Context, browser, profile string) (*BrowserSource, error) {
	src, err := scanSource(s.db.QueryRowContext(ctx, `
		SELECT id, browser_name, profile_name, profile_path, is_active, last_scanned_at
		FROM browser_sources
		WHERE browser_name = ? AND profile_name = ?`, browser, profile))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up source: %w", err)
	}
	return src, nil
}

func scanSource(row interface{ Scan(...interface{}) error }) (*BrowserSource, error) {
	var src BrowserSource
	var lastScanned sql.NullString
	err := row.Scan(&src.ID, &src.Browser, &src.Profile, &src.ProfilePath,
		&src.Active, &lastScanned)
	if err != nil {
		return nil, err
	}
	src.LastScannedAt = parseNullTime(lastScanned)
	return &src, nil
}

// GetSources returns registered browser sources, optionally only active
// ones, ordered by browser then profile.
func (s *Store) GetSources(ctx context.Context, activeOnly bool) ([]BrowserSource, error) {
	query := `
		SELECT id, browser_name, profile_name, profile_path, is_active, last_scanned_at
		FROM browser_sources`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY browser_name, profile_name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	sources := []BrowserSource{}
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, *src)
	}
	return sources, rows.Err()
}

// SetSourceActive enables or disables scanning of a source.
func (s *Store) SetSourceActive(ctx context.Context, id int64, active bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE browser_sources SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return false, fmt.Errorf("set source active: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateScanTime advances a source's watermark. The coordinator calls this
// only after every event from the source has been durably applied.
func (s *Store) UpdateScanTime(ctx context.Context, id int64, t time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE browser_sources SET last_scanned_at = ? WHERE id = ?",
		formatTime(t), id)
	if err != nil {
		return fmt.Errorf("update scan time: %w", err)
	}
	return nil
}
