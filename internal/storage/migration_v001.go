package storage

import "database/sql"

// migrateV001 creates the initial linktrack schema: all tables, indexes, and
// default URL filters. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS links (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			url              TEXT NOT NULL UNIQUE,
			normalized_url   TEXT NOT NULL DEFAULT '',
			title            TEXT NOT NULL DEFAULT '',
			favicon_url      TEXT NOT NULL DEFAULT '',
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_accessed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			access_count     INTEGER NOT NULL DEFAULT 1,
			notes            TEXT NOT NULL DEFAULT '',
			is_favorite      BOOLEAN NOT NULL DEFAULT 0,
			is_deleted       BOOLEAN NOT NULL DEFAULT 0,
			deleted_at       DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			color      TEXT NOT NULL DEFAULT '#808080',
			sort_order INTEGER NOT NULL DEFAULT 0,
			parent_id  INTEGER REFERENCES categories(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS link_categories (
			link_id     INTEGER NOT NULL REFERENCES links(id) ON DELETE CASCADE,
			category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			PRIMARY KEY (link_id, category_id)
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS link_tags (
			link_id INTEGER NOT NULL REFERENCES links(id) ON DELETE CASCADE,
			tag_id  INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (link_id, tag_id)
		)`,

		`CREATE TABLE IF NOT EXISTS visits (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			link_id         INTEGER NOT NULL REFERENCES links(id) ON DELETE CASCADE,
			browser         TEXT NOT NULL DEFAULT '',
			browser_profile TEXT NOT NULL DEFAULT '',
			visited_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS browser_sources (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			browser_name    TEXT NOT NULL,
			profile_name    TEXT NOT NULL,
			profile_path    TEXT NOT NULL,
			is_active       BOOLEAN NOT NULL DEFAULT 1,
			last_scanned_at DATETIME,
			UNIQUE(browser_name, profile_name)
		)`,

		`CREATE TABLE IF NOT EXISTS url_filters (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			pattern     TEXT NOT NULL,
			match_type  TEXT NOT NULL CHECK (match_type IN ('domain', 'prefix', 'contains', 'regex')),
			is_active   BOOLEAN NOT NULL DEFAULT 1,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(pattern, match_type)
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_links_normalized_url ON links(normalized_url)`,
		`CREATE INDEX IF NOT EXISTS idx_links_last_accessed  ON links(last_accessed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_links_access_count   ON links(access_count DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_links_title          ON links(title)`,
		`CREATE INDEX IF NOT EXISTS idx_links_deleted        ON links(is_deleted, deleted_at)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_link_id       ON visits(link_id)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_visited_at    ON visits(visited_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_browser       ON visits(browser)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_parent    ON categories(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_filters_active       ON url_filters(is_active)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return seedDefaultFilters(tx)
}

// seedDefaultFilters inserts filters for URLs that are never worth cataloging.
// Uses INSERT OR IGNORE so re-running is safe.
func seedDefaultFilters(tx *sql.Tx) error {
	type rule struct {
		Pattern     string
		MatchType   string
		Description string
	}

	defaults := []rule{
		{`^https?://localhost`, MatchRegex, "Local development servers"},
		{`^https?://127\.0\.0\.1`, MatchRegex, "Local development servers"},
		{"chrome://", MatchPrefix, "Browser-internal pages"},
		{"edge://", MatchPrefix, "Browser-internal pages"},
		{"about:", MatchPrefix, "Browser-internal pages"},
		{"chrome-extension://", MatchPrefix, "Extension pages"},
		{"accounts.google.com", MatchDomain, "Auth provider - credential privacy"},
		{"login.microsoftonline.com", MatchDomain, "Auth provider - credential privacy"},
	}

	const insertSQL = `INSERT OR IGNORE INTO url_filters (pattern, match_type, description) VALUES (?, ?, ?)`

	for _, r := range defaults {
		if _, err := tx.Exec(insertSQL, r.Pattern, r.MatchType, r.Description); err != nil {
			return err
		}
	}

	return nil
}
