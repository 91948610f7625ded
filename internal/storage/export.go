package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/runnerr0/linktrack/internal/urlutil"
)

// ExportVersion identifies the transfer document layout.
const ExportVersion = "1.0"

// ExportDocument is the versioned transfer format for export and import.
// Category hierarchy is flattened: parent relationships are not round-tripped.
type ExportDocument struct {
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Links      []ExportedLink     `json:"links"`
	Categories []ExportedCategory `json:"categories"`
	Tags       []string           `json:"tags"`
}

// ExportedLink is a link with denormalized category and tag name lists.
type ExportedLink struct {
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Notes          string    `json:"notes,omitempty"`
	Favorite       bool      `json:"is_favorite"`
	AccessCount    int64     `json:"access_count"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	Categories     []string  `json:"categories"`
	Tags           []string  `json:"tags"`
}

type ExportedCategory struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ImportStats summarizes an import merge.
type ImportStats struct {
	LinksNew      int
	LinksMerged   int
	LinksSkipped  int
	NewCategories int
	NewTags       int
}

// Export serializes all non-deleted links plus the full category and tag
// catalogs into a transfer document.
func (s *Store) Export(ctx context.Context) (*ExportDocument, error) {
	links, err := s.GetLinks(ctx, LinkQuery{})
	if err != nil {
		return nil, fmt.Errorf("export links: %w", err)
	}

	doc := &ExportDocument{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Links:      make([]ExportedLink, 0, len(links)),
		Categories: []ExportedCategory{},
		Tags:       []string{},
	}

	for _, l := range links {
		el := ExportedLink{
			URL:            l.URL,
			Title:          l.Title,
			Notes:          l.Notes,
			Favorite:       l.Favorite,
			AccessCount:    l.AccessCount,
			CreatedAt:      l.CreatedAt,
			LastAccessedAt: l.LastAccessedAt,
			Categories:     []string{},
			Tags:           []string{},
		}
		for _, c := range l.Categories {
			el.Categories = append(el.Categories, c.Name)
		}
		for _, t := range l.Tags {
			el.Tags = append(el.Tags, t.Name)
		}
		doc.Links = append(doc.Links, el)
	}

	roots, err := s.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("export categories: %w", err)
	}
	var walk func(cats []*Category)
	walk = func(cats []*Category) {
		for _, c := range cats {
			doc.Categories = append(doc.Categories, ExportedCategory{Name: c.Name, Color: c.Color})
			walk(c.Children)
		}
	}
	walk(roots)

	tags, err := s.GetTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("export tags: %w", err)
	}
	for _, t := range tags {
		doc.Tags = append(doc.Tags, t.Name)
	}

	return doc, nil
}

// Import merges a transfer document into the catalog; it never replaces.
// Categories and tags are created or skipped by name. An incoming link whose
// URL is unknown is inserted with its imported stats. One matching an active
// link merges: access_count becomes max of the two plus one for the import
// itself, last_accessed_at keeps the most recent value, and title, notes,
// and favorite fill in only where the existing value is empty. One matching
// a soft-deleted link is skipped entirely; deletion wins over resurrection.
func (s *Store) Import(ctx context.Context, doc *ExportDocument) (*ImportStats, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil import document", ErrInvalid)
	}

	stats := &ImportStats{}

	for _, c := range doc.Categories {
		_, err := s.CreateCategory(ctx, c.Name, c.Color, 0)
		if err != nil {
			if isExpected(err) {
				continue
			}
			return nil, fmt.Errorf("import category %q: %w", c.Name, err)
		}
		stats.NewCategories++
	}

	existingTags := make(map[string]bool)
	tags, err := s.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		existingTags[t.Name] = true
	}
	for _, name := range doc.Tags {
		if existingTags[name] {
			continue
		}
		if _, err := s.CreateTag(ctx, name); err != nil {
			if isExpected(err) {
				continue
			}
			return nil, fmt.Errorf("import tag %q: %w", name, err)
		}
		stats.NewTags++
	}

	for i := range doc.Links {
		if err := s.importLink(ctx, &doc.Links[i], stats); err != nil {
			return nil, err
		}
	}

	return stats, nil
}

func (s *Store) importLink(ctx context.Context, el *ExportedLink, stats *ImportStats) error {
	if el.URL == "" {
		stats.LinksSkipped++
		return nil
	}

	existing, err := s.GetLinkByURL(ctx, el.URL)
	if err != nil {
		return fmt.Errorf("import link %q: %w", el.URL, err)
	}

	var linkID int64
	now := formatTime(time.Now())

	switch {
	case existing == nil:
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO links (url, normalized_url, title, notes, is_favorite,
				access_count, created_at, updated_at, last_accessed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			el.URL, urlutil.Normalize(el.URL), defaultTitle(el.Title, el.URL),
			el.Notes, el.Favorite,
			importCount(el.AccessCount),
			formatTime(orNow(el.CreatedAt)), now,
			formatTime(orNow(el.LastAccessedAt)),
		)
		if err != nil {
			return fmt.Errorf("import insert %q: %w", el.URL, err)
		}
		linkID, err = res.LastInsertId()
		if err != nil {
			return err
		}
		stats.LinksNew++

	case existing.Deleted:
		stats.LinksSkipped++
		return nil

	default:
		merged := existing.AccessCount
		if el.AccessCount > merged {
			merged = el.AccessCount
		}
		merged++ // the import is itself an access

		lastAccessed := existing.LastAccessedAt
		if el.LastAccessedAt.After(lastAccessed) {
			lastAccessed = el.LastAccessedAt
		}

		_, err := s.db.ExecContext(ctx, `
			UPDATE links
			SET access_count = ?,
			    last_accessed_at = ?,
			    title = CASE WHEN title = '' THEN ? ELSE title END,
			    notes = CASE WHEN notes = '' THEN ? ELSE notes END,
			    is_favorite = is_favorite OR ?,
			    updated_at = ?
			WHERE id = ?`,
			merged, formatTime(lastAccessed),
			defaultTitle(el.Title, el.URL), el.Notes, el.Favorite, now,
			existing.ID,
		)
		if err != nil {
			return fmt.Errorf("import merge %q: %w", el.URL, err)
		}
		linkID = existing.ID
		stats.LinksMerged++
	}

	for _, name := range el.Categories {
		cat, err := s.categoryByName(ctx, name)
		if err != nil {
			return err
		}
		if cat == nil {
			continue
		}
		if _, err := s.AddLinkToCategory(ctx, linkID, cat.ID); err != nil {
			return err
		}
	}
	for _, name := range el.Tags {
		if _, err := s.AddTagToLink(ctx, linkID, name); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) categoryByName(ctx context.Context, name string) (*Category, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("category by name: %w", err)
	}
	return s.getCategory(ctx, id)
}

// isExpected reports whether err is one of the expected-race sentinels.
func isExpected(err error) bool {
	return errors.Is(err, ErrExists) || errors.Is(err, ErrInvalid)
}

func importCount(n int64) int64 {
	if n < 1 {
		return 1
	}
	return n
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
