package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/linktrack/internal/urlutil"
)

// linkColumns is the SELECT list every link scan shares.
const linkColumns = `id, url, normalized_url, title, favicon_url,
	created_at, updated_at, last_accessed_at, access_count,
	notes, is_favorite, is_deleted, deleted_at`

// scanLink reads one links row. Works for both *sql.Row and *sql.Rows.
func scanLink(row interface{ Scan(...interface{}) error }) (*Link, error) {
	var l Link
	var createdAt, updatedAt, lastAccessedAt string
	var deletedAt sql.NullString

	err := row.Scan(
		&l.ID, &l.URL, &l.NormalizedURL, &l.Title, &l.FaviconURL,
		&createdAt, &updatedAt, &lastAccessedAt, &l.AccessCount,
		&l.Notes, &l.Favorite, &l.Deleted, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, _ = parseTime(createdAt)
	l.UpdatedAt, _ = parseTime(updatedAt)
	l.LastAccessedAt, _ = parseTime(lastAccessedAt)
	l.DeletedAt = parseNullTime(deletedAt)

	return &l, nil
}

// UpsertLink records a visit to a URL: it inserts a new link on first sight,
// or bumps the existing one. The whole operation (existence check,
// conditional update or insert, visit append, re-fetch) is one transaction,
// so two scans racing on the same new URL cannot produce duplicate rows (the
// unique constraint on url is the backstop).
//
// Rules for an existing active link: access_count always increments; the
// title is replaced only when a non-empty one is supplied; last_accessed_at
// moves only forward, so an out-of-order backfilled visit never regresses it.
// A soft-deleted link is inert: the row is returned unchanged, because the
// user's intent to hide a URL outranks passive history re-discovery. A Visit
// row is appended whenever a browser label is supplied, in every branch.
func (s *Store) UpsertLink(ctx context.Context, p UpsertParams) (*Link, error) {
	if p.URL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalid)
	}

	visitedAt := p.VisitedAt
	if visitedAt.IsZero() {
		visitedAt = time.Now()
	}
	now := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := scanLink(tx.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE url = ?", p.URL))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("look up link: %w", err)
	}

	var linkID int64

	switch {
	case existing == nil:
		res, err := tx.ExecContext(ctx, `
			INSERT INTO links (url, normalized_url, title, favicon_url,
				created_at, updated_at, last_accessed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.URL,
			urlutil.Normalize(p.URL),
			defaultTitle(p.Title, p.URL),
			urlutil.FaviconURL(p.URL),
			formatTime(visitedAt), formatTime(visitedAt), formatTime(visitedAt),
		)
		if err != nil {
			return nil, fmt.Errorf("insert link: %w", err)
		}
		linkID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("insert link id: %w", err)
		}

	case existing.Deleted:
		// Inert. Only the visit audit trail below may grow.
		linkID = existing.ID

	default:
		query := `
			UPDATE links
			SET title = CASE WHEN ? != '' THEN ? ELSE title END,
			    access_count = access_count + 1,
			    updated_at = ?`
		args := []interface{}{p.Title, p.Title, formatTime(now)}

		if visitedAt.After(existing.LastAccessedAt) {
			query += ", last_accessed_at = ?"
			args = append(args, formatTime(visitedAt))
		}

		query += " WHERE id = ?"
		args = append(args, existing.ID)

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("update link: %w", err)
		}
		linkID = existing.ID
	}

	if p.Browser != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO visits (link_id, browser, browser_profile, visited_at)
			VALUES (?, ?, ?, ?)`,
			linkID, p.Browser, p.Profile, formatTime(visitedAt),
		); err != nil {
			return nil, fmt.Errorf("insert visit: %w", err)
		}
	}

	link, err := scanLink(tx.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE id = ?", linkID))
	if err != nil {
		return nil, fmt.Errorf("re-fetch link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}

	return link, nil
}

func defaultTitle(title, url string) string {
	if title == "" {
		return url
	}
	return title
}

// GetLink retrieves a single link by id with its categories and tags, or nil
// when no such row exists.
func (s *Store) GetLink(ctx context.Context, id int64) (*Link, error) {
	link, err := scanLink(s.db.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}

	if err := s.attachAssociations(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// GetLinkByURL retrieves a single link by its exact URL, or nil.
func (s *Store) GetLinkByURL(ctx context.Context, url string) (*Link, error) {
	link, err := scanLink(s.db.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE url = ?", url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link by url: %w", err)
	}

	if err := s.attachAssociations(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// validSortKeys whitelists GetLinks sort columns.
var validSortKeys = map[string]bool{
	"last_accessed_at": true,
	"access_count":     true,
	"created_at":       true,
	"title":            true,
}

// GetLinks returns links matching every set filter in q, each eagerly joined
// with its categories and tags. A sort key outside the whitelist is silently
// replaced by last_accessed_at rather than rejected; descending is the
// default direction.
func (s *Store) GetLinks(ctx context.Context, q LinkQuery) ([]*Link, error) {
	// DISTINCT because the visits join multiplies rows per link.
	query := "SELECT DISTINCT " + prefixColumns("l.") + " FROM links l"
	var clauses []string
	var args []interface{}

	if q.CategoryID != 0 {
		query += " JOIN link_categories lc ON l.id = lc.link_id"
		clauses = append(clauses, "lc.category_id = ?")
		args = append(args, q.CategoryID)
	}

	if q.Browser != "" {
		query += " JOIN visits v ON l.id = v.link_id"
		clauses = append(clauses, "v.browser = ?")
		args = append(args, q.Browser)
	}

	if q.Search != "" {
		clauses = append(clauses, "(l.url LIKE ? OR l.title LIKE ? OR l.notes LIKE ?)")
		pattern := "%" + q.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if q.Days > 0 {
		cutoff := time.Now().AddDate(0, 0, -q.Days)
		clauses = append(clauses, "l.last_accessed_at >= ?")
		args = append(args, formatTime(cutoff))
	}

	switch q.Deleted {
	case DeletedInclude:
		// no clause
	case DeletedOnly:
		clauses = append(clauses, "l.is_deleted = 1")
	default:
		clauses = append(clauses, "l.is_deleted = 0")
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	sortBy := q.SortBy
	if !validSortKeys[sortBy] {
		sortBy = "last_accessed_at"
	}
	dir := "DESC"
	if q.SortAsc {
		dir = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY l.%s %s", sortBy, dir)

	if q.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	links := []*Link{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, link := range links {
		if err := s.attachAssociations(ctx, link); err != nil {
			return nil, err
		}
	}

	return links, nil
}

// prefixColumns qualifies linkColumns with a table alias.
func prefixColumns(prefix string) string {
	cols := strings.Split(linkColumns, ",")
	for i, c := range cols {
		cols[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// attachAssociations loads a link's categories and tags.
func (s *Store) attachAssociations(ctx context.Context, link *Link) error {
	cats, err := s.linkCategories(ctx, link.ID)
	if err != nil {
		return err
	}
	link.Categories = cats

	tags, err := s.linkTags(ctx, link.ID)
	if err != nil {
		return err
	}
	link.Tags = tags

	return nil
}

// UpdateLink applies the non-nil fields of p to a link and bumps updated_at.
// Returns false when no fields were supplied or no row matched.
func (s *Store) UpdateLink(ctx context.Context, id int64, p UpdateLinkParams) (bool, error) {
	var sets []string
	var args []interface{}

	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *p.Notes)
	}
	if p.Favorite != nil {
		sets = append(sets, "is_favorite = ?")
		args = append(args, *p.Favorite)
	}

	if len(sets) == 0 {
		return false, nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE links SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("update link: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ToggleFavorite flips a link's favorite flag. Returns false when no row
// matched.
func (s *Store) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE links
		SET is_favorite = NOT is_favorite, updated_at = ?
		WHERE id = ?`,
		formatTime(time.Now()), id)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteLink soft-deletes a link, or removes it permanently with all
// cascading associations and visits. Soft delete on an already-deleted row
// reports false; callers distinguish outcomes by the affected count, never
// by an error.
func (s *Store) DeleteLink(ctx context.Context, id int64, permanent bool) (bool, error) {
	n, err := s.deleteLinks(ctx, []int64{id}, permanent)
	return n > 0, err
}

// DeleteLinks applies DeleteLink to a set of ids in one transaction and
// returns the count actually affected. Ids already in the target state are
// excluded from the count, not errors.
func (s *Store) DeleteLinks(ctx context.Context, ids []int64, permanent bool) (int64, error) {
	return s.deleteLinks(ctx, ids, permanent)
}

func (s *Store) deleteLinks(ctx context.Context, ids []int64, permanent bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders, args := idArgs(ids)

	var query string
	if permanent {
		query = "DELETE FROM links WHERE id IN (" + placeholders + ")"
	} else {
		now := formatTime(time.Now())
		query = "UPDATE links SET is_deleted = 1, deleted_at = ?, updated_at = ? WHERE id IN (" +
			placeholders + ") AND is_deleted = 0"
		args = append([]interface{}{now, now}, args...)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete links: %w", err)
	}
	return res.RowsAffected()
}

// RestoreLink clears a link's soft-delete state. Only succeeds on a row
// currently soft-deleted; returns false otherwise.
func (s *Store) RestoreLink(ctx context.Context, id int64) (bool, error) {
	n, err := s.RestoreLinks(ctx, []int64{id})
	return n > 0, err
}

// RestoreLinks restores a set of soft-deleted links in one statement and
// returns the count actually restored.
func (s *Store) RestoreLinks(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders, args := idArgs(ids)
	args = append([]interface{}{formatTime(time.Now())}, args...)

	res, err := s.db.ExecContext(ctx, `
		UPDATE links
		SET is_deleted = 0, deleted_at = NULL, updated_at = ?
		WHERE id IN (`+placeholders+`) AND is_deleted = 1`, args...)
	if err != nil {
		return 0, fmt.Errorf("restore links: %w", err)
	}
	return res.RowsAffected()
}

// GetLinkVisits returns a link's visit events, newest first.
func (s *Store) GetLinkVisits(ctx context.Context, linkID int64) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, link_id, browser, browser_profile, visited_at
		FROM visits WHERE link_id = ?
		ORDER BY visited_at DESC`, linkID)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var visitedAt string
		if err := rows.Scan(&v.ID, &v.LinkID, &v.Browser, &v.Profile, &visitedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.VisitedAt, _ = parseTime(visitedAt)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// idArgs builds an IN-clause placeholder list and its args.
func idArgs(ids []int64) (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}
