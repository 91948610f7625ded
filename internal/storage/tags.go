package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CreateTag creates a tag, or returns the existing one with the same name.
// Tag names never duplicate.
func (s *Store) CreateTag(ctx context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrInvalid)
	}

	var t Tag
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM tags WHERE name = ?", name).Scan(&t.ID, &t.Name)
	if err == nil {
		return &t, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("look up tag: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Tag{ID: id, Name: name}, nil
}

// GetTags returns all tags ordered by name.
func (s *Store) GetTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// AddTagToLink tags a link, creating the tag if needed. A duplicate
// association is a no-op reported as false.
func (s *Store) AddTagToLink(ctx context.Context, linkID int64, tagName string) (bool, error) {
	tag, err := s.CreateTag(ctx, tagName)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO link_tags (link_id, tag_id) VALUES (?, ?)",
		linkID, tag.ID)
	if err != nil {
		return false, fmt.Errorf("add tag to link: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveTagFromLink drops a link-tag association.
func (s *Store) RemoveTagFromLink(ctx context.Context, linkID, tagID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM link_tags WHERE link_id = ? AND tag_id = ?", linkID, tagID)
	if err != nil {
		return false, fmt.Errorf("remove tag from link: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// linkTags loads a link's tags ordered by name.
func (s *Store) linkTags(ctx context.Context, linkID int64) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name
		FROM tags t
		JOIN link_tags lt ON t.id = lt.tag_id
		WHERE lt.link_id = ?
		ORDER BY t.name`, linkID)
	if err != nil {
		return nil, fmt.Errorf("query link tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan link tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
