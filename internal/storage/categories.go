package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CreateCategory creates a category with a unique name. ParentID of 0 means
// top-level; a non-zero parent must reference an existing category. Parent
// links are assigned at creation and never reparented, so the tree cannot
// acquire cycles.
func (s *Store) CreateCategory(ctx context.Context, name, color string, parentID int64) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalid)
	}
	if color == "" {
		color = "#808080"
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE name = ?", name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("category %q: %w", name, ErrExists)
	}

	var parent interface{}
	if parentID != 0 {
		parent = parentID
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, color, parent_id) VALUES (?, ?, ?)",
		name, color, parent)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.getCategory(ctx, id)
}

func (s *Store) getCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	var parent sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, color, sort_order, parent_id FROM categories WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder, &parent)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	c.ParentID = parent.Int64
	return &c, nil
}

// GetCategories returns the category forest: top-level categories with their
// children attached, both levels ordered by sort order then name.
func (s *Store) GetCategories(ctx context.Context) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, sort_order, parent_id
		FROM categories
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var all []*Category
	byID := make(map[int64]*Category)

	for rows.Next() {
		var c Category
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder, &parent); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ParentID = parent.Int64
		all = append(all, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Second pass so children attach regardless of row order.
	roots := []*Category{}
	for _, c := range all {
		if c.ParentID == 0 {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[c.ParentID]; ok {
			parent.Children = append(parent.Children, c)
		}
	}

	return roots, nil
}

// UpdateCategory changes a category's name and/or color. Nil fields are left
// untouched. Returns false when nothing was supplied or no row matched.
func (s *Store) UpdateCategory(ctx context.Context, id int64, name, color *string) (bool, error) {
	var sets []string
	var args []interface{}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return false, fmt.Errorf("%w: category name is required", ErrInvalid)
		}
		sets = append(sets, "name = ?")
		args = append(args, trimmed)
	}
	if color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *color)
	}

	if len(sets) == 0 {
		return false, nil
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteCategory removes a category. Child categories and link associations
// cascade away with it; the links themselves are untouched.
func (s *Store) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddLinkToCategory associates a link with a category. Adding an existing
// association is a no-op reported as false, not an error.
func (s *Store) AddLinkToCategory(ctx context.Context, linkID, categoryID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO link_categories (link_id, category_id) VALUES (?, ?)",
		linkID, categoryID)
	if err != nil {
		return false, fmt.Errorf("add link to category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveLinkFromCategory drops a link-category association.
func (s *Store) RemoveLinkFromCategory(ctx context.Context, linkID, categoryID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM link_categories WHERE link_id = ? AND category_id = ?",
		linkID, categoryID)
	if err != nil {
		return false, fmt.Errorf("remove link from category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// linkCategories loads a link's categories ordered by name.
func (s *Store) linkCategories(ctx context.Context, linkID int64) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.color, c.sort_order, c.parent_id
		FROM categories c
		JOIN link_categories lc ON c.id = lc.category_id
		WHERE lc.link_id = ?
		ORDER BY c.name`, linkID)
	if err != nil {
		return nil, fmt.Errorf("query link categories: %w", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder, &parent); err != nil {
			return nil, fmt.Errorf("scan link category: %w", err)
		}
		c.ParentID = parent.Int64
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
