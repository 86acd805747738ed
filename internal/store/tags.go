package store

import (
	"context"
	"fmt"
	"strings"
)

// normalizeTag trims a tag and enforces the length bounds.
func normalizeTag(tag string) (string, error) {
	t := strings.TrimSpace(tag)
	if t == "" {
		return "", ErrEmptyTag
	}
	if len(t) > maxTagLength {
		return "", fmt.Errorf("%w: %d characters (max %d)", ErrTagTooLong, len(t), maxTagLength)
	}
	return t, nil
}

// normalizeTags normalizes every tag and drops duplicates, preserving the
// first occurrence order.
func normalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t, err := normalizeTag(tag)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	return out, nil
}

// ListTags returns the element's tags in ascending order.
func (s *Store) ListTags(ctx context.Context, elementID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT tag FROM element_tags WHERE element_id = ? ORDER BY tag ASC;", elementID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// AddTags associates tags with an element, ignoring ones already present.
// Returns the number of tags actually added.
func (s *Store) AddTags(ctx context.Context, elementID string, tags []string) (int, error) {
	norm, err := normalizeTags(tags)
	if err != nil {
		return 0, err
	}
	ts := nowUTC()
	added := 0
	for _, t := range norm {
		res, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO element_tags (element_id, tag, created_at) VALUES (?, ?, ?);",
			elementID, t, ts)
		if err != nil {
			return added, fmt.Errorf("adding tag %q: %w", t, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("adding tag %q: %w", t, err)
		}
		added += int(n)
	}
	return added, nil
}

// RemoveTags removes the given tags from an element. Returns the number of
// tags actually removed.
func (s *Store) RemoveTags(ctx context.Context, elementID string, tags []string) (int, error) {
	norm, err := normalizeTags(tags)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, t := range norm {
		res, err := s.db.ExecContext(ctx,
			"DELETE FROM element_tags WHERE element_id = ? AND tag = ?;", elementID, t)
		if err != nil {
			return removed, fmt.Errorf("removing tag %q: %w", t, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return removed, fmt.Errorf("removing tag %q: %w", t, err)
		}
		removed += int(n)
	}
	return removed, nil
}

// ClearTags removes every tag from an element. Returns the number removed.
func (s *Store) ClearTags(ctx context.Context, elementID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM element_tags WHERE element_id = ?;", elementID)
	if err != nil {
		return 0, fmt.Errorf("clearing tags: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing tags: %w", err)
	}
	return int(n), nil
}

// SetTags replaces the element's tag set.
func (s *Store) SetTags(ctx context.Context, elementID string, tags []string) error {
	norm, err := normalizeTags(tags)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM element_tags WHERE element_id = ?;", elementID); err != nil {
		return fmt.Errorf("replacing tags: %w", err)
	}
	ts := nowUTC()
	for _, t := range norm {
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO element_tags (element_id, tag, created_at) VALUES (?, ?, ?);",
			elementID, t, ts); err != nil {
			return fmt.Errorf("replacing tags: %w", err)
		}
	}
	return nil
}
