package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateLinkParams holds the fields for a new link.
type CreateLinkParams struct {
	SrcID string
	DstID string
	Rel   string
	Note  string
}

// UpdateLinkParams holds optional link updates. Nil pointers leave the
// stored value unchanged. A new relation is re-validated against the linked
// elements' types.
type UpdateLinkParams struct {
	Rel  *string
	Note *string
}

// ListLinksFilter narrows a link listing.
type ListLinksFilter struct {
	SrcID  string
	DstID  string
	Rel    string
	Limit  int
	Offset int
}

// Direction selects which side of a link an element appears on.
type Direction string

const (
	DirectionOut  Direction = "out"
	DirectionIn   Direction = "in"
	DirectionBoth Direction = "both"
)

// validateLinkSemantics enforces relRules: both elements must exist, be
// distinct, and have types the relation allows.
func (s *Store) validateLinkSemantics(ctx context.Context, srcID, dstID, rel string) error {
	if err := validateRel(rel); err != nil {
		return err
	}
	if srcID == dstID {
		return ErrSelfLink
	}
	srcType, err := s.elementType(ctx, srcID)
	if err != nil {
		return err
	}
	dstType, err := s.elementType(ctx, dstID)
	if err != nil {
		return err
	}
	rule := relRules[rel]
	if !rule.src[srcType] {
		return fmt.Errorf("%w: rel %q requires src type in %s, got %q",
			ErrLinkSemantics, rel, setNames(rule.src), srcType)
	}
	if !rule.dst[dstType] {
		return fmt.Errorf("%w: rel %q requires dst type in %s, got %q",
			ErrLinkSemantics, rel, setNames(rule.dst), dstType)
	}
	return nil
}

func setNames(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for _, t := range ElementTypes() {
		if set[t] {
			names = append(names, t)
		}
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// CreateLink creates a link between two elements, enforcing the semantic
// rules and rejecting duplicates of the same (src, dst, rel).
func (s *Store) CreateLink(ctx context.Context, p CreateLinkParams) (string, error) {
	if err := s.validateLinkSemantics(ctx, p.SrcID, p.DstID, p.Rel); err != nil {
		return "", err
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM element_links WHERE src_id = ? AND dst_id = ? AND rel = ?;",
		p.SrcID, p.DstID, p.Rel).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("checking for duplicate link: %w", err)
	}
	if exists > 0 {
		return "", fmt.Errorf("%w: %s -[%s]-> %s", ErrDuplicateLink, p.SrcID, p.Rel, p.DstID)
	}

	id := uuid.NewString()
	ts := nowUTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO element_links (id, src_id, dst_id, rel, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?);`,
		id, p.SrcID, p.DstID, p.Rel, p.Note, ts, ts)
	if err != nil {
		return "", fmt.Errorf("inserting link: %w", err)
	}
	return id, nil
}

// GetLink retrieves a single link by ID. Returns ErrNotFound if missing.
func (s *Store) GetLink(ctx context.Context, id string) (*Link, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, src_id, dst_id, rel, note, created_at, updated_at
		FROM element_links WHERE id = ?;`, id)

	var l Link
	err := row.Scan(&l.ID, &l.SrcID, &l.DstID, &l.Rel, &l.Note, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: link %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning link: %w", err)
	}
	return &l, nil
}

// ListLinks lists links matching the filter, most recently updated first.
func (s *Store) ListLinks(ctx context.Context, f ListLinksFilter) ([]Link, error) {
	if f.Rel != "" {
		if err := validateRel(f.Rel); err != nil {
			return nil, err
		}
	}
	if f.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	if f.Offset < 0 {
		return nil, ErrInvalidOffset
	}

	var where []string
	var args []any
	if f.SrcID != "" {
		where = append(where, "src_id = ?")
		args = append(args, f.SrcID)
	}
	if f.DstID != "" {
		where = append(where, "dst_id = ?")
		args = append(args, f.DstID)
	}
	if f.Rel != "" {
		where = append(where, "rel = ?")
		args = append(args, f.Rel)
	}

	sb := strings.Builder{}
	sb.WriteString("SELECT id, src_id, dst_id, rel, note, created_at, updated_at FROM element_links")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY updated_at DESC")
	if f.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	} else if f.Offset > 0 {
		sb.WriteString(" LIMIT -1")
	}
	if f.Offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, f.Offset)
	}
	sb.WriteString(";")

	return s.queryLinks(ctx, sb.String(), args...)
}

// ListLinksForElement lists links where the element appears as source,
// destination, or either.
func (s *Store) ListLinksForElement(ctx context.Context, elementID string, direction Direction, rel string, limit int) ([]Link, error) {
	if rel != "" {
		if err := validateRel(rel); err != nil {
			return nil, err
		}
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	var where []string
	var args []any
	switch direction {
	case DirectionOut:
		where = append(where, "src_id = ?")
		args = append(args, elementID)
	case DirectionIn:
		where = append(where, "dst_id = ?")
		args = append(args, elementID)
	case DirectionBoth, "":
		where = append(where, "(src_id = ? OR dst_id = ?)")
		args = append(args, elementID, elementID)
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidDirection, direction)
	}
	if rel != "" {
		where = append(where, "rel = ?")
		args = append(args, rel)
	}

	query := "SELECT id, src_id, dst_id, rel, note, created_at, updated_at FROM element_links WHERE " +
		strings.Join(where, " AND ") + " ORDER BY updated_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryLinks(ctx, query+";", args...)
}

func (s *Store) queryLinks(ctx context.Context, query string, args ...any) ([]Link, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	defer rows.Close()

	var out []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.ID, &l.SrcID, &l.DstID, &l.Rel, &l.Note, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	return out, nil
}

// UpdateLink applies the provided updates to an existing link.
func (s *Store) UpdateLink(ctx context.Context, id string, p UpdateLinkParams) error {
	existing, err := s.GetLink(ctx, id)
	if err != nil {
		return err
	}

	newRel := existing.Rel
	if p.Rel != nil {
		newRel = *p.Rel
		if err := s.validateLinkSemantics(ctx, existing.SrcID, existing.DstID, newRel); err != nil {
			return err
		}
	}
	newNote := existing.Note
	if p.Note != nil {
		newNote = *p.Note
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE element_links SET rel = ?, note = ?, updated_at = ? WHERE id = ?;`,
		newRel, newNote, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating link: %w", err)
	}
	return nil
}

// DeleteLink removes a link by ID. Returns ErrNotFound if missing.
func (s *Store) DeleteLink(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM element_links WHERE id = ?;", id)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: link %s", ErrNotFound, id)
	}
	return nil
}
