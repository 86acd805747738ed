package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateElementParams holds the fields for a new element. Format defaults
// to "plain" when empty; Tags may be nil.
type CreateElementParams struct {
	Type   string
	Title  string
	Body   string
	Format string
	Tags   []string
}

// UpdateElementParams holds optional element updates. Nil pointers leave
// the stored value unchanged; a non-nil Tags replaces the tag set.
type UpdateElementParams struct {
	Type   *string
	Title  *string
	Body   *string
	Format *string
	Tags   []string
}

// ListElementsFilter narrows and orders an element listing.
type ListElementsFilter struct {
	Type        string // empty = any
	Format      string // empty = any
	Tag         string // empty = any
	Query       string // substring match on title or body
	Limit       int    // 0 = unlimited
	Offset      int
	OrderBy     string // updated_at (default), created_at, title, type, format
	OrderDesc   bool
	IncludeTags bool
}

var elementOrderColumns = toSet("updated_at", "created_at", "title", "type", "format")

// CreateElement inserts a new element and returns its generated ID.
func (s *Store) CreateElement(ctx context.Context, p CreateElementParams) (string, error) {
	if p.Format == "" {
		p.Format = "plain"
	}
	if err := validateType(p.Type); err != nil {
		return "", err
	}
	if err := validateFormat(p.Format); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.Title) == "" {
		return "", ErrEmptyTitle
	}
	if strings.TrimSpace(p.Body) == "" {
		return "", ErrEmptyBody
	}

	id := uuid.NewString()
	ts := nowUTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO elements (id, type, format, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?);`,
		id, p.Type, p.Format, p.Title, p.Body, ts, ts)
	if err != nil {
		return "", fmt.Errorf("inserting element: %w", err)
	}
	if p.Tags != nil {
		if err := s.SetTags(ctx, id, p.Tags); err != nil {
			return "", err
		}
	}
	return id, nil
}

// GetElement retrieves a single element by ID, optionally with its tags.
// Returns ErrNotFound if no element has that ID.
func (s *Store) GetElement(ctx context.Context, id string, includeTags bool) (*Element, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, format, title, body, created_at, updated_at
		FROM elements WHERE id = ?;`, id)

	var e Element
	err := row.Scan(&e.ID, &e.Type, &e.Format, &e.Title, &e.Body, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: element %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning element: %w", err)
	}
	if includeTags {
		tags, err := s.ListTags(ctx, id)
		if err != nil {
			return nil, err
		}
		e.Tags = tags
	}
	return &e, nil
}

// ListElements lists elements matching the filter.
func (s *Store) ListElements(ctx context.Context, f ListElementsFilter) ([]Element, error) {
	if f.Type != "" {
		if err := validateType(f.Type); err != nil {
			return nil, err
		}
	}
	if f.Format != "" {
		if err := validateFormat(f.Format); err != nil {
			return nil, err
		}
	}
	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "updated_at"
	}
	if !elementOrderColumns[orderBy] {
		return nil, fmt.Errorf("%w: order by %q", ErrInvalidOrder, f.OrderBy)
	}
	if f.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	if f.Offset < 0 {
		return nil, ErrInvalidOffset
	}

	var where []string
	var args []any
	join := ""
	if f.Tag != "" {
		tag, err := normalizeTag(f.Tag)
		if err != nil {
			return nil, err
		}
		join = " JOIN element_tags et ON et.element_id = e.id"
		where = append(where, "et.tag = ?")
		args = append(args, tag)
	}
	if f.Type != "" {
		where = append(where, "e.type = ?")
		args = append(args, f.Type)
	}
	if f.Format != "" {
		where = append(where, "e.format = ?")
		args = append(args, f.Format)
	}
	if f.Query != "" {
		where = append(where, "(e.title LIKE ? OR e.body LIKE ?)")
		like := "%" + f.Query + "%"
		args = append(args, like, like)
	}

	sb := strings.Builder{}
	sb.WriteString("SELECT e.id, e.type, e.format, e.title, e.body, e.created_at, e.updated_at FROM elements e")
	sb.WriteString(join)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	direction := "ASC"
	if f.OrderDesc || f.OrderBy == "" {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY e.%s %s", orderBy, direction)
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

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}
	defer rows.Close()

	var out []Element
	for rows.Next() {
		var e Element
		if err := rows.Scan(&e.ID, &e.Type, &e.Format, &e.Title, &e.Body, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning element: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}
	if f.IncludeTags {
		for i := range out {
			tags, err := s.ListTags(ctx, out[i].ID)
			if err != nil {
				return nil, err
			}
			out[i].Tags = tags
		}
	}
	return out, nil
}

// UpdateElement applies the provided updates to an existing element.
// Returns ErrNotFound if the element does not exist.
func (s *Store) UpdateElement(ctx context.Context, id string, p UpdateElementParams) error {
	existing, err := s.GetElement(ctx, id, false)
	if err != nil {
		return err
	}

	newType := existing.Type
	if p.Type != nil {
		if err := validateType(*p.Type); err != nil {
			return err
		}
		newType = *p.Type
	}
	newFormat := existing.Format
	if p.Format != nil {
		if err := validateFormat(*p.Format); err != nil {
			return err
		}
		newFormat = *p.Format
	}
	newTitle := existing.Title
	if p.Title != nil {
		newTitle = *p.Title
	}
	newBody := existing.Body
	if p.Body != nil {
		newBody = *p.Body
	}
	if strings.TrimSpace(newTitle) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(newBody) == "" {
		return ErrEmptyBody
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE elements
		SET type = ?, format = ?, title = ?, body = ?, updated_at = ?
		WHERE id = ?;`,
		newType, newFormat, newTitle, newBody, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating element: %w", err)
	}
	if p.Tags != nil {
		return s.SetTags(ctx, id, p.Tags)
	}
	return nil
}

// DeleteElement removes an element and, via cascade, its tags and links.
// Returns ErrNotFound if the element does not exist.
func (s *Store) DeleteElement(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM elements WHERE id = ?;", id)
	if err != nil {
		return fmt.Errorf("deleting element: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting element: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: element %s", ErrNotFound, id)
	}
	return nil
}

// elementType returns the type of the element with the given ID, or
// ErrNotFound.
func (s *Store) elementType(ctx context.Context, id string) (string, error) {
	var t string
	err := s.db.QueryRowContext(ctx, "SELECT type FROM elements WHERE id = ?;", id).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: element %s", ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("fetching element type: %w", err)
	}
	return t, nil
}
