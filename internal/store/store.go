// Package store provides SQLite-backed storage for proof elements, their
// tags, and the typed links between them. It owns the schema and the
// semantic rules for link relations; callers turn these operations into CLI
// or HTTP handlers.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	proofstore "github.com/alnah/go-proofstore"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidType      = errors.New("invalid element type")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidRel       = errors.New("invalid link relation")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyBody        = errors.New("body cannot be empty")
	ErrEmptyTag         = errors.New("tag cannot be empty")
	ErrTagTooLong       = errors.New("tag too long")
	ErrSelfLink         = errors.New("src and dst must differ")
	ErrDuplicateLink    = errors.New("duplicate link")
	ErrLinkSemantics    = errors.New("link relation not allowed for these element types")
	ErrInvalidLimit     = errors.New("limit must be >= 1")
	ErrInvalidOffset    = errors.New("offset must be >= 0")
	ErrInvalidOrder     = errors.New("invalid ordering")
	ErrInvalidDirection = errors.New("direction must be out, in, or both")
)

// maxTagLength bounds a single tag.
const maxTagLength = 128

// ElementTypes lists every supported element type in canonical order.
func ElementTypes() []string {
	return []string{
		"definition",
		"axiom",
		"postulate",
		"lemma",
		"proposition",
		"theorem",
		"corollary",
		"proof",
		"example",
		"counterexample",
		"remark",
	}
}

// LinkRelations lists every supported link relation in canonical order.
func LinkRelations() []string {
	return []string{
		"proves",
		"uses",
		"implies",
		"equivalent_to",
		"example_of",
		"counterexample_to",
		"related",
	}
}

// Element type subsets used by the link semantics.
var (
	statements         = toSet("axiom", "postulate", "lemma", "proposition", "theorem", "corollary")
	derivedStatements  = toSet("lemma", "proposition", "theorem", "corollary")
	statementOrDef     = union(statements, toSet("definition"))
	statementLikeForEq = toSet("definition", "lemma", "proposition", "theorem", "corollary")
	anyType            = toSet(ElementTypes()...)
	proofAndStatements = union(statements, toSet("proof"))
)

// relRule names the allowed source and destination element types for one
// link relation.
type relRule struct {
	src map[string]bool
	dst map[string]bool
}

// relRules mirrors typical mathematical relationships between statements:
// a proof proves a derived statement, an example is an example of a
// statement or definition, and so on.
var relRules = map[string]relRule{
	"proves":            {src: toSet("proof"), dst: derivedStatements},
	"uses":              {src: proofAndStatements, dst: statementOrDef},
	"example_of":        {src: toSet("example"), dst: statementLikeForEq},
	"counterexample_to": {src: toSet("counterexample"), dst: statementLikeForEq},
	"equivalent_to":     {src: statementLikeForEq, dst: statementLikeForEq},
	"implies":           {src: statements, dst: statements},
	"related":           {src: anyType, dst: anyType},
}

func toSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// Element is one stored item with a declared body format.
type Element struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Format    string   `json:"format"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
	Tags      []string `json:"tags,omitempty"`
}

// Link is a typed, directed relation between two elements.
type Link struct {
	ID        string `json:"id"`
	SrcID     string `json:"src_id"`
	DstID     string `json:"dst_id"`
	Rel       string `json:"rel"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path, enables
// foreign keys and WAL mode, and initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates the tables and indexes if they do not exist. The
// unique index on (src_id, dst_id, rel) prevents duplicate links of the
// same relation between the same elements.
func (s *Store) initSchema() error {
	typeList := quoteList(ElementTypes())
	relList := quoteList(LinkRelations())
	formatList := quoteList(proofstore.FormatNames())

	stmts := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS elements (
			id         TEXT PRIMARY KEY,
			type       TEXT NOT NULL CHECK(type IN (%s)),
			format     TEXT NOT NULL CHECK(format IN (%s)) DEFAULT 'plain',
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`, typeList, formatList),
		`
		CREATE TABLE IF NOT EXISTS element_tags (
			element_id TEXT NOT NULL,
			tag        TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (element_id, tag),
			FOREIGN KEY (element_id) REFERENCES elements(id) ON DELETE CASCADE
		);`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS element_links (
			id         TEXT PRIMARY KEY,
			src_id     TEXT NOT NULL,
			dst_id     TEXT NOT NULL,
			rel        TEXT NOT NULL CHECK(rel IN (%s)),
			note       TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (src_id) REFERENCES elements(id) ON DELETE CASCADE,
			FOREIGN KEY (dst_id) REFERENCES elements(id) ON DELETE CASCADE
		);`, relList),
		"CREATE INDEX IF NOT EXISTS idx_elements_type ON elements(type);",
		"CREATE INDEX IF NOT EXISTS idx_elements_title ON elements(title);",
		"CREATE INDEX IF NOT EXISTS idx_elements_format ON elements(format);",
		"CREATE INDEX IF NOT EXISTS idx_tags_tag ON element_tags(tag);",
		"CREATE INDEX IF NOT EXISTS idx_tags_element ON element_tags(element_id);",
		"CREATE INDEX IF NOT EXISTS idx_links_src ON element_links(src_id);",
		"CREATE INDEX IF NOT EXISTS idx_links_dst ON element_links(dst_id);",
		"CREATE INDEX IF NOT EXISTS idx_links_rel ON element_links(rel);",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_links_src_dst_rel ON element_links(src_id, dst_id, rel);",
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}
	}
	return nil
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

// nowUTC returns the current UTC timestamp in RFC 3339 format at second
// precision.
func nowUTC() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

func validateType(t string) error {
	if !anyType[t] {
		return fmt.Errorf("%w: %q (must be one of: %s)", ErrInvalidType, t, strings.Join(ElementTypes(), ", "))
	}
	return nil
}

func validateFormat(f string) error {
	if !proofstore.IsValidFormatName(f) {
		return fmt.Errorf("%w: %q (must be one of: %s)", ErrInvalidFormat, f, strings.Join(proofstore.FormatNames(), ", "))
	}
	return nil
}

func validateRel(rel string) error {
	if _, ok := relRules[rel]; !ok {
		return fmt.Errorf("%w: %q (must be one of: %s)", ErrInvalidRel, rel, strings.Join(LinkRelations(), ", "))
	}
	return nil
}
