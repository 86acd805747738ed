package proofstore

import "strings"

// Format identifies the markup language of a stored body.
type Format int

const (
	// FormatPlain renders the body as escaped literal text.
	FormatPlain Format = iota
	// FormatMarkdown renders the body as Markdown with math typesetting.
	FormatMarkdown
	// FormatHTML sanitizes the body as raw HTML.
	FormatHTML
	// FormatLatex renders the body as math-heavy Markdown.
	FormatLatex
)

// Canonical format names as stored in the database.
const (
	FormatNamePlain    = "plain"
	FormatNameMarkdown = "markdown"
	FormatNameHTML     = "html"
	FormatNameLatex    = "latex"
)

// FormatNames returns the canonical format names in declaration order.
func FormatNames() []string {
	return []string{FormatNamePlain, FormatNameMarkdown, FormatNameHTML, FormatNameLatex}
}

// ParseFormat maps a stored format name to a Format. Matching is
// case-insensitive and ignores surrounding whitespace. Unknown or empty
// names map to FormatPlain so stale rows still render as literal text.
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatNameMarkdown:
		return FormatMarkdown
	case FormatNameHTML:
		return FormatHTML
	case FormatNameLatex:
		return FormatLatex
	default:
		return FormatPlain
	}
}

// IsValidFormatName reports whether name is an exact canonical format name.
// Storage validation uses this strict form; rendering uses ParseFormat.
func IsValidFormatName(name string) bool {
	switch name {
	case FormatNamePlain, FormatNameMarkdown, FormatNameHTML, FormatNameLatex:
		return true
	}
	return false
}

// String returns the canonical name for the format.
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return FormatNameMarkdown
	case FormatHTML:
		return FormatNameHTML
	case FormatLatex:
		return FormatNameLatex
	default:
		return FormatNamePlain
	}
}
