package proofstore

import (
	"regexp"
	"strconv"
	"strings"
)

// Math placeholders use Unicode Private Use Area characters. These are
// guaranteed not to conflict with any standard characters and pass through
// Goldmark and the sanitizer unchanged, so a span lifted out before markup
// conversion can be put back byte-identical afterwards.
const (
	spanStartPlaceholder = "" // U+E002: Private Use Area
	spanEndPlaceholder   = "" // U+E003: Private Use Area
)

// Span is one contiguous run of math notation lifted out of a body before
// markup conversion. Text keeps the delimiters so restoration and later
// typesetting see exactly what the author wrote. Recognition is purely
// syntactic; nothing validates the notation at extraction time.
type Span struct {
	Text    string
	Display bool
}

// mathPatterns is the extraction order. Longest, most specific delimiters
// first: a $$...$$ block must be claimed before $...$ could match inside it.
// The ordering is an invariant, not an accident of the literal.
var mathPatterns = []struct {
	display bool
	re      *regexp.Regexp
}{
	{true, regexp.MustCompile(`(?s)\$\$.+?\$\$`)},
	{true, regexp.MustCompile(`(?s)\\\[.+?\\\]`)},
	{false, regexp.MustCompile(`(?s)\\\(.+?\\\)`)},
	// Single-dollar math must not cross a line break and must hug non-space
	// content on both sides, so currency like "$5 and $10" stays text.
	{false, regexp.MustCompile(`\$[^\s$](?:[^$\n]*?[^\s$])?\$`)},
}

var placeholderPattern = regexp.MustCompile(spanStartPlaceholder + `(\d+)` + spanEndPlaceholder)

// extractMath replaces every recognized math span with an indexed placeholder
// and returns the protected text together with the ordered span list. Each
// pattern runs over the whole remaining text before the next one, so an
// earlier pattern's spans are gone before a later pattern could partially
// match inside them. Unmatched delimiters are left untouched.
func extractMath(text string) (string, []Span) {
	if text == "" {
		return text, nil
	}
	// Stray private-use markers in user content could spoof placeholder
	// indices; drop them before inserting real ones.
	text = strings.ReplaceAll(text, spanStartPlaceholder, "")
	text = strings.ReplaceAll(text, spanEndPlaceholder, "")

	var spans []Span
	for _, p := range mathPatterns {
		text = p.re.ReplaceAllStringFunc(text, func(m string) string {
			spans = append(spans, Span{Text: m, Display: p.display})
			return spanStartPlaceholder + strconv.Itoa(len(spans)-1) + spanEndPlaceholder
		})
	}
	return text, spans
}

// restoreMath substitutes each placeholder with its original span text.
// Out-of-range indices resolve to an empty string rather than failing.
func restoreMath(markup string, spans []Span) string {
	return replacePlaceholders(markup, len(spans), func(idx int) string {
		return spans[idx].Text
	})
}

// replacePlaceholders rewrites every placeholder token using repl, which is
// only called with indices in [0, n). A span enclosed by a later pattern can
// restore to text that itself contains a placeholder, so the scan repeats
// until the markup is clean; n passes always suffice.
func replacePlaceholders(markup string, n int, repl func(idx int) string) string {
	for i := 0; i < n && strings.Contains(markup, spanStartPlaceholder); i++ {
		markup = placeholderPattern.ReplaceAllStringFunc(markup, func(m string) string {
			digits := m[len(spanStartPlaceholder) : len(m)-len(spanEndPlaceholder)]
			idx, err := strconv.Atoi(digits)
			if err != nil || idx < 0 || idx >= n {
				return ""
			}
			return repl(idx)
		})
	}
	return markup
}

// tex returns the span body with its delimiters stripped, for typesetting.
func (s Span) tex() string {
	t := s.Text
	switch {
	case strings.HasPrefix(t, "$$"):
		return strings.TrimSuffix(strings.TrimPrefix(t, "$$"), "$$")
	case strings.HasPrefix(t, `\[`):
		return strings.TrimSuffix(strings.TrimPrefix(t, `\[`), `\]`)
	case strings.HasPrefix(t, `\(`):
		return strings.TrimSuffix(strings.TrimPrefix(t, `\(`), `\)`)
	default:
		return strings.TrimSuffix(strings.TrimPrefix(t, "$"), "$")
	}
}
