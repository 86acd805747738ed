package proofstore

import (
	"html"
	"strings"

	"github.com/wyatt915/treeblood"
)

// Warning reports a math span the typesetter could not render. The span is
// shown as literal text instead; a warning is never a render failure.
type Warning struct {
	Span string
	Err  error
}

// Target is the display container one render call writes into. The caller
// owns it: the pipeline writes the final fragment and any typeset warnings
// into it and retains no reference past the call. Reusing a Target for a new
// render discards everything from the previous one.
type Target struct {
	buf      strings.Builder
	warnings []Warning
}

// HTML returns the rendered markup fragment accumulated so far.
func (t *Target) HTML() string {
	return t.buf.String()
}

// Warnings returns the non-fatal typesetting warnings for the last render.
func (t *Target) Warnings() []Warning {
	return t.warnings
}

// Reset discards any prior rendered output and warnings.
func (t *Target) Reset() {
	t.buf.Reset()
	t.warnings = nil
}

func (t *Target) warn(span string, err error) {
	t.warnings = append(t.warnings, Warning{Span: span, Err: err})
}

// typesetter renders delimited math notation inside final markup into
// typeset output written to a Target.
type typesetter interface {
	Typeset(target *Target, markup string)
}

// treebloodTypesetter converts math spans to MathML using treeblood
// (pure Go). Each call builds a fresh treeblood document, so renders share
// no state and may run concurrently.
type treebloodTypesetter struct{}

// Typeset scans markup with the same delimiter table the extractor uses and
// replaces each recognized span in place with MathML. A span treeblood
// cannot parse is written as escaped literal text and recorded as a warning;
// one bad expression never aborts the rest of the document.
func (treebloodTypesetter) Typeset(target *Target, markup string) {
	protected, spans := extractMath(markup)
	if len(spans) == 0 {
		target.buf.WriteString(markup)
		return
	}

	doc := treeblood.NewDocument(nil, false)
	rendered := make([]string, len(spans))
	for i, span := range spans {
		var mathml string
		var err error
		if span.Display {
			mathml, err = doc.DisplayStyle(span.tex())
		} else {
			mathml, err = doc.TextStyle(span.tex())
		}
		if err != nil {
			target.warn(span.Text, err)
			mathml = "<code>" + html.EscapeString(span.Text) + "</code>"
		}
		rendered[i] = mathml
	}

	target.buf.WriteString(replacePlaceholders(protected, len(spans), func(idx int) string {
		return rendered[idx]
	}))
}
