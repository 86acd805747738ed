package proofstore

import (
	"context"
	"html"
)

// Unit is one piece of content to render: a declared format and a raw body.
// Units are constructed fresh per render call and never mutated by the
// pipeline.
type Unit struct {
	Format Format
	Body   string
}

// Renderer orchestrates the format-aware rendering pipeline:
// math extraction, markup conversion, sanitization, math restoration, and
// typesetting. A Renderer holds no per-render state and is safe for
// concurrent use.
type Renderer struct {
	cfg        rendererConfig
	converter  htmlConverter
	sanitizer  *sanitizer
	typesetter typesetter
}

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	htmlMath bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHTMLMath enables math typesetting for html-format bodies. By default
// html bodies are sanitized and displayed without typesetting.
func WithHTMLMath() Option {
	return func(r *Renderer) {
		r.cfg.htmlMath = true
	}
}

// NewRenderer creates a Renderer with default configuration.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		converter:  newGoldmarkConverter(),
		sanitizer:  newSanitizer(),
		typesetter: treebloodTypesetter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render runs the pipeline for one unit and writes the result into target.
// The only errors it returns are a nil target and a context already canceled
// before work began; every content fault degrades to escaped literal text,
// so the worst outcome a caller can observe is unstyled, untypeset text.
func (r *Renderer) Render(ctx context.Context, unit Unit, target *Target) error {
	if target == nil {
		return ErrNilTarget
	}
	target.Reset()
	if err := ctx.Err(); err != nil {
		return err
	}

	switch unit.Format {
	case FormatPlain:
		// Plain bodies bypass the pipeline entirely: literal text, newlines
		// preserved, delimiter-like substrings left alone.
		target.buf.WriteString(html.EscapeString(unit.Body))
	case FormatHTML:
		safe := r.sanitizer.Sanitize(unit.Body)
		if r.cfg.htmlMath {
			r.typesetter.Typeset(target, safe)
		} else {
			target.buf.WriteString(safe)
		}
	case FormatMarkdown, FormatLatex:
		r.renderMarkup(ctx, unit.Body, target)
	default:
		target.buf.WriteString(html.EscapeString(unit.Body))
	}
	return nil
}

// renderMarkup is the full five-stage path shared by markdown and latex.
// Sanitization runs exactly once, after conversion and before restoration,
// so math syntax is never exposed to the sanitizer and no unsanitized
// converted markup can reach the target.
func (r *Renderer) renderMarkup(ctx context.Context, body string, target *Target) {
	protected, spans := extractMath(body)

	converted, err := r.converter.ToHTML(ctx, protected)
	if err != nil {
		// Conversion faults degrade to literal text, never to a failed render.
		target.buf.WriteString(html.EscapeString(body))
		return
	}

	safe := r.sanitizer.Sanitize(converted)
	restored := restoreMath(safe, spans)
	r.typesetter.Typeset(target, restored)
}
