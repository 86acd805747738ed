package proofstore

import (
	"context"
	"strings"
	"testing"
)

func TestRenderPlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantContains []string
		wantNot      []string
	}{
		{
			name:         "markup stays literal",
			body:         "Some **bold** and <b>html</b>",
			wantContains: []string{"**bold**", "&lt;b&gt;html&lt;/b&gt;"},
			wantNot:      []string{"<strong>", "<b>"},
		},
		{
			name:         "math delimiters stay literal",
			body:         "Let $x^2$ and $$y$$ be",
			wantContains: []string{"$x^2$", "$$y$$"},
			wantNot:      []string{"<math"},
		},
		{
			name:         "newlines preserved",
			body:         "line one\nline two",
			wantContains: []string{"line one\nline two"},
		},
		{
			name:         "script escaped",
			body:         "<script>alert(1)</script>",
			wantContains: []string{"&lt;script&gt;"},
			wantNot:      []string{"<script>"},
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var target Target
			if err := r.Render(context.Background(), Unit{Format: FormatPlain, Body: tt.body}, &target); err != nil {
				t.Fatalf("Render: %v", err)
			}
			got := target.HTML()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(got, not) {
					t.Errorf("output should not contain %q:\n%s", not, got)
				}
			}
		})
	}
}

func TestRenderMarkdownWithMath(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	var target Target
	unit := Unit{Format: FormatMarkdown, Body: "Let $x^2$ be **bold**."}
	if err := r.Render(context.Background(), unit, &target); err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := target.HTML()
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("markdown emphasis not converted:\n%s", got)
	}
	if !strings.Contains(got, "<math") {
		t.Errorf("math span not typeset:\n%s", got)
	}
	if strings.Contains(got, spanStartPlaceholder) {
		t.Errorf("placeholder leaked into output:\n%s", got)
	}
}

func TestRenderLatex(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	var target Target
	unit := Unit{Format: FormatLatex, Body: "Display:\n$$\\int_0^1 x\\,dx$$\nand inline \\(n+1\\)."}
	if err := r.Render(context.Background(), unit, &target); err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := target.HTML()
	if !strings.Contains(got, "<math") {
		t.Errorf("latex math not typeset:\n%s", got)
	}
	if strings.Contains(got, "$$") {
		t.Errorf("display delimiters leaked into output:\n%s", got)
	}
}

func TestRenderInjectionSafety(t *testing.T) {
	t.Parallel()

	bodies := []struct {
		name   string
		format Format
		body   string
	}{
		{"markdown raw script", FormatMarkdown, "safe\n\n<script>alert(1)</script>"},
		{"markdown event handler", FormatMarkdown, `<img src="x" onerror="alert(1)"/>`},
		{"markdown javascript link", FormatMarkdown, "[click](javascript:alert(1))"},
		{"html script", FormatHTML, `<p>ok</p><script>alert(1)</script>`},
		{"html event handler", FormatHTML, `<div onclick="alert(1)">ok</div>`},
	}

	r := NewRenderer()
	for _, tt := range bodies {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var target Target
			if err := r.Render(context.Background(), Unit{Format: tt.format, Body: tt.body}, &target); err != nil {
				t.Fatalf("Render: %v", err)
			}
			got := target.HTML()
			for _, bad := range []string{"<script", "onerror", "onclick", "javascript:"} {
				if strings.Contains(got, bad) {
					t.Errorf("executable construct %q reached the target:\n%s", bad, got)
				}
			}
		})
	}
}

func TestRenderHTMLMathOptIn(t *testing.T) {
	t.Parallel()

	body := "<p>Let $x^2$ hold.</p>"

	t.Run("default leaves math alone", func(t *testing.T) {
		t.Parallel()

		var target Target
		if err := NewRenderer().Render(context.Background(), Unit{Format: FormatHTML, Body: body}, &target); err != nil {
			t.Fatalf("Render: %v", err)
		}
		got := target.HTML()
		if !strings.Contains(got, "$x^2$") {
			t.Errorf("html math should stay literal by default:\n%s", got)
		}
		if strings.Contains(got, "<math") {
			t.Errorf("html math typeset without opt-in:\n%s", got)
		}
	})

	t.Run("WithHTMLMath typesets", func(t *testing.T) {
		t.Parallel()

		var target Target
		if err := NewRenderer(WithHTMLMath()).Render(context.Background(), Unit{Format: FormatHTML, Body: body}, &target); err != nil {
			t.Fatalf("Render: %v", err)
		}
		got := target.HTML()
		if !strings.Contains(got, "<math") {
			t.Errorf("html math not typeset with opt-in:\n%s", got)
		}
	})
}

func TestRenderMalformedMathKeepsDocument(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	var target Target
	unit := Unit{Format: FormatLatex, Body: "$$\\frac{1}{$$ and more text"}
	if err := r.Render(context.Background(), unit, &target); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(target.HTML(), "and more text") {
		t.Errorf("text after a malformed span was lost:\n%s", target.HTML())
	}
}

func TestRenderUnknownFormatMatchesPlain(t *testing.T) {
	t.Parallel()

	body := "Some **markup** with $math$ and <b>tags</b>"
	r := NewRenderer()

	var asUnknown, asPlain Target
	if err := r.Render(context.Background(), Unit{Format: ParseFormat("weird"), Body: body}, &asUnknown); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := r.Render(context.Background(), Unit{Format: FormatPlain, Body: body}, &asPlain); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if asUnknown.HTML() != asPlain.HTML() {
		t.Errorf("unknown format rendered differently from plain:\n%q\n%q", asUnknown.HTML(), asPlain.HTML())
	}
}

func TestRenderEmptyBody(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	for _, format := range []Format{FormatPlain, FormatMarkdown, FormatHTML, FormatLatex} {
		var target Target
		if err := r.Render(context.Background(), Unit{Format: format, Body: ""}, &target); err != nil {
			t.Errorf("Render(%v, empty): %v", format, err)
		}
	}
}

func TestRenderNilTarget(t *testing.T) {
	t.Parallel()

	err := NewRenderer().Render(context.Background(), Unit{Format: FormatPlain, Body: "x"}, nil)
	if err != ErrNilTarget {
		t.Errorf("got %v, want ErrNilTarget", err)
	}
}

func TestRenderCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var target Target
	if err := NewRenderer().Render(ctx, Unit{Format: FormatMarkdown, Body: "# x"}, &target); err == nil {
		t.Error("expected error for canceled context")
	}
	if target.HTML() != "" {
		t.Errorf("canceled render wrote output: %q", target.HTML())
	}
}

func TestRenderReusedTargetDiscardsPriorOutput(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	var target Target
	if err := r.Render(context.Background(), Unit{Format: FormatMarkdown, Body: "first $a$"}, &target); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := r.Render(context.Background(), Unit{Format: FormatPlain, Body: "second"}, &target); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := target.HTML(); got != "second" {
		t.Errorf("reused target kept prior output: %q", got)
	}
	if len(target.Warnings()) != 0 {
		t.Errorf("reused target kept prior warnings: %v", target.Warnings())
	}
}

// errConverter forces the conversion-fault path.
type errConverter struct{}

func (errConverter) ToHTML(context.Context, string) (string, error) {
	return "", ErrHTMLConversion
}

func TestRenderConversionFaultFallsBackToLiteral(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	r.converter = errConverter{}

	body := "# Title with <b>markup</b> and $x$"
	var target Target
	if err := r.Render(context.Background(), Unit{Format: FormatMarkdown, Body: body}, &target); err != nil {
		t.Fatalf("conversion fault must not surface as an error, got %v", err)
	}

	got := target.HTML()
	if !strings.Contains(got, "&lt;b&gt;markup&lt;/b&gt;") {
		t.Errorf("fallback should escape the raw body:\n%s", got)
	}
	if !strings.Contains(got, "$x$") {
		t.Errorf("fallback should keep the body verbatim:\n%s", got)
	}
}
