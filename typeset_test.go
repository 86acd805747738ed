package proofstore

import (
	"strings"
	"testing"
)

func TestTreebloodTypesetter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantNot      []string
	}{
		{
			name:         "no math passes through unchanged",
			input:        "<p>just prose</p>",
			wantContains: []string{"<p>just prose</p>"},
			wantNot:      []string{"<math"},
		},
		{
			name:         "inline span becomes MathML",
			input:        "<p>Let $x^2$ hold.</p>",
			wantContains: []string{"<math", "Let ", " hold."},
			wantNot:      []string{"$x^2$", spanStartPlaceholder},
		},
		{
			name:         "display span becomes MathML",
			input:        "<p>$$\\sum_{i=0}^{n} i$$</p>",
			wantContains: []string{"<math"},
			wantNot:      []string{"$$", spanStartPlaceholder},
		},
		{
			name:         "parenthesis inline becomes MathML",
			input:        `value \(n+1\) suffices`,
			wantContains: []string{"<math", "value ", " suffices"},
			wantNot:      []string{`\(n+1\)`},
		},
		{
			name:         "surrounding document survives a hostile span",
			input:        "<p>$$\\frac{1}{$$ and more text</p>",
			wantContains: []string{"and more text"},
			wantNot:      []string{spanStartPlaceholder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var target Target
			treebloodTypesetter{}.Typeset(&target, tt.input)
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

func TestTargetReset(t *testing.T) {
	t.Parallel()

	var target Target
	target.buf.WriteString("old output")
	target.warn("$bad$", ErrHTMLConversion)

	target.Reset()
	if target.HTML() != "" {
		t.Errorf("HTML after Reset = %q, want empty", target.HTML())
	}
	if len(target.Warnings()) != 0 {
		t.Errorf("Warnings after Reset = %v, want none", target.Warnings())
	}
}

func TestTargetWarnings(t *testing.T) {
	t.Parallel()

	var target Target
	target.warn("$bad$", ErrHTMLConversion)

	warnings := target.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].Span != "$bad$" {
		t.Errorf("warning span = %q, want %q", warnings[0].Span, "$bad$")
	}
	if warnings[0].Err == nil {
		t.Error("warning error is nil")
	}
}
