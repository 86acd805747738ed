package proofstore

import "testing"

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"plain", "plain", FormatPlain},
		{"markdown", "markdown", FormatMarkdown},
		{"html", "html", FormatHTML},
		{"latex", "latex", FormatLatex},
		{"uppercase", "MARKDOWN", FormatMarkdown},
		{"mixed case", "LaTeX", FormatLatex},
		{"surrounding whitespace", "  html  ", FormatHTML},
		{"empty falls back to plain", "", FormatPlain},
		{"unknown falls back to plain", "weird", FormatPlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	t.Parallel()

	for _, name := range FormatNames() {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, got)
		}
	}
}

func TestIsValidFormatName(t *testing.T) {
	t.Parallel()

	for _, name := range FormatNames() {
		if !IsValidFormatName(name) {
			t.Errorf("IsValidFormatName(%q) = false", name)
		}
	}
	// Storage validation is strict: no case folding, no fallback.
	for _, name := range []string{"", "Markdown", "weird", "md"} {
		if IsValidFormatName(name) {
			t.Errorf("IsValidFormatName(%q) = true", name)
		}
	}
}
