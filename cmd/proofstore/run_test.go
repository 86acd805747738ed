package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-proofstore/internal/store"
)

// testDB returns shared flags pointing at a fresh temp database.
func testDB(t *testing.T) []string {
	t.Helper()
	return []string{"--db", filepath.Join(t.TempDir(), "test.sqlite3")}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func TestVocabularyCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  string
		want string
	}{
		{"types", "theorem"},
		{"formats", "latex"},
		{"rels", "counterexample_to"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			t.Parallel()
			out, err := runCLI(t, tt.cmd)
			if err != nil {
				t.Fatalf("%s: %v", tt.cmd, err)
			}
			if !strings.Contains(out, tt.want+"\n") {
				t.Errorf("%s output missing %q:\n%s", tt.cmd, tt.want, out)
			}
		})
	}
}

func TestAddGetDelete(t *testing.T) {
	t.Parallel()
	db := testDB(t)

	out, err := runCLI(t, append([]string{"add",
		"--type", "theorem",
		"--title", "Intermediate value theorem",
		"--body", "Continuous on $[a,b]$.",
		"--format", "latex",
		"--tag", "analysis,continuity"}, db...)...)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("add printed no id")
	}

	out, err = runCLI(t, append([]string{"get", id}, db...)...)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, want := range []string{
		"type:       theorem",
		"format:     latex",
		"title:      Intermediate value theorem",
		"tags:       analysis, continuity",
		"Continuous on $[a,b]$.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("get output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, append([]string{"delete", id}, db...)...); !errors.Is(err, ErrUsage) {
		t.Errorf("delete without --yes: err = %v, want ErrUsage", err)
	}
	if _, err := runCLI(t, append([]string{"delete", id, "--yes"}, db...)...); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := runCLI(t, append([]string{"get", id}, db...)...); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestListAndUpdate(t *testing.T) {
	t.Parallel()
	db := testDB(t)

	out, err := runCLI(t, append([]string{"add",
		"--type", "lemma", "--title", "Pumping lemma", "--body", "For regular languages."}, db...)...)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := strings.TrimSpace(out)

	out, err = runCLI(t, append([]string{"list", "--type", "lemma", "--format-output", "ids"}, db...)...)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != id {
		t.Errorf("list ids = %q, want %q", strings.TrimSpace(out), id)
	}

	if _, err := runCLI(t, append([]string{"update", id, "--title", "Pumping lemma (regular)"}, db...)...); err != nil {
		t.Fatalf("update: %v", err)
	}
	out, _ = runCLI(t, append([]string{"get", id}, db...)...)
	if !strings.Contains(out, "Pumping lemma (regular)") {
		t.Errorf("update not applied:\n%s", out)
	}

	if _, err := runCLI(t, append([]string{"list", "--format-output", "csv"}, db...)...); !errors.Is(err, ErrUsage) {
		t.Errorf("bad --format-output: err = %v, want ErrUsage", err)
	}
}

func TestTagCommands(t *testing.T) {
	t.Parallel()
	db := testDB(t)

	out, err := runCLI(t, append([]string{"add",
		"--type", "definition", "--title", "Compactness", "--body", "Every open cover."}, db...)...)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := strings.TrimSpace(out)

	out, err = runCLI(t, append([]string{"tags", "add", id, "topology", "analysis"}, db...)...)
	if err != nil {
		t.Fatalf("tags add: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Errorf("tags add count = %q, want 2", strings.TrimSpace(out))
	}

	out, err = runCLI(t, append([]string{"tags", "list", id}, db...)...)
	if err != nil {
		t.Fatalf("tags list: %v", err)
	}
	if !strings.Contains(out, "analysis") || !strings.Contains(out, "topology") {
		t.Errorf("tags list = %q", out)
	}

	out, err = runCLI(t, append([]string{"tags", "find", "topology"}, db...)...)
	if err != nil {
		t.Fatalf("tags find: %v", err)
	}
	if strings.TrimSpace(out) != id {
		t.Errorf("tags find = %q, want %q", strings.TrimSpace(out), id)
	}

	out, err = runCLI(t, append([]string{"tags", "clear", id}, db...)...)
	if err != nil {
		t.Fatalf("tags clear: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Errorf("tags clear count = %q, want 2", strings.TrimSpace(out))
	}
}

func TestLinkCommands(t *testing.T) {
	t.Parallel()
	db := testDB(t)

	out, _ := runCLI(t, append([]string{"add",
		"--type", "theorem", "--title", "T", "--body", "t"}, db...)...)
	thm := strings.TrimSpace(out)
	out, _ = runCLI(t, append([]string{"add",
		"--type", "proof", "--title", "P", "--body", "p"}, db...)...)
	prf := strings.TrimSpace(out)

	out, err := runCLI(t, append([]string{"links", "add",
		"--src", prf, "--dst", thm, "--rel", "proves", "--note", "by induction"}, db...)...)
	if err != nil {
		t.Fatalf("links add: %v", err)
	}
	linkID := strings.TrimSpace(out)

	out, err = runCLI(t, append([]string{"links", "for", thm, "--direction", "in"}, db...)...)
	if err != nil {
		t.Fatalf("links for: %v", err)
	}
	if !strings.Contains(out, "-[proves]->") || !strings.Contains(out, "by induction") {
		t.Errorf("links for = %q", out)
	}

	// A proof cannot be the target of proves.
	if _, err := runCLI(t, append([]string{"links", "add",
		"--src", thm, "--dst", prf, "--rel", "proves"}, db...)...); !errors.Is(err, store.ErrLinkSemantics) {
		t.Errorf("invalid link: err = %v, want ErrLinkSemantics", err)
	}

	if _, err := runCLI(t, append([]string{"links", "delete", linkID, "--yes"}, db...)...); err != nil {
		t.Fatalf("links delete: %v", err)
	}
	if _, err := runCLI(t, append([]string{"links", "get", linkID}, db...)...); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("links get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestRenderCommand(t *testing.T) {
	t.Parallel()
	db := testDB(t)

	out, err := runCLI(t, append([]string{"add",
		"--type", "remark",
		"--title", "Markdown with math",
		"--body", "Euler: $e^{i\\pi}+1=0$ is **famous**.",
		"--format", "markdown"}, db...)...)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := strings.TrimSpace(out)

	out, err = runCLI(t, append([]string{"render", id}, db...)...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<strong>famous</strong>") {
		t.Errorf("markdown not converted: %q", out)
	}
	if !strings.Contains(out, "<math") {
		t.Errorf("math not typeset: %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "frobnicate")
	if !errors.Is(err, ErrUsage) {
		t.Errorf("err = %v, want ErrUsage", err)
	}
	if code := exitCodeFor(err); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"not found", store.ErrNotFound, ExitNotFound},
		{"validation", store.ErrInvalidType, ExitUsage},
		{"io", ErrReadBody, ExitIO},
		{"general", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
