package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Database.Path != "./proof_elements.sqlite3" {
		t.Errorf("Database.Path = %q, want ./proof_elements.sqlite3", cfg.Database.Path)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Render.HTMLMath {
		t.Error("Render.HTMLMath = true, want false")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want level info format text", cfg.Log)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("loads from explicit path", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "proofstore.yaml")
		content := `database:
  path: /tmp/test.sqlite3
server:
  addr: ":9090"
render:
  htmlMath: true
log:
  level: debug
  format: json
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Database.Path != "/tmp/test.sqlite3" {
			t.Errorf("Database.Path = %q", cfg.Database.Path)
		}
		if cfg.Server.Addr != ":9090" {
			t.Errorf("Server.Addr = %q", cfg.Server.Addr)
		}
		if !cfg.Render.HTMLMath {
			t.Error("Render.HTMLMath = false, want true")
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v", cfg.Log)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "partial.yaml")
		if err := os.WriteFile(path, []byte("server:\n  addr: \":7070\"\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":7070" {
			t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
		}
		if cfg.Database.Path != "./proof_elements.sqlite3" {
			t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("nonsense: true\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})
}
