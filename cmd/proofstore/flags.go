package main

import (
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-proofstore/internal/config"
)

// defaultDBPath is used when no flag, environment variable, or config file
// names a database.
const defaultDBPath = "./proof_elements.sqlite3"

// dbPathEnv overrides the default database path.
const dbPathEnv = "PROOF_DB"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	db     string
	config string
}

// newFlagSet creates a flag set that reports parse errors instead of
// exiting.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// addCommonFlags registers the shared flags on a command's flag set.
func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.db, "db", "", "SQLite database path")
	fs.StringVarP(&c.config, "config", "c", "", "Config file name or path")
	return c
}

// loadConfig resolves the effective configuration. Precedence for the
// database path: --db flag, PROOF_DB environment variable, config file,
// built-in default.
func (c *commonFlags) loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if c.config != "" {
		loaded, err := config.LoadConfig(c.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if env := os.Getenv(dbPathEnv); env != "" {
		cfg.Database.Path = env
	}
	if c.db != "" {
		cfg.Database.Path = c.db
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDBPath
	}
	return cfg, nil
}

// splitCSVOrRepeat flattens repeated flag values, splitting each on commas.
func splitCSVOrRepeat(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
