package main

import (
	"fmt"
	"io"
	"os"

	proofstore "github.com/alnah/go-proofstore"
	"github.com/alnah/go-proofstore/internal/store"
)

// run dispatches the CLI command. Output for machine consumption (IDs,
// listings, rendered HTML) goes to out; diagnostics go to stderr.
func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "init":
		return runInit(rest, out)
	case "types":
		return printLines(out, store.ElementTypes())
	case "formats":
		return printLines(out, proofstore.FormatNames())
	case "rels":
		return printLines(out, store.LinkRelations())
	case "add":
		return runAdd(rest, out)
	case "get":
		return runGet(rest, out)
	case "list":
		return runList(rest, out)
	case "update":
		return runUpdate(rest, out)
	case "delete":
		return runDelete(rest, out)
	case "render":
		return runRender(rest, out)
	case "tags":
		return runTags(rest, out)
	case "links":
		return runLinks(rest, out)
	case "serve":
		return runServe(rest)
	case "version":
		fmt.Fprintf(out, "proofstore %s\n", Version)
		return nil
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func printLines(out io.Writer, lines []string) error {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

// openStore opens the database named by the resolved configuration.
func openStore(common *commonFlags) (*store.Store, error) {
	cfg, err := common.loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Database.Path)
}

// runInit opens the store, which creates tables and indexes if missing.
func runInit(args []string, out io.Writer) error {
	fs := newFlagSet("init")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, err := common.loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Fprintf(out, "initialized %s\n", cfg.Database.Path)
	return nil
}
