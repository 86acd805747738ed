package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	proofstore "github.com/alnah/go-proofstore"
	"github.com/alnah/go-proofstore/internal/api"
	"github.com/alnah/go-proofstore/internal/logging"
	"github.com/alnah/go-proofstore/internal/store"
)

// runServe starts the HTTP API server and blocks until SIGINT or SIGTERM.
func runServe(args []string) error {
	fs := newFlagSet("serve")
	common := addCommonFlags(fs)
	addr := fs.String("addr", "", "Listen address (overrides config)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "", "Log format: text, json")
	mathInHTML := fs.Bool("math", false, "Typeset math in html-format bodies")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, err := common.loadConfig()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *mathInHTML {
		cfg.Render.HTMLMath = true
	}

	logging.InitLogger(logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format))

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	var opts []proofstore.Option
	if cfg.Render.HTMLMath {
		opts = append(opts, proofstore.WithHTMLMath())
	}
	renderer := proofstore.NewRenderer(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("starting proofstore server",
		"db", cfg.Database.Path,
		"addr", cfg.Server.Addr,
		"version", Version)
	return api.NewServer(st, renderer).ListenAndServe(ctx, cfg.Server.Addr)
}
