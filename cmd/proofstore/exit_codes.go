package main

import (
	"errors"
	"os"

	"github.com/alnah/go-proofstore/internal/config"
	"github.com/alnah/go-proofstore/internal/store"
)

// Exit codes for the proofstore CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful operation
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitNotFound = 4 // Element or link not found
)

// Sentinel errors for CLI operations.
var (
	ErrUsage    = errors.New("invalid usage")
	ErrReadBody = errors.New("failed to read body")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, store.ErrNotFound) {
		return ExitNotFound
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadBody) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, store.ErrInvalidType) ||
		errors.Is(err, store.ErrInvalidFormat) ||
		errors.Is(err, store.ErrInvalidRel) ||
		errors.Is(err, store.ErrInvalidDirection) ||
		errors.Is(err, store.ErrEmptyTitle) ||
		errors.Is(err, store.ErrEmptyBody) ||
		errors.Is(err, store.ErrEmptyTag) ||
		errors.Is(err, store.ErrTagTooLong) ||
		errors.Is(err, store.ErrSelfLink) ||
		errors.Is(err, store.ErrDuplicateLink) ||
		errors.Is(err, store.ErrLinkSemantics) {
		return ExitUsage
	}

	return ExitGeneral
}
