package proofstore

import "errors"

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrNilTarget      = errors.New("render target cannot be nil")
)
