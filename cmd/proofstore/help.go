package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: proofstore <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init       Create tables and indexes if missing")
	fmt.Fprintln(w, "  types      List supported element types")
	fmt.Fprintln(w, "  formats    List supported body formats")
	fmt.Fprintln(w, "  rels       List supported link relations")
	fmt.Fprintln(w, "  add        Create an element (prints UUID)")
	fmt.Fprintln(w, "  get        Read an element by UUID")
	fmt.Fprintln(w, "  list       List elements")
	fmt.Fprintln(w, "  update     Update an element (prints UUID)")
	fmt.Fprintln(w, "  delete     Delete an element (prints UUID)")
	fmt.Fprintln(w, "  render     Render an element's body to HTML")
	fmt.Fprintln(w, "  tags       Manage tags (list, add, remove, set, clear, find)")
	fmt.Fprintln(w, "  links      Manage links (add, get, list, for, update, delete)")
	fmt.Fprintln(w, "  serve      Start the HTTP API server")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show this message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common flags:")
	fmt.Fprintln(w, "      --db <path>         SQLite database path (or PROOF_DB env)")
	fmt.Fprintln(w, "  -c, --config <name>     Config file name or path")
}
