package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alnah/go-proofstore/internal/store"
)

// runLinks dispatches the links subcommands.
func runLinks(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: links requires a subcommand (add, get, list, for, update, delete)", ErrUsage)
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		return runLinksAdd(rest, out)
	case "get":
		return runLinksGet(rest, out)
	case "list":
		return runLinksList(rest, out)
	case "for":
		return runLinksFor(rest, out)
	case "update":
		return runLinksUpdate(rest, out)
	case "delete":
		return runLinksDelete(rest, out)
	default:
		return fmt.Errorf("%w: unknown links subcommand %q", ErrUsage, sub)
	}
}

func runLinksAdd(args []string, out io.Writer) error {
	fs := newFlagSet("links add")
	common := addCommonFlags(fs)
	src := fs.String("src", "", "Source element UUID (required)")
	dst := fs.String("dst", "", "Destination element UUID (required)")
	rel := fs.String("rel", "", "Link relation (required)")
	note := fs.String("note", "", "Optional note")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.CreateLink(context.Background(), store.CreateLinkParams{
		SrcID: *src,
		DstID: *dst,
		Rel:   *rel,
		Note:  *note,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

func runLinksGet(args []string, out io.Writer) error {
	fs := newFlagSet("links get")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: links get requires exactly one id", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	l, err := st.GetLink(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "id:         %s\n", l.ID)
	fmt.Fprintf(out, "src:        %s\n", l.SrcID)
	fmt.Fprintf(out, "dst:        %s\n", l.DstID)
	fmt.Fprintf(out, "rel:        %s\n", l.Rel)
	fmt.Fprintf(out, "note:       %s\n", l.Note)
	fmt.Fprintf(out, "created_at: %s\n", l.CreatedAt)
	return nil
}

func runLinksList(args []string, out io.Writer) error {
	fs := newFlagSet("links list")
	common := addCommonFlags(fs)
	src := fs.String("src", "", "Filter by source UUID")
	dst := fs.String("dst", "", "Filter by destination UUID")
	rel := fs.String("rel", "", "Filter by relation")
	limit := fs.Int("limit", 0, "Maximum rows (0 = unlimited)")
	offset := fs.Int("offset", 0, "Rows to skip")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	links, err := st.ListLinks(context.Background(), store.ListLinksFilter{
		SrcID:  *src,
		DstID:  *dst,
		Rel:    *rel,
		Limit:  *limit,
		Offset: *offset,
	})
	if err != nil {
		return err
	}
	printLinkRows(out, links)
	return nil
}

func runLinksFor(args []string, out io.Writer) error {
	fs := newFlagSet("links for")
	common := addCommonFlags(fs)
	direction := fs.String("direction", "both", "Link direction: out, in, both")
	rel := fs.String("rel", "", "Filter by relation")
	limit := fs.Int("limit", 0, "Maximum rows (0 = unlimited)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: links for requires exactly one element id", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	links, err := st.ListLinksForElement(context.Background(), fs.Arg(0), store.Direction(*direction), *rel, *limit)
	if err != nil {
		return err
	}
	printLinkRows(out, links)
	return nil
}

func printLinkRows(out io.Writer, links []store.Link) {
	for _, l := range links {
		line := fmt.Sprintf("%s  %s -[%s]-> %s", l.ID, l.SrcID, l.Rel, l.DstID)
		if l.Note != "" {
			line += "  (" + l.Note + ")"
		}
		fmt.Fprintln(out, line)
	}
}

func runLinksUpdate(args []string, out io.Writer) error {
	fs := newFlagSet("links update")
	common := addCommonFlags(fs)
	rel := fs.String("rel", "", "New relation")
	note := fs.String("note", "", "New note")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: links update requires exactly one id", ErrUsage)
	}

	var p store.UpdateLinkParams
	if fs.Changed("rel") {
		p.Rel = rel
	}
	if fs.Changed("note") {
		p.Note = note
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	id := fs.Arg(0)
	if err := st.UpdateLink(context.Background(), id, p); err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

func runLinksDelete(args []string, out io.Writer) error {
	fs := newFlagSet("links delete")
	common := addCommonFlags(fs)
	yes := fs.Bool("yes", false, "Confirm deletion")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: links delete requires exactly one id", ErrUsage)
	}
	if !*yes {
		return fmt.Errorf("%w: pass --yes to confirm deletion", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	id := fs.Arg(0)
	if err := st.DeleteLink(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}
