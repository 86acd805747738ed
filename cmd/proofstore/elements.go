package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	proofstore "github.com/alnah/go-proofstore"
	"github.com/alnah/go-proofstore/internal/store"
)

// runAdd creates an element and prints its UUID.
func runAdd(args []string, out io.Writer) error {
	fs := newFlagSet("add")
	common := addCommonFlags(fs)
	typ := fs.String("type", "", "Element type (required)")
	title := fs.String("title", "", "Element title (required)")
	body := fs.String("body", "", "Body text (or use --file or stdin)")
	file := fs.String("file", "", "Read body from a file")
	format := fs.String("format", "plain", "Body format")
	tags := fs.StringArray("tag", nil, "Tag (repeatable; comma-separated allowed)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	bodyText, err := readBody(*body, *file)
	if err != nil {
		return err
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.CreateElement(context.Background(), store.CreateElementParams{
		Type:   *typ,
		Title:  *title,
		Body:   bodyText,
		Format: *format,
		Tags:   splitCSVOrRepeat(*tags),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

// readBody resolves the element body from a flag, a file, or stdin.
func readBody(body, file string) (string, error) {
	switch {
	case body != "":
		return body, nil
	case file != "":
		data, err := os.ReadFile(file) // #nosec G304 -- path is user-provided
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadBody, err)
		}
		return strings.TrimRight(string(data), " \t\r\n"), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadBody, err)
		}
		return strings.TrimRight(string(data), " \t\r\n"), nil
	}
}

// runGet prints a single element with its tags.
func runGet(args []string, out io.Writer) error {
	fs := newFlagSet("get")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: get requires exactly one id", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	e, err := st.GetElement(context.Background(), fs.Arg(0), true)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "id:         %s\n", e.ID)
	fmt.Fprintf(out, "type:       %s\n", e.Type)
	fmt.Fprintf(out, "format:     %s\n", e.Format)
	fmt.Fprintf(out, "title:      %s\n", e.Title)
	fmt.Fprintf(out, "created_at: %s\n", e.CreatedAt)
	fmt.Fprintf(out, "updated_at: %s\n", e.UpdatedAt)
	fmt.Fprintf(out, "tags:       %s\n", strings.Join(e.Tags, ", "))
	fmt.Fprintf(out, "\n--- body ---\n\n%s\n", e.Body)
	return nil
}

// runList prints elements as a table or as bare IDs.
func runList(args []string, out io.Writer) error {
	fs := newFlagSet("list")
	common := addCommonFlags(fs)
	typ := fs.String("type", "", "Filter by element type")
	format := fs.String("format", "", "Filter by body format")
	query := fs.String("q", "", "Search in title/body")
	tag := fs.String("tag", "", "Filter by tag")
	limit := fs.Int("limit", 0, "Maximum rows (0 = unlimited)")
	offset := fs.Int("offset", 0, "Rows to skip")
	outputFormat := fs.String("format-output", "table", "Output format: table, ids")
	includeTags := fs.Bool("include-tags", false, "Include tags in output")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *outputFormat != "table" && *outputFormat != "ids" {
		return fmt.Errorf("%w: --format-output must be table or ids", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	elements, err := st.ListElements(context.Background(), store.ListElementsFilter{
		Type:        *typ,
		Format:      *format,
		Query:       *query,
		Tag:         *tag,
		Limit:       *limit,
		Offset:      *offset,
		IncludeTags: *includeTags,
	})
	if err != nil {
		return err
	}

	if *outputFormat == "ids" {
		for _, e := range elements {
			fmt.Fprintln(out, e.ID)
		}
		return nil
	}

	for _, e := range elements {
		line := fmt.Sprintf("%s  %-14s %-8s %s", e.ID, e.Type, e.Format, e.Title)
		if *includeTags && len(e.Tags) > 0 {
			line += "  [" + strings.Join(e.Tags, ", ") + "]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// runUpdate applies partial element updates and prints the UUID.
func runUpdate(args []string, out io.Writer) error {
	fs := newFlagSet("update")
	common := addCommonFlags(fs)
	typ := fs.String("type", "", "New element type")
	title := fs.String("title", "", "New title")
	body := fs.String("body", "", "New body text")
	file := fs.String("file", "", "Read new body from a file")
	format := fs.String("format", "", "New body format")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: update requires exactly one id", ErrUsage)
	}

	var p store.UpdateElementParams
	if fs.Changed("type") {
		p.Type = typ
	}
	if fs.Changed("title") {
		p.Title = title
	}
	if fs.Changed("format") {
		p.Format = format
	}
	switch {
	case fs.Changed("body"):
		p.Body = body
	case fs.Changed("file"):
		data, err := os.ReadFile(*file) // #nosec G304 -- path is user-provided
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadBody, err)
		}
		text := strings.TrimRight(string(data), " \t\r\n")
		p.Body = &text
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	id := fs.Arg(0)
	if err := st.UpdateElement(context.Background(), id, p); err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

// runDelete removes an element and prints the UUID. Deletion requires
// --yes; there is no interactive prompt.
func runDelete(args []string, out io.Writer) error {
	fs := newFlagSet("delete")
	common := addCommonFlags(fs)
	yes := fs.Bool("yes", false, "Confirm deletion")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: delete requires exactly one id", ErrUsage)
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
	if err := st.DeleteElement(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

// runRender prints an element's body rendered to HTML. Typesetting
// warnings go to stderr so piped output stays clean.
func runRender(args []string, out io.Writer) error {
	fs := newFlagSet("render")
	common := addCommonFlags(fs)
	mathInHTML := fs.Bool("math", false, "Typeset math in html-format bodies")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: render requires exactly one id", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	e, err := st.GetElement(context.Background(), fs.Arg(0), false)
	if err != nil {
		return err
	}

	var opts []proofstore.Option
	if *mathInHTML {
		opts = append(opts, proofstore.WithHTMLMath())
	}
	renderer := proofstore.NewRenderer(opts...)

	var target proofstore.Target
	unit := proofstore.Unit{Format: proofstore.ParseFormat(e.Format), Body: e.Body}
	if err := renderer.Render(context.Background(), unit, &target); err != nil {
		return err
	}

	for _, w := range target.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %v: %s\n", w.Err, w.Span)
	}
	fmt.Fprintln(out, target.HTML())
	return nil
}
