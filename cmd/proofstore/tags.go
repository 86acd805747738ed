package main

import (
	"context"
	"fmt"
	"io"

	"github.com/alnah/go-proofstore/internal/store"
)

// runTags dispatches the tags subcommands.
func runTags(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: tags requires a subcommand (list, add, remove, set, clear, find)", ErrUsage)
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return runTagsList(rest, out)
	case "add":
		return runTagsMutate(rest, out, "add")
	case "remove":
		return runTagsMutate(rest, out, "remove")
	case "set":
		return runTagsSet(rest, out)
	case "clear":
		return runTagsClear(rest, out)
	case "find":
		return runTagsFind(rest, out)
	default:
		return fmt.Errorf("%w: unknown tags subcommand %q", ErrUsage, sub)
	}
}

func runTagsList(args []string, out io.Writer) error {
	fs := newFlagSet("tags list")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: tags list requires exactly one id", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	// Listing tags for a missing element is an error, not an empty list.
	if _, err := st.GetElement(context.Background(), fs.Arg(0), false); err != nil {
		return err
	}
	tags, err := st.ListTags(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	return printLines(out, tags)
}

// runTagsMutate handles add and remove, printing the affected count.
func runTagsMutate(args []string, out io.Writer, op string) error {
	fs := newFlagSet("tags " + op)
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("%w: tags %s requires an id and at least one tag", ErrUsage, op)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	id, tags := fs.Arg(0), fs.Args()[1:]
	var count int
	if op == "add" {
		count, err = st.AddTags(context.Background(), id, tags)
	} else {
		count, err = st.RemoveTags(context.Background(), id, tags)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, count)
	return nil
}

func runTagsSet(args []string, out io.Writer) error {
	fs := newFlagSet("tags set")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: tags set requires an id", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	id := fs.Arg(0)
	if err := st.SetTags(context.Background(), id, fs.Args()[1:]); err != nil {
		return err
	}
	tags, err := st.ListTags(context.Background(), id)
	if err != nil {
		return err
	}
	return printLines(out, tags)
}

func runTagsClear(args []string, out io.Writer) error {
	fs := newFlagSet("tags clear")
	common := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: tags clear requires exactly one id", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	count, err := st.ClearTags(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, count)
	return nil
}

// runTagsFind prints the IDs of elements carrying a tag.
func runTagsFind(args []string, out io.Writer) error {
	fs := newFlagSet("tags find")
	common := addCommonFlags(fs)
	limit := fs.Int("limit", 0, "Maximum rows (0 = unlimited)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: tags find requires exactly one tag", ErrUsage)
	}

	st, err := openStore(common)
	if err != nil {
		return err
	}
	defer st.Close()

	elements, err := st.ListElements(context.Background(), store.ListElementsFilter{
		Tag:   fs.Arg(0),
		Limit: *limit,
	})
	if err != nil {
		return err
	}
	for _, e := range elements {
		fmt.Fprintln(out, e.ID)
	}
	return nil
}
