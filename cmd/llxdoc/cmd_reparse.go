package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava12/llxdoc/source"
	"github.com/ava12/llxdoc/tree"
)

func newReparseCmd(opts *options) *cobra.Command {
	var at, remove int
	var insert string

	cmd := &cobra.Command{
		Use:   "reparse <file>",
		Short: "Parse a file, edit its text, and parse it again reusing the tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, content, e := opts.newDocument(args[0])
			if e != nil {
				return e
			}

			e = doc.SetInputString(content).Parse()
			if e != nil {
				return fmt.Errorf("parse %s: %w", args[0], e)
			}

			text := source.NewText(args[0], content)
			if at < 0 || remove < 0 || at+remove > text.Len() {
				return fmt.Errorf("edit %d+%d is out of text bounds (%d characters)", at, remove, text.Len())
			}

			e = doc.Edit(tree.Edit{Position: at, CharsInserted: source.Len(insert), CharsRemoved: remove})
			if e != nil {
				return e
			}

			edited := text.Slice(0, at) + insert + text.Slice(at+remove, text.Len())
			e = doc.SetInputString(edited).Parse()
			if e != nil {
				return fmt.Errorf("reparse %s: %w", args[0], e)
			}

			out := cmd.OutOrStdout()
			stats := doc.Tree().Stats()
			fmt.Fprintln(out, doc.RootNode().String())
			fmt.Fprintf(out, "reused %d nodes, %d reads, %d seeks\n", stats.Reused, stats.Reads, stats.Seeks)
			return nil
		},
	}

	cmd.Flags().IntVar(&at, "at", 0, "edit position, in characters")
	cmd.Flags().IntVar(&remove, "remove", 0, "number of characters removed")
	cmd.Flags().StringVar(&insert, "insert", "", "inserted text")
	return cmd
}
