package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ava12/llxdoc/parser"
	"github.com/ava12/llxdoc/source"
	"github.com/ava12/llxdoc/tree"
)

func newParseCmd(opts *options) *cobra.Command {
	var chunkSize int
	var trace bool
	var types []string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, text, e := opts.newDocument(args[0])
			if e != nil {
				return e
			}

			out := cmd.OutOrStdout()
			if chunkSize > 0 {
				e = doc.SetInput(source.NewChunkedInput(text, chunkSize))
				if e != nil {
					return e
				}
			} else {
				doc.SetInputString(text)
			}
			if trace {
				e = doc.SetLogger(traceLogger(out))
				if e != nil {
					return e
				}
			}

			e = doc.Parse()
			if e != nil {
				return fmt.Errorf("parse %s: %w", args[0], e)
			}

			if len(types) == 0 {
				fmt.Fprintln(out, doc.RootNode().String())
			} else {
				printNodes(out, source.NewText(args[0], text), tree.NewSelector().Search(tree.IsA(types...), true).Apply(doc.RootNode()))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk", 0, "read input in chunks of given size in bytes, whole file if 0")
	cmd.Flags().BoolVar(&trace, "trace", false, "print parser events")
	cmd.Flags().StringSliceVar(&types, "select", nil, "print nodes of given types with their spans instead of the tree")
	return cmd
}

func traceLogger(out io.Writer) parser.Logger {
	return func(category string, params parser.Params) {
		fmt.Fprintf(out, "%-6s %v\n", category, params)
	}
}

// printNodes writes one line per node: type, start and end points, text.
func printNodes(out io.Writer, text *source.Text, nodes []tree.Node) {
	for _, n := range nodes {
		fmt.Fprintf(out, "%s\t%s-%s\t%q\n", n.Type(), n.StartPoint(), n.EndPoint(), text.Slice(n.Start(), n.End()))
	}
}
