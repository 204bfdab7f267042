package main

import (
	"github.com/spf13/cobra"

	"github.com/ava12/llxdoc/lsp"
)

func newServeCmd(opts *options) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run language server on standard input and output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, e := opts.loadGrammar()
			if e != nil {
				return e
			}

			return lsp.NewServer(lsp.Config{Name: name, Version: Version, Language: g}).RunStdio()
		},
	}

	cmd.Flags().StringVar(&name, "name", lsp.DefaultName, "server name reported to clients")
	return cmd
}
