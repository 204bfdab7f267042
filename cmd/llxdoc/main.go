/*
llxdoc is a console utility parsing text files with a grammar described in EBNF.
Usage is

	llxdoc --grammar <file> [--start <name>] [--aside <name>]... [-v]... <command>

--grammar <file> defines grammar description file parsable by langdef.Parse();

--start <name> defines the root production, default is the first syntactic production;

--aside <name> marks a lexical production as insignificant (whitespace, comments);

-v increases log verbosity.

Commands are

	parse <file>      parse the file and print its syntax tree or selected nodes;
	reparse <file>    parse the file, apply an edit, and reparse it incrementally;
	serve             run language server on standard input and output;
	generate          translate the grammar to Go source or JSON file.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/ava12/llxdoc/document"
	"github.com/ava12/llxdoc/grammar"
	"github.com/ava12/llxdoc/langdef"
)

// Version is set with -ldflags.
var Version = "dev"

type options struct {
	grammarFile string
	start       string
	asides      []string
	verbosity   int
}

func main() {
	if e := newRootCmd().Execute(); e != nil {
		fmt.Fprintln(os.Stderr, e.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "llxdoc",
		Short:         "Incremental parser for EBNF-described languages",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbosity, nil)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.grammarFile, "grammar", "g", "", "grammar description file")
	flags.StringVar(&opts.start, "start", "", "root production name, default is the first syntactic production")
	flags.StringSliceVar(&opts.asides, "aside", nil, "lexical production skipped by parser, may be repeated")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "increase log verbosity")
	cmd.MarkPersistentFlagRequired("grammar")

	cmd.AddCommand(newParseCmd(opts))
	cmd.AddCommand(newReparseCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	return cmd
}

func (opts *options) loadGrammar() (*grammar.Grammar, error) {
	f, e := os.Open(opts.grammarFile)
	if e != nil {
		return nil, fmt.Errorf("open grammar: %w", e)
	}
	defer f.Close()

	g, e := langdef.Parse(opts.grammarFile, f, langdef.Config{Start: opts.start, Asides: opts.asides})
	if e != nil {
		return nil, fmt.Errorf("load grammar: %w", e)
	}

	commonlog.GetLogger("llxdoc.cmd").Debugf("%s: %d tokens, %d non-terminals, %d states",
		opts.grammarFile, len(g.Tokens), len(g.NonTerms), len(g.States))
	return g, nil
}

// newDocument loads grammar and text file.
func (opts *options) newDocument(fileName string) (*document.Document, string, error) {
	g, e := opts.loadGrammar()
	if e != nil {
		return nil, "", e
	}

	content, e := os.ReadFile(fileName)
	if e != nil {
		return nil, "", fmt.Errorf("read file: %w", e)
	}

	doc := document.New()
	e = doc.SetLanguage(g)
	if e != nil {
		return nil, "", e
	}

	return doc, string(content), nil
}
