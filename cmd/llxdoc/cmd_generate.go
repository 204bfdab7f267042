package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ava12/llxdoc/grammar"
)

type generateOptions struct {
	json        bool
	outFileName string
	packageName string
	varName     string
}

func newGenerateCmd(opts *options) *cobra.Command {
	gopts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Translate grammar description to Go source or JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, e := opts.loadGrammar()
			if e != nil {
				return e
			}

			if gopts.outFileName == "" {
				ext := filepath.Ext(opts.grammarFile)
				gopts.outFileName = opts.grammarFile[:len(opts.grammarFile)-len(ext)]
				if gopts.json {
					gopts.outFileName += ".json"
				} else {
					gopts.outFileName += ".go"
				}
			}

			var content []byte
			if gopts.json {
				content, e = makeJson(g)
			} else {
				content, e = makeGo(g, gopts)
			}
			if e == nil {
				e = os.WriteFile(gopts.outFileName, content, 0o666)
			}
			return e
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&gopts.json, "json", "j", false, "output JSON instead of Go")
	flags.StringVarP(&gopts.outFileName, "output", "o", "", "output file name, default is the name of grammar file with .go or .json suffix")
	flags.StringVarP(&gopts.packageName, "package", "p", "", "Go package name, default is dir name of output file")
	flags.StringVar(&gopts.varName, "var", "", "Go variable name, default is the root non-terminal name")
	return cmd
}

func makeJson(g *grammar.Grammar) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

var identRe = regexp.MustCompile("^[A-Za-z_][A-Za-z_0-9]*$")

func makeGo(g *grammar.Grammar, opts *generateOptions) ([]byte, error) {
	packageName := opts.packageName
	if packageName == "" {
		dir, e := filepath.Abs(opts.outFileName)
		if e != nil {
			return nil, e
		}

		packageName = filepath.Base(filepath.Dir(dir))
	}
	varName := opts.varName
	if varName == "" {
		varName = g.NonTerms[grammar.RootNonTerm].Name
	}

	if !identRe.MatchString(packageName) {
		return nil, fmt.Errorf("invalid package name: %s", packageName)
	}
	if !identRe.MatchString(varName) {
		return nil, fmt.Errorf("invalid variable name: %s", varName)
	}

	var buffer bytes.Buffer

	buffer.WriteString("// Code generated with llxdoc generate.\n\n" +
		"package " + packageName + "\n\n" +
		"import \"github.com/ava12/llxdoc/grammar\"\n\n" +
		"var " + varName + " = &grammar.Grammar{\n")
	buffer.WriteString(fmt.Sprintf("\tName: %q,\n", g.Name))

	buffer.WriteString("\tTokens: []grammar.Token{\n")
	for _, t := range g.Tokens {
		buffer.WriteString(fmt.Sprintf("\t\t{Name: %q, Re: %q, Flags: %d},\n", t.Name, t.Re, t.Flags))
	}
	buffer.WriteString("\t},\n")

	buffer.WriteString("\tNonTerms: []grammar.NonTerm{\n")
	for _, nt := range g.NonTerms {
		buffer.WriteString(fmt.Sprintf("\t\t{Name: %q, FirstState: %d},\n", nt.Name, nt.FirstState))
	}
	buffer.WriteString("\t},\n")

	firstStates := make(map[int]string, len(g.NonTerms))
	for _, nt := range g.NonTerms {
		firstStates[nt.FirstState] = nt.Name
	}

	buffer.WriteString("\tStates: []grammar.State{\n")
	for i, st := range g.States {
		if name, found := firstStates[i]; found {
			buffer.WriteString(fmt.Sprintf("\t\t// %s(%d)\n", name, i))
		}
		if len(st.Rules) == 0 {
			buffer.WriteString("\t\t{},\n")
			continue
		}

		keys := make([]int, 0, len(st.Rules))
		for k := range st.Rules {
			keys = append(keys, k)
		}
		sort.Ints(keys)

		buffer.WriteString("\t\t{Rules: map[int]grammar.Rule{")
		for _, k := range keys {
			r := st.Rules[k]
			buffer.WriteString(fmt.Sprintf("\n\t\t\t%d: {State: %d, NonTerm: %d},", k, r.State, r.NonTerm))
		}
		buffer.WriteString("\n\t\t}},\n")
	}
	buffer.WriteString("\t},\n")

	buffer.WriteString("}\n")
	return buffer.Bytes(), nil
}
