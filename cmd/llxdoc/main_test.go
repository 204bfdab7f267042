package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ava12/llxdoc/grammar"
	"github.com/ava12/llxdoc/internal/test"
	"github.com/ava12/llxdoc/parser"
)

const listGrammar = `
list = { item } .
item = Name | "(" list ")" .
Name = Letter { Letter } .
Letter = "a" … "z" .
Space = " " | "\n" | "\t" .
`

func writeFiles(t *testing.T, text string) (grammarFile, textFile string) {
	t.Helper()
	dir := t.TempDir()
	grammarFile = filepath.Join(dir, "list.ebnf")
	textFile = filepath.Join(dir, "text.list")
	test.ExpectNoError(t, os.WriteFile(grammarFile, []byte(listGrammar), 0o666))
	test.ExpectNoError(t, os.WriteFile(textFile, []byte(text), 0o666))
	return
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	e := cmd.Execute()
	return out.String(), e
}

func TestParse(t *testing.T) {
	g, f := writeFiles(t, "a (b cd)\ne")
	samples := [][]string{
		{"parse", "-g", g, "--aside", "Space", f},
		{"parse", "-g", g, "--aside", "Space", "--chunk", "1", f},
		{"parse", "-g", g, "--aside", "Space", "--chunk", "3", f},
	}

	for i, args := range samples {
		out, e := run(t, args...)
		test.Assert(t, e == nil, "sample #%d: unexpected error %v", i, e)
		test.ExpectString(t, "(list (item) (item (list (item) (item))) (item))\n", out)
	}
}

func TestParseSelect(t *testing.T) {
	g, f := writeFiles(t, "a (b)")
	out, e := run(t, "parse", "--grammar", g, "--aside", "Space", "--select", "list", f)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "list\t1:1-1:6\t\"a (b)\"\nlist\t1:4-1:5\t\"b\"\n", out)
}

func TestParseTrace(t *testing.T) {
	g, f := writeFiles(t, "a")
	out, e := run(t, "parse", "--grammar", g, "--aside", "Space", "--trace", f)
	test.ExpectNoError(t, e)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.ExpectInt(t, 5, len(lines))
	test.Assert(t, strings.HasPrefix(lines[0], "shift "), "unexpected first event: %s", lines[0])
	test.Assert(t, strings.HasPrefix(lines[3], "accept "), "unexpected last event: %s", lines[3])
	test.ExpectString(t, "(list (item))", lines[4])
}

func TestReparse(t *testing.T) {
	g, f := writeFiles(t, "a (b cd) e")
	out, e := run(t, "reparse", "--grammar", g, "--aside", "Space", "--at", "0", "--insert", "x ", f)
	test.ExpectNoError(t, e)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.ExpectInt(t, 2, len(lines))
	test.ExpectString(t, "(list (item) (item) (item (list (item) (item))) (item))", lines[0])
	test.Assert(t, strings.HasPrefix(lines[1], "reused "), "unexpected stats: %s", lines[1])
}

func TestGenerateJson(t *testing.T) {
	g, _ := writeFiles(t, "")
	_, e := run(t, "generate", "--grammar", g, "--aside", "Space", "--json")
	test.ExpectNoError(t, e)

	content, e := os.ReadFile(strings.TrimSuffix(g, ".ebnf") + ".json")
	test.ExpectNoError(t, e)
	gr := &grammar.Grammar{}
	test.ExpectNoError(t, json.Unmarshal(content, gr))

	p, e := parser.New(gr)
	test.ExpectNoError(t, e)
	tr, e := p.ParseString("a (b cd) e", nil)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "(list (item) (item (list (item) (item))) (item))", tr.RootNode().String())
}

func TestGenerateGo(t *testing.T) {
	g, _ := writeFiles(t, "")
	out := filepath.Join(filepath.Dir(g), "lists.go")
	_, e := run(t, "generate", "--grammar", g, "--aside", "Space", "-o", out, "-p", "lists")
	test.ExpectNoError(t, e)

	content, e := os.ReadFile(out)
	test.ExpectNoError(t, e)
	src := string(content)
	for _, s := range []string{
		"package lists\n",
		"var list = &grammar.Grammar{\n",
		"{Name: \"list\", FirstState: 0},\n",
		"\t\t// item(",
	} {
		test.Assert(t, strings.Contains(src, s), "%q not found in generated source", s)
	}

	_, e = run(t, "generate", "--grammar", g, "--aside", "Space", "-o", out, "-p", "lists", "--var", "1st")
	test.Assert(t, e != nil, "expecting error for invalid variable name")
}

func TestErrors(t *testing.T) {
	g, f := writeFiles(t, "a (b)")
	bad := filepath.Join(filepath.Dir(f), "bad.list")
	test.ExpectNoError(t, os.WriteFile(bad, []byte("a (b"), 0o666))

	samples := [][]string{
		{"parse", f},
		{"parse", "--grammar", g + ".missing", f},
		{"parse", "--grammar", g, "--aside", "Space", f + ".missing"},
		{"parse", "--grammar", g, "--aside", "Space", bad},
		{"parse", "--grammar", g, "--aside", "Space", "--start", "none", f},
		{"parse", "--grammar", g, "--aside", "list", f},
		{"reparse", "--grammar", g, "--aside", "Space", "--at", "3", "--remove", "3", f},
		{"reparse", "--grammar", g, "--aside", "Space", "--at", "4", "--remove", "1", f},
	}

	for i, args := range samples {
		_, e := run(t, args...)
		test.Assert(t, e != nil, "sample #%d: expecting error", i)
	}
}
