package langdef

import (
	"regexp"
	"strings"
	"testing"

	"github.com/ava12/llxdoc/grammar"
	"github.com/ava12/llxdoc/internal/test"
	"github.com/ava12/llxdoc/parser"
)

const sentenceSrc = `
sentence = { word1 | word2 } .
word1 = "first-word" .
word2 = "second-word" .
Space = " " { " " } .
`

func compile(t *testing.T, src string, asides ...string) *grammar.Grammar {
	t.Helper()
	g, e := ParseString("test", src, Config{Asides: asides})
	test.ExpectNoError(t, e)
	test.ExpectNoError(t, g.Validate())
	return g
}

func tokenNames(g *grammar.Grammar) string {
	names := make([]string, len(g.Tokens))
	for i, t := range g.Tokens {
		names[i] = t.Name
	}
	return strings.Join(names, " ")
}

func TestSentenceGrammar(t *testing.T) {
	g := compile(t, sentenceSrc, "Space")
	test.ExpectString(t, "test", g.Name)
	test.ExpectString(t, "second-word first-word Space", tokenNames(g))
	test.ExpectInt(t, int(grammar.LiteralToken), int(g.Tokens[0].Flags))
	test.ExpectString(t, "second-word", g.Tokens[0].Re)
	test.ExpectInt(t, int(grammar.AsideToken), int(g.Tokens[2].Flags))

	space := regexp.MustCompile("^(?:" + g.Tokens[2].Re + ")$")
	test.Assert(t, space.MatchString("   "), "Space must match spaces")
	test.Assert(t, !space.MatchString(""), "Space must not match empty string")

	test.ExpectInt(t, 3, len(g.NonTerms))
	test.ExpectString(t, "sentence", g.NonTerms[grammar.RootNonTerm].Name)
	test.ExpectString(t, "word1", g.NonTerms[1].Name)
	test.ExpectString(t, "word2", g.NonTerms[2].Name)

	first := g.States[g.NonTerms[0].FirstState].Rules
	test.ExpectInt(t, 1, len(first))
	loop := first[grammar.AnyToken].State
	rules := g.States[loop].Rules
	test.Expect(t, rules[1] == grammar.Rule{State: loop, NonTerm: 1}, "word1 rule", rules[1])
	test.Expect(t, rules[0] == grammar.Rule{State: loop, NonTerm: 2}, "word2 rule", rules[0])
	test.Expect(t, rules[grammar.AnyToken] == grammar.Rule{State: grammar.FinalState, NonTerm: grammar.SameNonTerm}, "exit rule", rules[grammar.AnyToken])

	word1 := g.States[g.NonTerms[1].FirstState].Rules
	test.Expect(t, word1[1] == grammar.Rule{State: grammar.FinalState, NonTerm: grammar.SameNonTerm}, "shift rule", word1[1])
}

func TestLiteralResolution(t *testing.T) {
	g := compile(t, `
stmt = Ident | "let" Ident "=" Number .
Ident = Letter { Letter } .
Letter = "a" … "z" .
Number = Digit { Digit } .
Digit = "0" … "9" .
`)
	test.ExpectString(t, "= Ident Number let", tokenNames(g))
	test.ExpectString(t, "", g.Tokens[3].Re)
	test.ExpectInt(t, int(grammar.LiteralToken), int(g.Tokens[3].Flags))

	ident := regexp.MustCompile("^(?:" + g.Tokens[1].Re + ")$")
	test.Assert(t, ident.MatchString("abc"), "Ident must match letters")
	test.Assert(t, !ident.MatchString("a1"), "Ident must not match digits")
}

func TestLiteralOrder(t *testing.T) {
	g := compile(t, `
expr = { "=" | "==" | "===" | Name } .
Name = "a" … "z" .
`)
	test.ExpectString(t, "=== == = Name", tokenNames(g))
}

func TestStartOption(t *testing.T) {
	src := `
item = Name | "(" list ")" .
list = { item } .
Name = "a" … "z" { "a" … "z" } .
Space = " " .
`
	g, e := ParseString("lists", src, Config{Start: "list", Asides: []string{"Space"}})
	test.ExpectNoError(t, e)
	test.ExpectString(t, "list", g.NonTerms[0].Name)
	test.ExpectString(t, "item", g.NonTerms[1].Name)

	p, e := parser.New(g)
	test.ExpectNoError(t, e)
	tr, e := p.ParseString("a (b cd) e", nil)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "(list (item) (item (list (item) (item))) (item))", tr.String())
}

func TestNullableNonTerm(t *testing.T) {
	g := compile(t, `
a = b "x" .
b = [ "y" ] .
`)
	p, e := parser.New(g)
	test.ExpectNoError(t, e)

	tr, e := p.ParseString("x", nil)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "(a (b))", tr.String())
	b := tr.RootNode().Child(0)
	test.ExpectInt(t, 0, b.Start())
	test.ExpectInt(t, 0, b.End())

	tr, e = p.ParseString("yx", nil)
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 1, tr.RootNode().Child(0).End())
}

func TestEmptyProduction(t *testing.T) {
	g := compile(t, `a = .`)
	p, e := parser.New(g)
	test.ExpectNoError(t, e)
	tr, e := p.ParseString("", nil)
	test.ExpectNoError(t, e)
	test.ExpectString(t, "(a)", tr.String())
}

func TestErrors(t *testing.T) {
	samples := []struct {
		src  string
		cfg  Config
		code int
	}{
		{`a = "x"`, Config{}, SyntaxError},
		{`a = b .`, Config{}, UndefinedProductionError},
		{`a = "x" . b = "y" .`, Config{}, UnusedProductionError},
		{`A = b . b = "x" A .`, Config{}, MixedProductionError},
		{`a = "a" … "z" .`, Config{}, MixedProductionError},
		{`a = "x" .`, Config{Start: "nope"}, UnknownStartError},
		{`X = "x" .`, Config{}, UnknownStartError},
		{`a = "x" .`, Config{Asides: []string{"a"}}, WrongAsideError},
		{`a = B . B = "z" … "a" .`, Config{}, WrongRegexpError},
		{`a = B . B = "ab" … "c" .`, Config{}, WrongRegexpError},
		{`a = B . B = [ "x" ] .`, Config{}, EmptyTokenError},
		{`a = B . B = "x" B .`, Config{}, RecursionError},
		{`a = a "x" | "y" .`, Config{}, RecursionError},
		{`a = b . b = [ "z" ] a "x" .`, Config{}, RecursionError},
		{`a = { [ "x" ] } .`, Config{}, EmptyRepeatableError},
		{`a = "x" | "x" "y" .`, Config{}, ConflictError},
		{`a = [ "x" ] | { "y" } .`, Config{}, ConflictError},
	}

	for i, s := range samples {
		_, e := ParseString("test", s.src, s.cfg)
		test.Assert(t, e != nil, "sample #%d: expecting error", i)
		test.ExpectErrorCode(t, s.code, e)
	}
}

func TestUndefinedPosition(t *testing.T) {
	_, e := ParseString("test", "a = \"x\"\n  b .", Config{})
	test.ExpectErrorCode(t, UndefinedProductionError, e)
	test.Assert(t, strings.HasSuffix(e.Error(), "at line 2 col 3"), "wrong message: %s", e.Error())
}
