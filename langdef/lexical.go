package langdef

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/ava12/llxdoc/grammar"
)

// collectTokens creates token types for lexical productions used by syntactic ones
// and for literal strings of syntactic productions.
func (c *compiler) collectTokens() error {
	used := make(map[string]bool)
	var literals []string
	seen := make(map[string]bool)

	for _, p := range c.order {
		if isLexical(p.Name.String) {
			continue
		}

		eachExpr(p.Expr, func(x ebnf.Expression) {
			switch x := x.(type) {
			case *ebnf.Name:
				if isLexical(x.String) {
					used[x.String] = true
				}
			case *ebnf.Token:
				if !seen[x.String] {
					seen[x.String] = true
					literals = append(literals, x.String)
				}
			}
		})
	}
	for name := range c.asides {
		used[name] = true
	}

	var types []grammar.Token
	var matchers []*regexp.Regexp
	for _, p := range c.order {
		name := p.Name.String
		if !used[name] {
			continue
		}

		re, e := c.lexicalRe(name, nil)
		if e != nil {
			return e
		}
		full, e := regexp.Compile("^(?:" + re + ")$")
		if e != nil {
			return wrongRegexpError(name, e)
		}
		if full.MatchString("") {
			return emptyTokenError(name)
		}

		t := grammar.Token{Name: name, Re: re}
		if c.asides[name] {
			t.Flags = grammar.AsideToken
		} else {
			matchers = append(matchers, full)
		}
		types = append(types, t)
	}

	var own, resolved []grammar.Token
	for _, text := range literals {
		if text == "" {
			return emptyTokenError(`""`)
		}

		t := grammar.Token{Name: text, Flags: grammar.LiteralToken}
		if matchesAny(matchers, text) {
			resolved = append(resolved, t)
		} else {
			t.Re = regexp.QuoteMeta(text)
			own = append(own, t)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return utf8.RuneCountInString(own[i].Name) > utf8.RuneCountInString(own[j].Name)
	})

	tokens := make([]grammar.Token, 0, len(own)+len(types)+len(resolved))
	tokens = append(tokens, own...)
	tokens = append(tokens, types...)
	tokens = append(tokens, resolved...)
	for i, t := range tokens {
		if (t.Flags & grammar.LiteralToken) != 0 {
			c.literals[t.Name] = i
		} else {
			c.tokens[t.Name] = i
		}
	}
	c.result.Tokens = tokens
	return nil
}

func matchesAny(matchers []*regexp.Regexp, text string) bool {
	for _, m := range matchers {
		if m.MatchString(text) {
			return true
		}
	}
	return false
}

// lexicalRe converts lexical production to a regexp with no capturing groups.
// stack contains names of productions being converted.
func (c *compiler) lexicalRe(name string, stack []string) (string, error) {
	for i, n := range stack {
		if n == name {
			names := append(stack[i:len(stack):len(stack)], name)
			return "", recursionError(names)
		}
	}

	stack = append(stack[:len(stack):len(stack)], name)
	p := c.prods[name]
	if p.Expr == nil {
		return "", emptyTokenError(name)
	}
	return c.exprRe(p.Expr, stack)
}

func (c *compiler) exprRe(x ebnf.Expression, stack []string) (string, error) {
	switch x := x.(type) {
	case *ebnf.Token:
		return regexp.QuoteMeta(x.String), nil

	case *ebnf.Range:
		first, firstSize := utf8.DecodeRuneInString(x.Begin.String)
		last, lastSize := utf8.DecodeRuneInString(x.End.String)
		if firstSize == 0 || firstSize != len(x.Begin.String) || lastSize == 0 || lastSize != len(x.End.String) {
			return "", wrongRegexpError(stack[0], fmt.Errorf("range %q … %q must be bounded by single characters", x.Begin.String, x.End.String))
		}
		return fmt.Sprintf(`[\x{%x}-\x{%x}]`, first, last), nil

	case ebnf.Sequence:
		var sb strings.Builder
		for _, item := range x {
			re, e := c.exprRe(item, stack)
			if e != nil {
				return "", e
			}
			sb.WriteString("(?:" + re + ")")
		}
		return sb.String(), nil

	case ebnf.Alternative:
		parts := make([]string, len(x))
		for i, item := range x {
			re, e := c.exprRe(item, stack)
			if e != nil {
				return "", e
			}
			parts[i] = re
		}
		return "(?:" + strings.Join(parts, "|") + ")", nil

	case *ebnf.Group:
		re, e := c.exprRe(x.Body, stack)
		return "(?:" + re + ")", e

	case *ebnf.Option:
		re, e := c.exprRe(x.Body, stack)
		return "(?:" + re + ")?", e

	case *ebnf.Repetition:
		re, e := c.exprRe(x.Body, stack)
		return "(?:" + re + ")*", e

	case *ebnf.Name:
		return c.lexicalRe(x.String, stack)
	}

	return "", nil
}
