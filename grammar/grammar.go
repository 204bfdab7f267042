// Package grammar defines the compiled language definition consumed by the parser:
// token types and a finite state machine for every non-terminal.
package grammar

import (
	"regexp"

	"github.com/ava12/llxdoc"
)

const (
	// RootNonTerm is the index of the top-level non-terminal.
	RootNonTerm = 0

	// AnyToken is the rule key matching any token that has no rule of its own.
	// The token is not consumed.
	AnyToken = -1

	// SameNonTerm is the Rule.NonTerm value for rules that do not push a new non-terminal.
	SameNonTerm = -1

	// FinalState is the Rule.State value for rules that complete current non-terminal.
	FinalState = -1
)

// Error codes used by grammar validation:
const (
	// InvalidGrammarError indicates inconsistent grammar tables.
	InvalidGrammarError = llxdoc.GrammarErrors + iota
)

// TokenFlags contains token type flags.
type TokenFlags int

const (
	// LiteralToken marks a token type matched by its exact text (Token.Name).
	// Literal token types with empty Re are resolved from tokens fetched by other types.
	LiteralToken TokenFlags = 1 << iota

	// AsideToken marks insignificant tokens (e.g. whitespace) skipped by the parser.
	AsideToken
)

// Token describes a token type.
type Token struct {
	// Name contains type name or literal text for literal tokens.
	Name string

	// Re contains regular expression without capturing groups or empty string.
	Re string

	Flags TokenFlags
}

// Rule is a transition of the state machine.
type Rule struct {
	// State is the next state of current non-terminal or FinalState.
	// If the rule pushes a non-terminal, current non-terminal enters this state
	// after the pushed one is complete.
	State int

	// NonTerm is the index of a non-terminal to push or SameNonTerm.
	NonTerm int
}

// State maps token types (or AnyToken) to rules.
type State struct {
	Rules map[int]Rule `json:",omitempty"`
}

// NonTerm describes a non-terminal.
type NonTerm struct {
	Name       string
	FirstState int
}

// Language is the capability required from a compiled language definition.
type Language interface {
	Grammar() *Grammar
}

// Grammar contains compiled language definition. It must not be modified once in use.
type Grammar struct {
	Name     string
	Tokens   []Token
	NonTerms []NonTerm
	States   []State
}

// Grammar makes *Grammar a Language.
func (g *Grammar) Grammar() *Grammar {
	return g
}

func invalidGrammarError(msg string, params ...any) *llxdoc.Error {
	return llxdoc.FormatError(InvalidGrammarError, "invalid grammar: "+msg, params...)
}

// Validate checks that all indexes used by tables are in range and that token
// regular expressions compile and contain no capturing groups.
// Returns llxdoc.Error with InvalidGrammarError code on failure.
func (g *Grammar) Validate() error {
	if g == nil {
		return invalidGrammarError("no grammar")
	}
	if len(g.NonTerms) == 0 {
		return invalidGrammarError("no non-terminals defined")
	}

	for i, t := range g.Tokens {
		if t.Name == "" {
			return invalidGrammarError("token #%d has no name", i)
		}
		if t.Re == "" {
			if t.Flags&LiteralToken == 0 {
				return invalidGrammarError("token %q has no regexp", t.Name)
			}
			continue
		}

		re, e := regexp.Compile(t.Re)
		if e != nil {
			return invalidGrammarError("token %q: %s", t.Name, e.Error())
		}
		if re.NumSubexp() != 0 {
			return invalidGrammarError("token %q: regexp contains capturing groups", t.Name)
		}
	}

	for _, nt := range g.NonTerms {
		if nt.FirstState < 0 || nt.FirstState >= len(g.States) {
			return invalidGrammarError("non-terminal %q: state %d out of range", nt.Name, nt.FirstState)
		}
	}

	for si, st := range g.States {
		for key, r := range st.Rules {
			if key != AnyToken && (key < 0 || key >= len(g.Tokens)) {
				return invalidGrammarError("state %d: token %d out of range", si, key)
			}
			if r.State != FinalState && (r.State < 0 || r.State >= len(g.States)) {
				return invalidGrammarError("state %d: next state %d out of range", si, r.State)
			}
			if r.NonTerm != SameNonTerm && (r.NonTerm < 0 || r.NonTerm >= len(g.NonTerms)) {
				return invalidGrammarError("state %d: non-terminal %d out of range", si, r.NonTerm)
			}
		}
	}

	return nil
}
