/*
Package langdef converts EBNF grammar description to grammar.Grammar structure.

Description syntax is the one parsed by golang.org/x/exp/ebnf:

	Production  = name "=" [ Expression ] "." .
	Expression  = Alternative { "|" Alternative } .
	Alternative = Term { Term } .
	Term        = name | token [ "…" token ] | Group | Option | Repetition .
	Group       = "(" Expression ")" .
	Option      = "[" Expression "]" .
	Repetition  = "{" Expression "}" .

Names are Go identifiers, tokens are Go string literals, comments are Go comments.

Productions with names starting with an upper case letter are lexical, they describe token types.
Lexical productions may contain only strings, character ranges ("a" … "z"), and names of other
lexical productions; each one is converted to a regular expression. A lexical production
that is referenced from syntactic productions or listed in Config.Asides defines a token type,
other lexical productions are fragments inlined into token types.

All other productions are syntactic, each one defines a non-terminal.
Strings used in syntactic productions are literal tokens. A literal that can be matched
by some token type regexp is recognized by its text, any other literal gets its own regexp.
Literals having own regexps are tried first, longer ones before shorter ones.
Token types are tried in order of definition.

Config.Start names the root non-terminal, by default it is the first syntactic production.
Config.Asides lists token types that are skipped by parser (e.g. whitespace and comments).

An example:

	sentence = { word | number | "!" } .
	word = Letter { Letter } .
	number = Digits .
	Letter = "a" … "z" | "A" … "Z" .
	Digits = Digit { Digit } .
	Digit = "0" … "9" .
	Space = " " { " " } .

with Asides: []string{"Space"}.

Resulting grammar is LL(1): each state must be able to choose a rule by the next token.
Ambiguous choices, left recursion, and repetitions that may match empty text are reported as errors.
*/
package langdef
