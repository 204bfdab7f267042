package parser

import (
	"github.com/ava12/llxdoc"
	"github.com/ava12/llxdoc/lexer"
)

// Error codes used by parser:
const (
	// UnexpectedEofError indicates that the input ended while some non-terminal was incomplete.
	UnexpectedEofError = llxdoc.SyntaxErrors + iota

	// UnexpectedTokenError indicates a token having no rule in current state.
	UnexpectedTokenError
)

func unexpectedEofError(t *lexer.Token, expected string) *llxdoc.Error {
	return llxdoc.FormatErrorPos(t, UnexpectedEofError, "unexpected end of file, expecting %s", expected)
}

func unexpectedTokenError(t *lexer.Token, expected string) *llxdoc.Error {
	return llxdoc.FormatErrorPos(t, UnexpectedTokenError, "unexpected %s %q, expecting %s", t.TypeName(), t.Text(), expected)
}
