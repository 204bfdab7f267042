/*
Package llxdoc is an incremental parsing library: a document keeps a concrete syntax tree
current while its text is edited, reusing unaffected parts of the previous tree.

Consists of subpackages:
  - grammar: compiled language definition (tokens, non-terminals, and the state machine driving the parser);
  - langdef: builds grammar definitions from EBNF descriptions;
  - source: streaming input protocol, character stream, and line index;
  - lexer: lexical analyzer reading from a character stream;
  - parser: shift/reduce parsing engine with incremental reuse and debug events;
  - tree: syntax trees, node handles, edits, and traversal helpers;
  - document: orchestrates language, input, edits, and the current tree;
  - lsp: language server exposing documents to editors;
  - cmd/llxdoc: console utility.

Typical usage is:

1. Obtain a compiled language, either generated ahead of time or built with langdef.

2. Create a document, set its language and input, and parse it.

3. After changing the text, describe the change with an edit, reset the input, and parse again:
only the damaged part of the tree is rebuilt. Nodes of the previous tree become invalid.
*/
package llxdoc

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	DocumentErrors = 1   // used by document
	LexicalErrors  = 101 // used by lexer
	SyntaxErrors   = 201 // used by parser
	GrammarErrors  = 301 // used by grammar and parser
	LangDefErrors  = 401 // used by langdef
)

// Error is the error type used by llxdoc subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including position information if provided.
	Message string

	// Line contains line number in source text or 0.
	Line int

	// Col contains column number in source text or 0.
	Col int
}

// SourcePos is used to retrieve position information when constructing an error;
// source.Point and lexer.Token implement this interface.
type SourcePos interface {
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// line and col will be added to error message if provided (non-zero).
func NewError(code int, msg string, line, col int) *Error {
	if line != 0 && col != 0 {
		msg += fmt.Sprintf(" at line %d col %d", line, col)
	}
	return &Error{code, msg, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error with the same code,
// so that errors.Is works with wrapped errors.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	return ok && te.Code == e.Code
}

// FormatError creates Error structure with no position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, 0, 0)
}

// FormatErrorPos creates Error structure with position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.Line(), pos.Col())
}
