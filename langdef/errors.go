package langdef

import (
	"strings"
	"text/scanner"

	"github.com/ava12/llxdoc"
)

// Error codes used by langdef:
const (
	SyntaxError = llxdoc.LangDefErrors + iota
	UnknownStartError
	UndefinedProductionError
	UnusedProductionError
	MixedProductionError
	WrongAsideError
	WrongRegexpError
	EmptyTokenError
	RecursionError
	EmptyRepeatableError
	ConflictError
)

func syntaxError(e error) *llxdoc.Error {
	return llxdoc.FormatError(SyntaxError, "EBNF syntax error: %s", e.Error())
}

func unknownStartError(name string) *llxdoc.Error {
	return llxdoc.FormatError(UnknownStartError, "start production %q is not defined or is lexical", name)
}

func undefinedProductionError(pos scanner.Position, name string) *llxdoc.Error {
	return llxdoc.NewError(UndefinedProductionError, "undefined production "+name, pos.Line, pos.Column)
}

func unusedProductionError(names []string) *llxdoc.Error {
	return llxdoc.FormatError(UnusedProductionError, "unused productions: %s", strings.Join(names, ", "))
}

func mixedProductionError(pos scanner.Position, what, name string) *llxdoc.Error {
	return llxdoc.NewError(MixedProductionError, what+" is not allowed in production "+name, pos.Line, pos.Column)
}

func wrongAsideError(name string) *llxdoc.Error {
	return llxdoc.FormatError(WrongAsideError, "aside token %q is not a lexical production", name)
}

func wrongRegexpError(name string, e error) *llxdoc.Error {
	return llxdoc.FormatError(WrongRegexpError, "token %q: incorrect regexp (%s)", name, e.Error())
}

func emptyTokenError(name string) *llxdoc.Error {
	return llxdoc.FormatError(EmptyTokenError, "token %q matches empty string", name)
}

func recursionError(names []string) *llxdoc.Error {
	return llxdoc.FormatError(RecursionError, "found recursive productions: %s", strings.Join(names, ", "))
}

func emptyRepeatableError(name string) *llxdoc.Error {
	return llxdoc.FormatError(EmptyRepeatableError, "repetition in production %q may match empty text", name)
}

func conflictError(name, token string) *llxdoc.Error {
	return llxdoc.FormatError(ConflictError, "production %q: ambiguous choice for %s", name, token)
}
