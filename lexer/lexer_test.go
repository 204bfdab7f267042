package lexer

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/ava12/llxdoc"
	"github.com/ava12/llxdoc/source"
)

var (
	tokenRe      = regexp.MustCompile("^(?s:[\\s]+|(\\d+)|([\\pL_][\\pL0-9_]*)|('.*?'))")
	tokenTypes   = []TokenType{{1, "number"}, {2, "name"}, {3, "string"}}
	tokenSamples = "123 foo 'bar'"
)

func stream(src string) *source.Stream {
	return source.NewStream(source.NewStringInput(src))
}

func TestEmpty(t *testing.T) {
	sources := []string{"", " ", "  ", " \t\r\n "}
	l := New(tokenRe, tokenTypes)
	for _, src := range sources {
		s := stream(src)
		tok, e := l.Next(s)
		if e != nil {
			t.Fatalf("source %q: unexpected error %s", src, e)
		}
		if tok.Type() != EofTokenType || tok.TypeName() != EofTokenName {
			t.Fatalf("source %q: unexpected token %s", src, tok.TypeName())
		}
		if tok.Start() != source.Len(src) || tok.End() != tok.Start() {
			t.Fatalf("source %q: expecting zero-width EoF at %d, got [%d, %d)", src, source.Len(src), tok.Start(), tok.End())
		}
	}
}

func TestTokenSamples(t *testing.T) {
	l := New(tokenRe, tokenTypes)
	s := stream(tokenSamples)
	for _, tokType := range tokenTypes {
		tok, e := l.Next(s)
		if tok == nil || e != nil {
			t.Fatalf("expecting %q token, got error %v", tokType.TypeName, e)
		}
		if tok.TypeName() != tokType.TypeName || tok.Type() != tokType.Type {
			t.Fatalf("expecting %q (%d) token, got %q (%d)", tokType.TypeName, tokType.Type, tok.TypeName(), tok.Type())
		}
	}
	tok, e := l.Next(s)
	if tok == nil || e != nil {
		t.Fatalf("expecting EoF, got %v, %v", tok, e)
	}
	if tok.TypeName() != EofTokenName {
		t.Fatalf("expecting EoF, got %q", tok.TypeName())
	}
}

func TestTokenPositions(t *testing.T) {
	l := New(tokenRe, tokenTypes)
	s := stream("αβ\n  42 'γ'")
	expected := []struct {
		text            string
		start, end      int
		line, col       int
		endLine, endCol int
	}{
		{"αβ", 0, 2, 1, 1, 1, 3},
		{"42", 5, 7, 2, 3, 2, 5},
		{"'γ'", 8, 11, 2, 6, 2, 9},
	}

	for i, exp := range expected {
		tok, e := l.Next(s)
		if e != nil {
			t.Fatalf("token #%d: unexpected error: %s", i, e)
		}
		if tok.Text() != exp.text || tok.Start() != exp.start || tok.End() != exp.end {
			t.Errorf("token #%d: expecting %q [%d, %d), got %q [%d, %d)", i, exp.text, exp.start, exp.end, tok.Text(), tok.Start(), tok.End())
		}
		if tok.Line() != exp.line || tok.Col() != exp.col {
			t.Errorf("token #%d: expecting start %d:%d, got %s", i, exp.line, exp.col, tok.StartPoint())
		}
		if tok.EndPoint() != source.NewPoint(exp.endLine, exp.endCol) {
			t.Errorf("token #%d: expecting end %d:%d, got %s", i, exp.endLine, exp.endCol, tok.EndPoint())
		}
	}
}

func TestWrongChar(t *testing.T) {
	l := New(tokenRe, tokenTypes)
	s := stream("\n  #*  *")
	tok, e := l.Next(s)
	if tok != nil {
		t.Fatalf("expected error, got %q token", tok.TypeName())
	}

	var ee *llxdoc.Error
	if !errors.As(e, &ee) || ee.Code != WrongCharError {
		t.Fatalf("expected WrongCharError, got %v", e)
	}
	if ee.Line != 2 || ee.Col != 3 {
		t.Fatalf("expected error at line 2, col 3, got %d, %d", ee.Line, ee.Col)
	}
	if !strings.Contains(ee.Message, "'#'") {
		t.Fatalf("expected wrong char in error message, got %q", ee.Message)
	}
	if s.Pos() != 3 {
		t.Fatalf("expected stream stopped at 3, got %d", s.Pos())
	}
}

func TestTokenTypes(t *testing.T) {
	re := regexp.MustCompile("^(?:(\\d+)|\\s+|(\\w+)|#.*\\n|([+-]))")
	types := []TokenType{{0, "num"}, {2, "name"}, {4, "op"}}
	src := "1 + foo"
	expected := []int{0, 2, 1}

	lexer := New(re, types)
	s := stream(src)
	for i, n := range expected {
		tok, e := lexer.Next(s)
		if e != nil {
			t.Fatalf("sample #%d: unexpected error: %s", i, e.Error())
		}
		if tok.Type() != types[n].Type || tok.TypeName() != types[n].TypeName {
			t.Fatalf(
				"sample #%d: expecting token %q (%d), got %q (%d)",
				i,
				types[n].TypeName,
				types[n].Type,
				tok.TypeName(),
				tok.Type(),
			)
		}
	}
}

func TestChunkBoundaries(t *testing.T) {
	src := "foo  'αβγ' 12345 bar_baz"
	expected := []string{"foo", "'αβγ'", "12345", "bar_baz"}
	l := New(tokenRe, tokenTypes)
	for size := 1; size <= len(src); size++ {
		s := source.NewStream(source.NewChunkedInput(src, size))
		for i, exp := range expected {
			tok, e := l.Next(s)
			if e != nil {
				t.Fatalf("chunk size %d, token #%d: unexpected error: %s", size, i, e)
			}
			if tok.Text() != exp {
				t.Fatalf("chunk size %d, token #%d: expecting %q, got %q", size, i, exp, tok.Text())
			}
		}
		tok, _ := l.Next(s)
		if tok == nil || tok.Type() != EofTokenType {
			t.Fatalf("chunk size %d: expecting EoF, got %v", size, tok)
		}
	}
}

func TestReadsOnDemand(t *testing.T) {
	in := source.NewChunkedInput("foo bar baz qux", 4)
	s := source.NewStream(in)
	l := New(tokenRe, tokenTypes)
	tok, e := l.Next(s)
	if e != nil || tok.Text() != "foo" {
		t.Fatalf("expecting \"foo\", got %v, %v", tok, e)
	}
	if s.Reads() > 2 {
		t.Fatalf("expecting at most 2 reads, got %d", s.Reads())
	}
	// "foo" ends at 3, characters 3 and 4 may be examined.
	if s.Furthest() > tok.End()+3 {
		t.Fatalf("expecting furthest offset at most %d, got %d", tok.End()+3, s.Furthest())
	}
}
