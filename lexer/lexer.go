// Package lexer defines lexical analyzer.
package lexer

import (
	"fmt"
	"regexp"

	"github.com/ava12/llxdoc"
	"github.com/ava12/llxdoc/source"
)

// Error codes used by lexer:
const (
	// WrongCharError indicates that lexer cannot fetch any token at current position.
	// Error message contains the rune at current position.
	WrongCharError = llxdoc.LexicalErrors + iota
)

// TokenType describes token type for specific capturing group of regular expression.
type TokenType struct {
	// Type contains token type, may be any non-negative value.
	Type int

	// TypeName contains token type name, may be any value.
	TypeName string
}

// Lexer performs lexical analysis of a source.Stream using regexp.Regexp.
// Lexer itself is immutable, stateless, and safe for concurrent use (i.e. the same Lexer instance
// may be used with different streams by different goroutines), but it affects stream state.
// Each token type maps to its own regexp capturing group index.
// A match containing no captured groups is treated as insignificant lexeme,
// in this case lexer tries to fetch a token again at new position.
// Regular expression is matched against characters fetched from the stream one by one.
// regexp reads one character past the one it decides on, so the stream examines
// at most two characters beyond the end of a match.
type Lexer struct {
	types []TokenType
	re    *regexp.Regexp
}

// New creates new Lexer.
// Each n-th element of types describes token type for (n+1)-th regexp capturing group.
// re must be anchored at text start (e.g. "^(?:...)").
func New(re *regexp.Regexp, types []TokenType) *Lexer {
	ts := make([]TokenType, len(types))
	copy(ts, types)
	return &Lexer{types: ts, re: re}
}

func wrongCharError(c rune, sp source.Point) *llxdoc.Error {
	msg := fmt.Sprintf("wrong char %q (u+%x)", c, c)
	return llxdoc.NewError(WrongCharError, msg, sp.Line(), sp.Col())
}

// Next fetches token starting at current stream position and advances the stream.
// Returns EoF token if the stream is exhausted.
// Returns nil token and llxdoc.Error and does not advance the stream if there is a lexical error.
func (l *Lexer) Next(s *source.Stream) (*Token, error) {
	for {
		c, ok := s.Peek()
		if !ok {
			return EofToken(s.Pos(), s.Point()), nil
		}

		match := l.re.FindReaderSubmatchIndex(s.Reader())
		if len(match) == 0 || match[0] != 0 || match[1] <= match[0] {
			return nil, wrongCharError(c, s.Point())
		}

		for i := 2; i < len(match); i += 2 {
			if match[i] < 0 || match[i+1] < 0 {
				continue
			}

			tt := l.types[(i>>1)-1]
			start := s.Pos()
			sp := s.Point()
			size := s.Chars(match[i+1])
			token := NewToken(tt.Type, tt.TypeName, s.Text(size), start, sp)
			s.Advance(size)
			return token, nil
		}

		s.Advance(s.Chars(match[1]))
	}
}
