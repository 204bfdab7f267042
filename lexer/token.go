package lexer

import (
	"github.com/ava12/llxdoc/source"
)

// Token is a lexeme fetched from a stream.
type Token struct {
	tokenType  int
	typeName   string
	text       string
	start, end int
	startPoint source.Point
	endPoint   source.Point
}

func (t *Token) Type() int {
	return t.tokenType
}

func (t *Token) TypeName() string {
	return t.typeName
}

func (t *Token) Text() string {
	return t.text
}

// Start returns character offset of the first token character.
func (t *Token) Start() int {
	return t.start
}

// End returns character offset following the last token character.
func (t *Token) End() int {
	return t.end
}

func (t *Token) StartPoint() source.Point {
	return t.startPoint
}

func (t *Token) EndPoint() source.Point {
	return t.endPoint
}

func (t *Token) Line() int {
	return t.startPoint.Line()
}

func (t *Token) Col() int {
	return t.startPoint.Col()
}

// NewToken creates a token spanning text starting at offset start and point sp.
func NewToken(tokenType int, typeName, text string, start int, sp source.Point) *Token {
	runes := []rune(text)
	return &Token{
		tokenType:  tokenType,
		typeName:   typeName,
		text:       text,
		start:      start,
		end:        start + len(runes),
		startPoint: sp,
		endPoint:   sp.Advance(runes),
	}
}

const (
	EofTokenType = -2
	EofTokenName = "-end-of-file-"
)

// EofToken creates zero-width end-of-file token.
func EofToken(offset int, sp source.Point) *Token {
	return &Token{
		tokenType:  EofTokenType,
		typeName:   EofTokenName,
		start:      offset,
		end:        offset,
		startPoint: sp,
		endPoint:   sp,
	}
}
