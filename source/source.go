// Package source defines the streaming input protocol, the character stream used by lexer,
// and a line index for whole texts.
// All offsets are character (rune) offsets, all points are 1-based line and column numbers
// with columns counted in characters.
package source

import (
	"strconv"
	"unicode/utf16"
)

// Point is a line and column pair. The zero value (NoPoint) is not a valid point.
type Point struct {
	line, col int
}

// NoPoint is returned where no point is available.
var NoPoint = Point{}

// NewPoint creates a point, line and col must be positive.
func NewPoint(line, col int) Point {
	return Point{line, col}
}

// StartPoint is the point of the first character of any text.
func StartPoint() Point {
	return Point{1, 1}
}

func (p Point) Line() int {
	return p.line
}

func (p Point) Col() int {
	return p.col
}

// IsValid returns false for NoPoint.
func (p Point) IsValid() bool {
	return p.line > 0 && p.col > 0
}

// Advance returns the point following text r.
func (p Point) Advance(r []rune) Point {
	for _, c := range r {
		if c == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
	}
	return p
}

// Shift translates p located inside a span starting at from to the same place
// inside a copy of that span starting at to.
func (p Point) Shift(from, to Point) Point {
	if p.line == from.line {
		return Point{to.line, to.col + p.col - from.col}
	}
	return Point{p.line + to.line - from.line, p.col}
}

func (p Point) String() string {
	return strconv.Itoa(p.line) + ":" + strconv.Itoa(p.col)
}

// Text is a whole text with line index.
type Text struct {
	name          string
	content       []rune
	lineStarts    []int
	prevLineIndex int
}

// NewText creates line index for content.
func NewText(name, content string) *Text {
	t := &Text{name: name, content: []rune(content), prevLineIndex: -1}
	t.lineStarts = []int{0}
	for i, c := range t.content {
		if c == '\n' {
			t.lineStarts = append(t.lineStarts, i+1)
		}
	}
	return t
}

func (t *Text) Name() string {
	return t.name
}

func (t *Text) String() string {
	return string(t.content)
}

// Len returns text length in characters.
func (t *Text) Len() int {
	return len(t.content)
}

// Slice returns text between character offsets; offsets are clamped.
func (t *Text) Slice(start, end int) string {
	start = t.clamp(start)
	end = t.clamp(end)
	if end < start {
		end = start
	}
	return string(t.content[start:end])
}

// Lines returns the number of lines.
func (t *Text) Lines() int {
	return len(t.lineStarts)
}

func (t *Text) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(t.content) {
		return len(t.content)
	}
	return offset
}

// Point returns the point for character offset. Offset is clamped to the text.
func (t *Text) Point(offset int) Point {
	offset = t.clamp(offset)
	lineIndex := t.findLineIndex(offset)
	return Point{lineIndex + 1, offset - t.lineStarts[lineIndex] + 1}
}

// Offset returns the character offset of p. Points beyond line end or text end are clamped.
func (t *Text) Offset(p Point) int {
	if !p.IsValid() {
		return 0
	}

	l := len(t.content)
	if p.line > len(t.lineStarts) {
		return l
	}

	res := t.lineStarts[p.line-1] + p.col - 1
	lineEnd := l
	if p.line < len(t.lineStarts) {
		lineEnd = t.lineStarts[p.line] - 1
	}
	if res > lineEnd {
		return lineEnd
	}
	return res
}

// OffsetUTF16 converts 0-based line and UTF-16 code unit column (as used by LSP)
// to character offset.
func (t *Text) OffsetUTF16(line, units int) int {
	if line < 0 {
		return 0
	}
	if line >= len(t.lineStarts) {
		return len(t.content)
	}

	offset := t.lineStarts[line]
	for units > 0 && offset < len(t.content) && t.content[offset] != '\n' {
		units -= utf16.RuneLen(t.content[offset])
		offset++
	}
	return offset
}

// PositionUTF16 converts character offset to 0-based line and UTF-16 code unit column.
func (t *Text) PositionUTF16(offset int) (line, units int) {
	offset = t.clamp(offset)
	line = t.findLineIndex(offset)
	for _, c := range t.content[t.lineStarts[line]:offset] {
		units += utf16.RuneLen(c)
	}
	return
}

func (t *Text) findLineIndex(pos int) int {
	if t.prevLineIndex >= 0 && t.lineStarts[t.prevLineIndex] <= pos {
		lineIndex := t.prevLineIndex
		last := len(t.lineStarts) - 1
		for lineIndex <= last && t.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		t.prevLineIndex = lineIndex
		return lineIndex
	}

	leftIndex := 0
	rightIndex := len(t.lineStarts) - 1
	for leftIndex < rightIndex {
		index := (leftIndex + rightIndex + 1) >> 1
		if t.lineStarts[index] <= pos {
			leftIndex = index
		} else {
			rightIndex = index - 1
		}
	}
	t.prevLineIndex = leftIndex
	return leftIndex
}
