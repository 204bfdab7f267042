package source

import (
	"io"
	"unicode/utf8"
)

const trimThreshold = 4096

// Stream is a forward character cursor over an Input.
// Text is requested from the input only when a character beyond the buffered ones is needed.
// Stream tracks the point of its current position and the furthest offset ever examined.
type Stream struct {
	input    Input
	buf      []rune
	base     int
	pos      int
	point    Point
	pending  []byte
	eof      bool
	furthest int
	reads    int
	seeks    int
}

// NewStream creates a stream positioned at the start of input.
// Input is repositioned to offset 0.
func NewStream(in Input) *Stream {
	s := &Stream{input: in}
	s.restart(0, StartPoint())
	return s
}

func (s *Stream) restart(offset int, p Point) {
	s.input.Seek(offset)
	s.seeks++
	s.buf = s.buf[:0]
	s.base = offset
	s.pos = offset
	s.point = p
	s.pending = nil
	s.eof = false
}

// Pos returns current character offset.
func (s *Stream) Pos() int {
	return s.pos
}

// Point returns current point.
func (s *Stream) Point() Point {
	return s.point
}

// Furthest returns the offset following the furthest character examined so far.
// Detecting end of stream at offset n counts as examining a character at n.
func (s *Stream) Furthest() int {
	return s.furthest
}

// Touch marks offsets below end as examined.
func (s *Stream) Touch(end int) {
	if end > s.furthest {
		s.furthest = end
	}
}

// Reads returns the number of Read calls made so far.
func (s *Stream) Reads() int {
	return s.reads
}

// Seeks returns the number of Seek calls made so far.
func (s *Stream) Seeks() int {
	return s.seeks
}

func (s *Stream) fill() bool {
	for !s.eof {
		chunk, ok := s.input.Read()
		s.reads++
		if !ok || chunk == "" {
			s.eof = true
			added := len(s.pending)
			for range s.pending {
				s.buf = append(s.buf, utf8.RuneError)
			}
			s.pending = nil
			return added > 0
		}

		data := chunk
		if len(s.pending) > 0 {
			data = string(s.pending) + chunk
			s.pending = nil
		}

		added := 0
		for i := 0; i < len(data); {
			if !utf8.FullRuneInString(data[i:]) {
				s.pending = []byte(data[i:])
				break
			}

			r, size := utf8.DecodeRuneInString(data[i:])
			s.buf = append(s.buf, r)
			i += size
			added++
		}
		if added > 0 {
			return true
		}
	}

	return false
}

func (s *Stream) runeAt(offset int) (rune, bool) {
	s.Touch(offset + 1)
	for offset >= s.base+len(s.buf) {
		if !s.fill() {
			return 0, false
		}
	}

	return s.buf[offset-s.base], true
}

// AtEnd returns true if there are no characters at current position.
func (s *Stream) AtEnd() bool {
	_, ok := s.runeAt(s.pos)
	return !ok
}

// Peek returns the character at current position.
func (s *Stream) Peek() (rune, bool) {
	return s.runeAt(s.pos)
}

type runeReader struct {
	s      *Stream
	offset int
}

func (r *runeReader) ReadRune() (rune, int, error) {
	c, ok := r.s.runeAt(r.offset)
	if !ok {
		return 0, 0, io.EOF
	}

	r.offset++
	return c, utf8.RuneLen(c), nil
}

// Reader returns a reader fetching characters starting at current position
// without moving it.
func (s *Stream) Reader() io.RuneReader {
	return &runeReader{s, s.pos}
}

// Chars converts the length in bytes of UTF-8 encoded text starting at current position
// to the number of characters. Text must already be buffered.
func (s *Stream) Chars(bytes int) int {
	n := 0
	for i := s.pos - s.base; bytes > 0 && i < len(s.buf); i++ {
		bytes -= utf8.RuneLen(s.buf[i])
		n++
	}
	return n
}

// Text returns n buffered characters starting at current position.
func (s *Stream) Text(n int) string {
	start := s.pos - s.base
	end := start + n
	if end > len(s.buf) {
		end = len(s.buf)
	}
	return string(s.buf[start:end])
}

// Advance moves current position n buffered characters forward, updating current point.
func (s *Stream) Advance(n int) {
	start := s.pos - s.base
	end := start + n
	if end > len(s.buf) {
		end = len(s.buf)
	}
	s.point = s.point.Advance(s.buf[start:end])
	s.pos = s.base + end

	if end > trimThreshold {
		s.buf = append(s.buf[:0], s.buf[end:]...)
		s.base = s.pos
	}
}

// Jump moves current position to offset at point p, skipping text known to the caller.
// Input is repositioned unless offset is already buffered.
func (s *Stream) Jump(offset int, p Point) {
	if offset >= s.pos && offset <= s.base+len(s.buf) {
		s.pos = offset
		s.point = p
		return
	}

	s.restart(offset, p)
}
