package source

import (
	"unicode/utf8"
)

// Reader delivers text chunk by chunk.
// Read returns ok == false (or an empty chunk) to signal end of stream;
// no chunks are requested after that until the next Seek.
type Reader interface {
	Read() (chunk string, ok bool)
}

// Seeker repositions a Reader: the next Read must deliver text starting at character offset.
type Seeker interface {
	Seek(offset int)
}

// Input is the streaming input protocol used by parser.
type Input interface {
	Reader
	Seeker
}

// StringInput delivers the whole remaining text in a single chunk.
type StringInput struct {
	text   string
	offset int
	done   bool
}

// NewStringInput wraps text.
func NewStringInput(text string) *StringInput {
	return &StringInput{text: text}
}

func (in *StringInput) Read() (string, bool) {
	if in.done {
		return "", false
	}

	in.done = true
	chunk := in.text[byteOffset(in.text, in.offset):]
	return chunk, chunk != ""
}

func (in *StringInput) Seek(offset int) {
	in.offset = offset
	in.done = false
}

// ChunkedInput delivers text in chunks of fixed byte size.
// Chunk boundaries may split multi-byte characters.
type ChunkedInput struct {
	text   string
	size   int
	offset int
}

// NewChunkedInput wraps text, size is the maximum chunk length in bytes (at least 1).
func NewChunkedInput(text string, size int) *ChunkedInput {
	if size < 1 {
		size = 1
	}
	return &ChunkedInput{text: text, size: size}
}

func (in *ChunkedInput) Read() (string, bool) {
	if in.offset >= len(in.text) {
		return "", false
	}

	end := in.offset + in.size
	if end > len(in.text) {
		end = len(in.text)
	}
	chunk := in.text[in.offset:end]
	in.offset = end
	return chunk, true
}

func (in *ChunkedInput) Seek(offset int) {
	in.offset = byteOffset(in.text, offset)
}

func byteOffset(text string, chars int) int {
	if chars <= 0 {
		return 0
	}

	for i := range text {
		if chars == 0 {
			return i
		}
		chars--
	}
	return len(text)
}

// Len returns the number of characters in text as counted by Stream.
func Len(text string) int {
	return utf8.RuneCountInString(text)
}
