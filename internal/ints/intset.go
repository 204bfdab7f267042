// Package ints contains integer containers used by grammar builders.
package ints

import (
	"math/bits"
)

const IntSize = bits.UintSize

// Set is a bit set of non-negative integers.
type Set struct {
	chunks []uint
}

func NewSet(items ...int) *Set {
	return (&Set{}).Add(items...)
}

func (s *Set) grow(item int) {
	need := item/IntSize + 1
	if need > len(s.chunks) {
		chunks := make([]uint, need)
		copy(chunks, s.chunks)
		s.chunks = chunks
	}
}

// Add adds items, negative items are ignored.
func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}
		s.grow(item)
		s.chunks[item/IntSize] |= 1 << uint(item%IntSize)
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < 0 || item/IntSize >= len(s.chunks) {
		return false
	}
	return s.chunks[item/IntSize]&(1<<uint(item%IntSize)) != 0
}

// Union adds all items of t to s.
func (s *Set) Union(t *Set) *Set {
	if len(t.chunks) > len(s.chunks) {
		s.grow(len(t.chunks)*IntSize - 1)
	}
	for i, chunk := range t.chunks {
		s.chunks[i] |= chunk
	}
	return s
}

// Intersects returns true if s and t have common items.
func (s *Set) Intersects(t *Set) bool {
	l := len(s.chunks)
	if len(t.chunks) < l {
		l = len(t.chunks)
	}
	for i := 0; i < l; i++ {
		if s.chunks[i]&t.chunks[i] != 0 {
			return true
		}
	}
	return false
}

func (s *Set) Len() int {
	result := 0
	for _, chunk := range s.chunks {
		result += bits.OnesCount(chunk)
	}
	return result
}

func (s *Set) IsEmpty() bool {
	for _, chunk := range s.chunks {
		if chunk != 0 {
			return false
		}
	}
	return true
}

// ToSlice returns items in ascending order.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, chunk := range s.chunks {
		for chunk != 0 {
			bit := bits.TrailingZeros(chunk)
			result = append(result, i*IntSize+bit)
			chunk &= chunk - 1
		}
	}
	return result
}

func (s *Set) Copy() *Set {
	chunks := make([]uint, len(s.chunks))
	copy(chunks, s.chunks)
	return &Set{chunks}
}
