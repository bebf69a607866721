/*
 * llang
 *
 * Index and span primitives for the compiler front-end.
 */

package parser

import "fmt"

// ByteIdx is a byte offset into a CompilationUnit's normalized source text.
type ByteIdx int

// GraphemeIdx is a position in a CompilationUnit's grapheme array. The spec
// calls this the "uc index": one unit per user-perceived character.
type GraphemeIdx int

// TokenIdx is a position in a Tokens vector. A value equal to the vector's
// length is a valid sentinel meaning "past the end".
type TokenIdx int

// NodeIdx is a position in an AST node arena. The last node ever pushed is
// always the module root.
type NodeIdx int

// ByteSpan is an inclusive [Start, End] range of byte offsets.
type ByteSpan struct {
	Start ByteIdx
	End   ByteIdx
}

// NewByteSpan builds a ByteSpan, asserting the invariant start <= end.
func NewByteSpan(start, end ByteIdx) ByteSpan {
	assertTrue(start <= end, "ByteSpan start must not be after end")
	return ByteSpan{Start: start, End: end}
}

// Merge returns the smallest span covering both s and other.
func (s ByteSpan) Merge(other ByteSpan) ByteSpan {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return ByteSpan{Start: start, End: end}
}

func (s ByteSpan) String() string {
	return fmt.Sprintf("[%d, %d]", s.Start, s.End)
}

// GraphemeSpan is an inclusive [Start, End] range of grapheme indices.
type GraphemeSpan struct {
	Start GraphemeIdx
	End   GraphemeIdx
}

// NewGraphemeSpan builds a GraphemeSpan, asserting start <= end.
func NewGraphemeSpan(start, end GraphemeIdx) GraphemeSpan {
	assertTrue(start <= end, "GraphemeSpan start must not be after end")
	return GraphemeSpan{Start: start, End: end}
}

// SingleGrapheme returns a span covering exactly one grapheme index.
func SingleGrapheme(idx GraphemeIdx) GraphemeSpan {
	return GraphemeSpan{Start: idx, End: idx}
}

// Merge returns the smallest span covering both s and other.
func (s GraphemeSpan) Merge(other GraphemeSpan) GraphemeSpan {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return GraphemeSpan{Start: start, End: end}
}

// Width is the number of graphemes covered (inclusive-end).
func (s GraphemeSpan) Width() int {
	return int(s.End-s.Start) + 1
}

func (s GraphemeSpan) String() string {
	return fmt.Sprintf("[%d, %d]", s.Start, s.End)
}
