package reduce

import "fmt"

// Span captures a half-open run of character offsets [From,To) within the
// input text. Every leaf, nonterminal, trash and boundary node carries one.
type Span [2]int

// From returns the start offset of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the offset just behind the end of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length To-From.
func (s Span) Len() int {
	return s[1] - s[0]
}

// IsNull returns true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend grows s to also cover other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// RawToken is the minimal shape of a recognized lexeme: name, text and
// span. No tokenizer in this module produces or consumes it; package lex and
// package lex/lexmach build forest leaf Nodes directly.
type RawToken interface {
	Name() string
	Lexeme() string
	Span() Span
}
