/*
Package iterable implements a small destructive Set container, used by
package search where an algorithm is easier to express as set operations
than as slice bookkeeping.

All operations are destructive, as in the original design this package is
modeled on (see the teacher's gorgo.lr/iteratable, of which only the
package doc survived retrieval — this is a from-scratch rebuild in the same
spirit, adapted for reduction search instead of LR closure computation).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package iterable

// Set is an insertion-ordered set of arbitrary elements, compared by a
// caller-supplied key function at construction time. Elements are stored in
// insertion order, but no method exposes that order.
//
// Only the New/Add/Has/Copy surface is kept — the package's sole call site
// (search.Candidate's loop-guard) never needs removal, iteration, or set
// algebra.
type Set struct {
	keyOf func(interface{}) interface{}
	order []interface{}
	index map[interface{}]int // key -> position in order
}

// New creates an empty Set. keyOf extracts a comparable identity from an
// element; pass nil to use the element itself (it must then be comparable).
func New(keyOf func(interface{}) interface{}) *Set {
	if keyOf == nil {
		keyOf = identity
	}
	return &Set{
		keyOf: keyOf,
		order: make([]interface{}, 0, 4),
		index: make(map[interface{}]int),
	}
}

func identity(x interface{}) interface{} { return x }

// Add inserts el if not already present. Returns the set for chaining.
func (s *Set) Add(el interface{}) *Set {
	k := s.keyOf(el)
	if _, ok := s.index[k]; ok {
		return s
	}
	s.index[k] = len(s.order)
	s.order = append(s.order, el)
	return s
}

// Has reports whether el (by key) is a member.
func (s *Set) Has(el interface{}) bool {
	_, ok := s.index[s.keyOf(el)]
	return ok
}

// Copy returns a shallow copy sharing no backing storage with s.
func (s *Set) Copy() *Set {
	cp := New(s.keyOf)
	cp.order = append(cp.order, s.order...)
	for k, v := range s.index {
		cp.index[k] = v
	}
	return cp
}
