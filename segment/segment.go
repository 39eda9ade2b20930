/*
Package segment splits a tokenized parse into independently searchable
regions at boundary leaves, searches each region on its own, and composes
the per-region results back into whole-text candidate parses (spec §4.5).
Splitting bounds the search space: without it, a single long document with
occasional hard syntactic resets (e.g. statement separators) would force
the reduction search to consider reorderings across the entire token
stream instead of the much smaller space within each reset-to-reset run.

Grounded on the teacher's CFSM state/edge bookkeeping, lr/tables.go
(closure/gotoSet machinery working over explicit edge lists) — generalized
from state-transition edges to independent parse regions linked end to
end, and on the wavefront scheduling idea implicit in
lr/earley/parsetree.go's derivation walk (process the smallest undecided
piece first).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package segment

import (
	"github.com/nbpillar/reduce/forest"
	"github.com/nbpillar/reduce/grammar"
	"github.com/nbpillar/reduce/search"
)

// Segment is one boundary-delimited run of a tokenized parse: the roots
// strictly between two boundary nodes (or the start/end of text), searched
// independently of every other segment.
type Segment struct {
	Roots    []*forest.Node
	LeadingBoundary *forest.Node // nil for the first segment
	results  []*forest.Parse    // filled in by Search
}

// Split partitions a tokenized parse's roots into segments at every
// boundary node (spec §4.5). A parse whose grammar declares no boundary
// leaves yields exactly one segment containing every root.
func Split(tokenized *forest.Parse) []*Segment {
	var segments []*Segment
	cur := &Segment{}
	for _, r := range tokenized.Roots {
		if r.Boundary() {
			segments = append(segments, cur)
			cur = &Segment{LeadingBoundary: r}
			continue
		}
		cur.Roots = append(cur.Roots, r)
	}
	segments = append(segments, cur)
	return segments
}

// Weight estimates a segment's search cost, used to schedule the cheapest
// not-yet-searched segment first (spec §4.5 "min-weight not-done initial
// segment"). Root count is a reasonable proxy: the reduction search space
// grows combinatorially with the number of tokens a segment must reduce.
func (s *Segment) Weight() int { return len(s.Roots) }

// Search runs the reduction search over this segment's roots in isolation,
// caching the hopper's results for later composition.
func (s *Segment) Search(g *grammar.Grammar, text string, filters []search.FilterKey, n int) {
	seed := forest.NewParse(g, text)
	for _, r := range s.Roots {
		seed.Roots = append(seed.Roots, r)
	}
	s.results = search.Run(g, seed, filters, n)
}

// Results returns this segment's best candidate parses, computed by the
// most recent call to Search.
func (s *Segment) Results() []*forest.Parse { return s.results }

// TotalParses returns the product of every segment's result-set size, the
// number of whole-text candidates Compose will need to build (spec §4.5
// "total_parses").
func TotalParses(segments []*Segment) int {
	total := 1
	for _, s := range segments {
		if len(s.results) == 0 {
			return 0
		}
		total *= len(s.results)
	}
	return total
}

// Schedule searches every segment, always picking the lightest not-yet-
// searched segment next (spec §4.5). It returns nothing: each segment keeps
// its own results, ready for Compose.
func Schedule(g *grammar.Grammar, text string, segments []*Segment, filters []search.FilterKey, n int) {
	pending := append([]*Segment(nil), segments...)
	for len(pending) > 0 {
		bestIdx := 0
		for i, s := range pending {
			if s.Weight() < pending[bestIdx].Weight() {
				bestIdx = i
			}
		}
		pending[bestIdx].Search(g, text, filters, n)
		pending = append(pending[:bestIdx], pending[bestIdx+1:]...)
	}
}

// Compose builds every whole-text candidate parse from the cross product
// of each segment's results, re-inserting the boundary node that preceded
// each non-first segment, then runs a final hopper pass over the composed
// set with the same dominance filters (spec §4.5 "final cross-product
// composition + final hopper pass").
func Compose(g *grammar.Grammar, text string, segments []*Segment, filters []search.FilterKey, n int) []*forest.Parse {
	combos := [][]*forest.Parse{{}}
	for _, s := range segments {
		var next [][]*forest.Parse
		for _, combo := range combos {
			for _, r := range s.results {
				c := append(append([]*forest.Parse{}, combo...), r)
				next = append(next, c)
			}
		}
		combos = next
	}

	hopper := search.NewHopper(filters, n)
	for _, combo := range combos {
		var roots []*forest.Node
		for i, part := range combo {
			if segments[i].LeadingBoundary != nil {
				roots = append(roots, segments[i].LeadingBoundary)
			}
			roots = append(roots, part.Roots...)
		}
		whole := forest.NewParse(g, text)
		whole.Roots = roots
		hopper.Admit(whole)
	}
	return hopper.Results()
}
