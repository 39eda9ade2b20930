/*
Package search implements the reduction search loop: a worklist of
candidate parses ordered by (errors, length), a dominance-filtered bag of
best-so-far results (the "hopper"), and the per-candidate iterator that
tries every grammar starter against every root position (spec §4, §5).

Grounded on the teacher's Earley derivation walk, lr/earley/parsetree.go —
in particular its ruleset-based loop guard (lr/earley/ruleset.go) and its
ambiguity policy of keeping every tied-best derivation rather than
collapsing to one. Where gorgo resolves ambiguity by walking a completed
Earley item set once parsing is done, this package instead drives the
reduction forward step by step, because the target grammar model (atom
chains with bounded repetition, trash/boundary leaves) has no item-set
representation to walk backward through.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package search

import (
	"github.com/nbpillar/reduce/forest"
	"github.com/nbpillar/reduce/grammar"
	"github.com/nbpillar/reduce/internal/iterable"
)

// Candidate is one in-flight parse attempt, tracking the position it will
// next try to reduce from and, when the grammar requires loop protection,
// the set of (position, rule) branches already taken (spec §4.6).
type Candidate struct {
	Parse *forest.Parse

	nextRoot int
	branches *iterable.Set // of branchKey, only populated when loop-checked
}

type branchKey struct {
	pos  int
	rule string
}

// NewCandidate wraps a freshly tokenized parse as the first search
// candidate.
func NewCandidate(p *forest.Parse) *Candidate {
	return &Candidate{Parse: p}
}

func (c *Candidate) withParse(p *forest.Parse, nextRoot int) *Candidate {
	nc := &Candidate{Parse: p, nextRoot: nextRoot}
	if c.branches != nil {
		nc.branches = c.branches.Copy()
	}
	return nc
}

// Errors is the candidate's current incorrectness_count (spec §5 ordering
// key component).
func (c *Candidate) Errors() int { return c.Parse.IncorrectnessCount() }

// Length is the candidate's current root count (spec §5 ordering key
// component).
func (c *Candidate) Length() int { return c.Parse.Length() }

// Done reports whether the candidate cannot be reduced any further: no
// root position admits a matching starter atom anywhere in the grammar.
func (c *Candidate) Done(g *grammar.Grammar) bool {
	for i := range c.Parse.Roots {
		if c.admissibleAt(g, i) {
			return false
		}
	}
	return true
}

func (c *Candidate) admissibleAt(g *grammar.Grammar, idx int) bool {
	root := c.Parse.Roots[idx]
	if !root.Traversible() {
		return false
	}
	for _, atom := range g.Starters[root.Name()] {
		if _, ok := c.Parse.TryReduce(idx, atom); ok {
			return true
		}
	}
	return false
}

// Expand produces every next-generation candidate reachable by a single
// reduction from c, trying every root position left-to-right and, at each
// position, every starter atom in the grammar's preference order (longest
// max_consumption first — spec §4.2). When the grammar sets
// DoUnaryBranchCheck, a reduction that would repeat a (position, rule)
// branch already taken by an ancestor of c is skipped (spec §4.6).
func (c *Candidate) Expand(g *grammar.Grammar) ([]*Candidate, error) {
	var out []*Candidate
	for i := range c.Parse.Roots {
		root := c.Parse.Roots[i]
		if !root.Traversible() {
			continue
		}
		for _, atom := range g.Starters[root.Name()] {
			if g.DoUnaryBranchCheck && c.branchSeen(i, atom.Parent.Name.Name) {
				continue
			}
			next, node, ok, err := c.Parse.Reduce(i, atom)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			nc := c.withParse(next, 0)
			if g.DoUnaryBranchCheck {
				if nc.branches == nil {
					nc.branches = iterable.New(nil)
				}
				nc.branches.Add(branchKey{pos: i, rule: atom.Parent.Name.Name})
			}
			_ = node
			out = append(out, nc)
		}
	}
	return out, nil
}

func (c *Candidate) branchSeen(pos int, rule string) bool {
	if c.branches == nil {
		return false
	}
	return c.branches.Has(branchKey{pos: pos, rule: rule})
}
