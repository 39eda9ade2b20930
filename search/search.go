package search

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/nbpillar/reduce/forest"
	"github.com/nbpillar/reduce/grammar"
)

// tracer traces with key 'reduce.search'.
func tracer() tracing.Trace {
	return tracing.Select("reduce.search")
}

// Run drives the worklist search to completion: starting from the single
// tokenized candidate seed, it repeatedly pops the best-ranked candidate,
// expands it by one reduction in every possible way, and feeds any
// candidate with no further admissible reduction into the hopper (spec §4,
// §5). Search stops once the worklist is empty; the hopper's contents at
// that point are the result.
//
// seen deduplicates candidates by parse summary, so that two different
// reduction paths which happen to reach an identical forest shape are not
// both explored to exhaustion (this is the "@seen memoized candidate set"
// referenced by the picker's design, grounded on the teacher's ruleset
// loop guard, lr/earley/ruleset.go, generalized from "rule already applied
// in this derivation" to "parse state already queued").
func Run(g *grammar.Grammar, seed *forest.Parse, filters []FilterKey, n int) []*forest.Parse {
	hopper := NewHopper(filters, n)
	picker := NewPicker()
	picker.Push(NewCandidate(seed))
	seen := make(map[string]struct{})

	for !picker.Empty() {
		c := picker.Pop()
		key := c.Parse.Summary()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		next, err := c.Expand(g)
		if err != nil {
			tracer().Errorf("candidate expansion failed: %v", err)
			continue
		}
		if len(next) == 0 {
			tracer().Debugf("candidate %q has no further reduction, admitting to hopper", key)
			hopper.Admit(c.Parse)
			continue
		}
		picker.PushAll(next)
	}
	tracer().Infof("search over %d seen candidate(s) produced %d result(s)", len(seen), hopper.Len())
	return hopper.Results()
}

// First is a convenience wrapper around Run returning only the single
// best-ranked parse (or nil if the search produced none) — the engine's
// First() entry point (spec §6).
func First(g *grammar.Grammar, seed *forest.Parse, filters []FilterKey) *forest.Parse {
	results := Run(g, seed, filters, 1)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}
