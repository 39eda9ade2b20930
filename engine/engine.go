/*
Package engine is the top-level entry point: given a compiled grammar, it
tokenizes input text, splits it into independently searchable segments,
runs the reduction search over each, and composes the results into the
caller-facing Result type (spec §4, §6). Grammar declaration itself lives
in package grammar (Builder); this package is where a grammar is actually
put to work against text.

Grounded on the teacher's REPL driver, terex/terexlang/trepl/repl.go,
which plays the analogous "put a compiled grammar to work" role for
gorgo's term-rewriting language, and on lr.TableGenerator's single
entry-point style (BuildGotoTable/BuildSLR1ActionTable) for exposing a
multi-stage pipeline as one call.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/tracing"

	"github.com/nbpillar/reduce/forest"
	"github.com/nbpillar/reduce/grammar"
	"github.com/nbpillar/reduce/lex"
	"github.com/nbpillar/reduce/lex/lexmach"
	"github.com/nbpillar/reduce/search"
	"github.com/nbpillar/reduce/segment"
)

// tracer traces with key 'reduce.engine'.
func tracer() tracing.Trace {
	return tracing.Select("reduce.engine")
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLexmachineScanner selects the single-pass lexmachine DFA tokenizer
// backend instead of the default breadth-first lex-variant tokenizer
// (spec §4.3a). If the grammar's leaves fail to compile into a DFA (most
// often because a pattern uses a Go-regexp feature lexmachine's dialect
// doesn't share), the engine logs a trace warning and falls back to the
// default tokenizer for every Parse/First call.
func WithLexmachineScanner() Option {
	return func(e *Engine) { e.useLexmachine = true }
}

// Engine ties a compiled grammar to the tokenize/segment/search pipeline.
type Engine struct {
	Grammar *grammar.Grammar

	useLexmachine bool
	lm            *lexmach.Adapter
}

// New builds an Engine around a compiled grammar (see grammar.Builder).
func New(g *grammar.Grammar, opts ...Option) *Engine {
	e := &Engine{Grammar: g}
	for _, opt := range opts {
		opt(e)
	}
	if e.useLexmachine {
		if lm, err := lexmach.NewAdapter(g); err == nil {
			e.lm = lm
		} else {
			e.useLexmachine = false
		}
	}
	return e
}

// Result is one finished parse returned to the caller, wrapping a
// forest.Parse with the full accessor surface from spec §6.
type Result struct {
	parse *forest.Parse
}

// Roots returns the result's top-level nodes.
func (r *Result) Roots() []*forest.Node { return r.parse.Roots }

// Text returns the full input text this result was parsed from.
func (r *Result) Text() string { return r.parse.Text }

// Length returns the number of root nodes (1 once fully reduced).
func (r *Result) Length() int { return r.parse.Length() }

// Size returns the total node count across the forest.
func (r *Result) Size() int { return r.parse.Size() }

// IncorrectnessCount returns the number of nodes carrying a failed test.
func (r *Result) IncorrectnessCount() int { return r.parse.IncorrectnessCount() }

// PendingCount returns the number of roots still carrying an unresolved
// structural test.
func (r *Result) PendingCount() int { return r.parse.PendingCount() }

// Summary returns the result's canonical string form.
func (r *Result) Summary() string { return r.parse.Summary() }

// Success reports whether the result fully reduced to a single root
// spanning the whole text with no failed test.
func (r *Result) Success() bool {
	return r.parse.Complete() && r.parse.IncorrectnessCount() == 0
}

// Failure is the complement of Success.
func (r *Result) Failure() bool { return !r.Success() }

// Errors reports whether the result carries any failed test.
func (r *Result) Errors() bool { return r.parse.IncorrectnessCount() > 0 }

// hashable is the subset of a result's shape that determines its identity
// for caching purposes: same text, same canonical forest shape.
type hashable struct {
	Text    string
	Summary string
}

// Hash returns a stable content hash of the result, suitable as a cache
// key for callers that re-parse the same text repeatedly and want to
// avoid redoing work for an already-seen outcome.
func (r *Result) Hash() (string, error) {
	return structhash.Hash(hashable{Text: r.parse.Text, Summary: r.parse.Summary()}, 1)
}

func (e *Engine) tokenizeAll(text string) ([]*forest.Parse, error) {
	if e.useLexmachine && e.lm != nil {
		p, err := e.lm.Tokenize(e.Grammar, text)
		if err == nil {
			return []*forest.Parse{p}, nil
		}
	}
	return lex.Tokenize(e.Grammar, text)
}

// Parse returns up to n best results for text, ranked by filters (one or
// more of "correctness", "completion", "size", "pending"; nil defaults to
// all four in that order). An explicitly empty, non-nil filters slice
// disables dominance filtering entirely: every completed parse is
// returned, regardless of n (spec §6). Every candidate lexing is
// segmented, searched, and composed independently, then merged into a
// single final ranking.
func (e *Engine) Parse(text string, filters []string, n int) ([]*Result, error) {
	keys, err := search.ParseFilters(filters)
	if err != nil {
		return nil, err
	}
	tokenizations, err := e.tokenizeAll(text)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("tokenized %q into %d lex variant(s)", text, len(tokenizations))

	final := search.NewHopper(keys, n)
	for _, tok := range tokenizations {
		segments := segment.Split(tok)
		segment.Schedule(e.Grammar, text, segments, keys, n)
		if segment.TotalParses(segments) == 0 {
			tracer().Debugf("lex variant produced no reducible segments, skipping")
			continue
		}
		for _, p := range segment.Compose(e.Grammar, text, segments, keys, n) {
			final.Admit(p)
		}
	}

	results := make([]*Result, 0, len(final.Results()))
	for _, p := range final.Results() {
		results = append(results, &Result{parse: p})
	}
	tracer().Infof("parse of %q yielded %d result(s)", text, len(results))
	return results, nil
}

// First returns the single best result for text, or nil if the search
// produced none.
func (e *Engine) First(text string, filters []string) (*Result, error) {
	results, err := e.Parse(text, filters, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
