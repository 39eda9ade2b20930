/*
Package lex turns source text into every maximal lex-variant tokenization
the grammar's leaves admit, plus trash for any unmatched stretch (spec
§4.3). Where a single offset has more than one matching leaf pattern, every
variant is kept as an independent candidate parse — lexical ambiguity is
resolved later, by the same test/dominance machinery that resolves
reduction ambiguity, not by a greedy longest-match rule.

Grounded on the teacher's scanner abstraction, lr/scanner/scanner.go
(Tokenizer interface, Option functional pattern) — generalized from a
single deterministic token stream to a breadth-first worklist over lexing
states, because this engine needs every candidate lexing rather than one.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lex

import "github.com/nbpillar/reduce/forest"
import "github.com/nbpillar/reduce/grammar"

// state is one in-flight tokenization: how far into text it has consumed,
// and the forest.Parse accumulated so far.
type state struct {
	offset int
	parse  *forest.Parse
}

// Tokenize returns every maximal lex-variant tokenization of text under g,
// each as a forest.Parse whose roots are leaf/trash/boundary nodes ready
// for the search package to begin reducing (spec §4.3).
func Tokenize(g *grammar.Grammar, text string) ([]*forest.Parse, error) {
	seed := forest.NewParse(g, text)
	queue := []state{{offset: 0, parse: seed}}
	var done []*forest.Parse

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		if s.offset >= len(text) {
			done = append(done, s.parse)
			continue
		}

		matches := matchingLeaves(g, text, s.offset)
		if len(matches) == 0 {
			end := nextMatchOffset(g, text, s.offset+1)
			queue = append(queue, state{offset: end, parse: s.parse.AddTrash(s.offset, end)})
			continue
		}
		for _, m := range matches {
			next, err := extend(s.parse, m.leaf, s.offset, m.end)
			if err != nil {
				return nil, err
			}
			if next == nil {
				continue // silently rejected by a precondition
			}
			queue = append(queue, state{offset: m.end, parse: next})
		}
	}
	return done, nil
}

type leafMatch struct {
	leaf *grammar.Leaf
	end  int
}

// matchingLeaves returns every declared leaf whose pattern matches
// anchored at offset, in declaration order.
func matchingLeaves(g *grammar.Grammar, text string, offset int) []leafMatch {
	var out []leafMatch
	for _, l := range g.Leaves() {
		if end, ok := l.MatchAt(text, offset); ok && end > offset {
			out = append(out, leafMatch{leaf: l, end: end})
		}
	}
	return out
}

// nextMatchOffset scans forward from offset for the first position some
// leaf matches, so a run of unmatched characters becomes a single trash
// node rather than one per character (spec §4.3 "box unmatched
// characters").
func nextMatchOffset(g *grammar.Grammar, text string, offset int) int {
	for offset < len(text) {
		if len(matchingLeaves(g, text, offset)) > 0 {
			return offset
		}
		offset++
	}
	return len(text)
}

func extend(p *forest.Parse, leaf *grammar.Leaf, start, end int) (*forest.Parse, error) {
	if leaf.Boundary {
		return p.AddBoundary(leaf, start, end), nil
	}
	next, _, err := p.AddLeaf(leaf, start, end)
	return next, err
}
