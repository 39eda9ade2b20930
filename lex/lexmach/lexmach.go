/*
Package lexmach wraps github.com/timtadh/lexmachine as an alternate,
single-pass tokenizer backend: a compiled DFA scan that resolves lexical
ambiguity the conventional way (longest match, earliest-declared rule
wins) instead of keeping every lex variant. Use it for grammars whose
leaves do not overlap ambiguously — engine.WithLexmachineScanner() selects
it, falling back to the breadth-first package lex tokenizer (with a trace
warning) when DFA compilation fails.

Grounded on the teacher's own lexmachine adapter,
lr/scanner/lexmach/lexmachine.go (LMAdapter/LMScanner), generalized from a
token-type enum resolved from a caller-supplied map to a leaf lookup table
built directly from the grammar's declared leaves.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/nbpillar/reduce/forest"
	"github.com/nbpillar/reduce/grammar"
)

func tracer() tracing.Trace {
	return tracing.Select("reduce.lex")
}

// Adapter compiles a grammar's leaves into a single lexmachine DFA.
type Adapter struct {
	lexer    *lexmachine.Lexer
	leafByID map[int]*grammar.Leaf
}

// NewAdapter compiles every non-trash leaf of g into a lexmachine.Lexer.
// Leaf patterns are Go regexp source (spec §3 Leaf.Pattern); lexmachine's
// own regex dialect is close enough for the common leaf shapes (literals,
// character classes, simple repetition) that most grammars compile
// unchanged, but callers with an incompatible pattern should expect
// NewAdapter to fail and fall back to package lex.
func NewAdapter(g *grammar.Grammar) (*Adapter, error) {
	a := &Adapter{lexer: lexmachine.NewLexer(), leafByID: make(map[int]*grammar.Leaf)}
	id := 0
	for _, l := range g.Leaves() {
		if l.Pattern == nil {
			continue
		}
		leaf := l
		thisID := id
		a.leafByID[thisID] = leaf
		a.lexer.Add([]byte(leaf.Pattern.String()), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return s.Token(thisID, string(m.Bytes), m), nil
		})
		id++
	}
	if err := a.lexer.Compile(); err != nil {
		tracer().Errorf("lexmachine DFA compile failed, caller should fall back to lex.Tokenize: %v", err)
		return nil, err
	}
	return a, nil
}

// Tokenize produces the single deterministic tokenization lexmachine's DFA
// resolves to. Unlike lex.Tokenize, ambiguous lexings are not preserved —
// this backend trades that for single-pass speed (spec §4.3a).
func (a *Adapter) Tokenize(g *grammar.Grammar, text string) (*forest.Parse, error) {
	sc, err := a.lexer.Scanner([]byte(text))
	if err != nil {
		return nil, err
	}
	p := forest.NewParse(g, text)
	pos := 0
	for {
		tok, scanErr, eof := sc.Next()
		if scanErr != nil {
			if ui, ok := scanErr.(*machines.UnconsumedInput); ok {
				end := ui.FailTC
				if end <= pos {
					end = pos + 1
				}
				p = p.AddTrash(pos, end)
				pos = end
				sc.TC = end
				continue
			}
			tracer().Errorf("scanner error: %v", scanErr)
			continue
		}
		if eof {
			break
		}
		t := tok.(*lexmachine.Token)
		leaf := a.leafByID[t.Type]
		start, end := t.StartColumn, t.EndColumn
		if leaf.Boundary {
			p = p.AddBoundary(leaf, start, end)
		} else {
			next, _, err := p.AddLeaf(leaf, start, end)
			if err != nil {
				return nil, err
			}
			if next != nil {
				p = next
			}
		}
		pos = end
	}
	return p, nil
}
