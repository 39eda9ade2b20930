package forest

import (
	"testing"

	"github.com/nbpillar/reduce/grammar"
	"github.com/nbpillar/reduce/predicate"
)

func makeSumGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder()
	b.Leaf("number", `[0-9]+`)
	b.Leaf("plus", `\+`)
	b.Rule("sum", "number | sum plus number")
	b.Start("sum")
	g, err := b.Commit()
	if err != nil {
		t.Fatalf("could not commit grammar: %v", err)
	}
	return g
}

// tokenizeFlat builds a Parse with one leaf node per character run,
// skipping over whitespace entirely (no AddTrash/_ws handling — this is a
// minimal fixture, not a tokenizer test; package lex does real tokenizing).
func tokenizeFlat(t *testing.T, g *grammar.Grammar, text string, names ...string) *Parse {
	p := NewParse(g, text)
	offset := 0
	for _, name := range names {
		leaf, ok := g.Leaf(name)
		if !ok {
			t.Fatalf("no such leaf %q", name)
		}
		end, ok := leaf.MatchAt(text, offset)
		if !ok {
			t.Fatalf("leaf %q does not match %q at offset %d", name, text, offset)
		}
		var node *Node
		var err error
		p, node, err = p.AddLeaf(leaf, offset, end)
		if err != nil {
			t.Fatalf("AddLeaf(%q): %v", name, err)
		}
		if node == nil {
			t.Fatalf("AddLeaf(%q) unexpectedly rejected", name)
		}
		offset = end
	}
	return p
}

func TestReduceBuildsLeftRecursiveChain(t *testing.T) {
	g := makeSumGrammar(t)
	text := "1+2+3"
	p := tokenizeFlat(t, g, text, "number", "plus", "number", "plus", "number")

	if len(g.Starters["number"]) == 0 {
		t.Fatalf("expected at least one starter atom for 'number'")
	}

	// Repeatedly apply the first admissible "sum"-producing atom at the
	// leftmost root where one applies, until the forest collapses to a
	// single root, mirroring what search.Run does one candidate at a time.
	for len(p.Roots) > 1 {
		reduced := false
		for i := 0; i < len(p.Roots) && !reduced; i++ {
			for _, atom := range g.Starters[p.Roots[i].Name()] {
				next, _, ok, err := p.Reduce(i, atom)
				if err != nil {
					t.Fatalf("Reduce: %v", err)
				}
				if ok {
					p = next
					reduced = true
					break
				}
			}
		}
		if !reduced {
			t.Fatalf("stuck with %d roots, summary=%q", len(p.Roots), p.Summary())
		}
	}
	if !p.Complete() {
		t.Errorf("expected a complete parse, got summary=%q", p.Summary())
	}
	if p.Roots[0].Name() != "sum" {
		t.Errorf("expected root named 'sum', got %q", p.Roots[0].Name())
	}
}

func TestReduceNeverMutatesParent(t *testing.T) {
	g := makeSumGrammar(t)
	p := tokenizeFlat(t, g, "1+2", "number", "plus", "number")
	before := len(p.Roots)

	atom := g.Starters["number"][0]
	next, _, ok, err := p.Reduce(0, atom)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if !ok {
		t.Fatalf("expected Reduce to succeed")
	}
	if len(p.Roots) != before {
		t.Errorf("original parse was mutated: expected %d roots, got %d", before, len(p.Roots))
	}
	if next == p {
		t.Errorf("expected a distinct *Parse from Reduce")
	}
}

func TestAddLeafRejectedPreconditionReturnsNil(t *testing.T) {
	b := grammar.NewBuilder()
	b.Leaf("number", `[0-9]+`, grammar.WithPreconditions("always_reject"))
	b.Rule("digits", "number+")
	b.Predicates().RegisterPrecondition("always_reject", func(name string, start, end int, text string, children []predicate.NodeView) predicate.Outcome {
		return predicate.FailOutcome()
	})
	g, err := b.Commit()
	if err != nil {
		t.Fatalf("could not commit grammar: %v", err)
	}
	leaf, _ := g.Leaf("number")
	p := NewParse(g, "7")
	next, node, err := p.AddLeaf(leaf, 0, 1)
	if err != nil {
		t.Fatalf("AddLeaf: %v", err)
	}
	if next != nil || node != nil {
		t.Errorf("expected (nil, nil) on a rejected precondition, got (%v, %v)", next, node)
	}
}

func TestAncestorTestPropagatesUntilResolved(t *testing.T) {
	b := grammar.NewBuilder()
	b.Leaf("number", `[0-9]+`)
	b.Leaf("plus", `\+`, grammar.WithAncestorTests("has_sum_ancestor"))
	b.Rule("sum", "number | sum plus number")
	var resolvedAt string
	b.Predicates().RegisterAncestorTest("has_sum_ancestor", func(ancestor, descendant predicate.NodeView) predicate.Outcome {
		if ancestor.Name() != "sum" {
			return predicate.IgnoreOutcome()
		}
		resolvedAt = ancestor.Name()
		return predicate.PassOutcome()
	})
	g, err := b.Commit()
	if err != nil {
		t.Fatalf("could not commit grammar: %v", err)
	}

	p := tokenizeFlat(t, g, "1+2", "number", "plus", "number")
	// "1" -> sum
	atom := g.Starters["number"][0]
	p, _, ok, err := p.Reduce(0, atom)
	if err != nil || !ok {
		t.Fatalf("first reduce: ok=%v err=%v", ok, err)
	}
	if len(p.Roots[1].attrs.Pending) != 1 {
		t.Fatalf("expected the 'plus' leaf to carry one pending ancestor test, got %d", len(p.Roots[1].attrs.Pending))
	}
	// "sum plus number" -> sum, which should resolve the pending test.
	sumAtom := g.Starters["sum"][0]
	p, node, ok, err := p.Reduce(0, sumAtom)
	if err != nil || !ok {
		t.Fatalf("second reduce: ok=%v err=%v", ok, err)
	}
	if resolvedAt != "sum" {
		t.Errorf("expected the ancestor test to resolve against a 'sum' node")
	}
	plusChild := node.ChildNodes()[1]
	if len(plusChild.attrs.Pending) != 0 {
		t.Errorf("expected the 'plus' leaf's pending list to be empty after resolution")
	}
	if len(plusChild.attrs.SatisfiedDescendant) != 1 {
		t.Errorf("expected the 'plus' leaf to record a satisfied_descendant entry")
	}
}

func TestTrashAndBoundaryNeverTraversible(t *testing.T) {
	g := makeSumGrammar(t)
	p := NewParse(g, "1??2")
	p = p.AddTrash(1, 3)
	if p.Roots[0].Traversible() {
		t.Errorf("expected a trash node to be non-traversible")
	}
	if p.Roots[0].Summary() != "#trash" {
		t.Errorf("expected trash summary '#trash', got %q", p.Roots[0].Summary())
	}

	leaf, _ := g.Leaf("plus")
	p2 := p.AddBoundary(leaf, 3, 4)
	last := p2.Roots[len(p2.Roots)-1]
	if last.Traversible() {
		t.Errorf("expected a boundary node to be non-traversible")
	}
	if !last.Boundary() {
		t.Errorf("expected Boundary() to report true")
	}
}
