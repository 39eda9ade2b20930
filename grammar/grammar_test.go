package grammar

import "testing"

// makeSumGrammar builds a small left-recursive arithmetic sum grammar.
// Repetition in this engine's rule bodies only ever applies to a single
// symbol ("number+", "digit*") — a sequence like "one or more (plus
// number) groups" is expressed the classical bottom-up way instead, as a
// left-recursive disjunction the reduction search applies repeatedly:
//
//	sum := number | sum plus number
func makeSumGrammar(t *testing.T) *Grammar {
	b := NewBuilder()
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

func TestBuilderCommit(t *testing.T) {
	g := makeSumGrammar(t)
	if _, ok := g.Rule("sum"); !ok {
		t.Errorf("expected rule 'sum' to be compiled")
	}
	if _, ok := g.Leaf("number"); !ok {
		t.Errorf("expected leaf 'number' to be compiled")
	}
	if g.TrashLeaf() == nil {
		t.Errorf("expected a synthetic trash leaf")
	}
}

func TestAutoWhitespaceLeaf(t *testing.T) {
	g := makeSumGrammar(t)
	if _, ok := g.Leaf("_ws"); !ok {
		t.Errorf("expected an automatically injected '_ws' leaf")
	}
}

func TestKeepWhitespaceSuppressesAutoLeaf(t *testing.T) {
	b := NewBuilder()
	b.Leaf("number", `[0-9]+`)
	b.Rule("digits", "number+")
	b.KeepWhitespace()
	g, err := b.Commit()
	if err != nil {
		t.Fatalf("could not commit grammar: %v", err)
	}
	if _, ok := g.Leaf("_ws"); ok {
		t.Errorf("expected no automatic whitespace leaf when KeepWhitespace is set")
	}
}

func TestNoLeavesIsRejected(t *testing.T) {
	b := NewBuilder()
	b.Rule("sum", "number+")
	if _, err := b.Commit(); err != ErrNoLeaves {
		t.Errorf("expected ErrNoLeaves, got %v", err)
	}
}

func TestUndefinedSymbolIsRejected(t *testing.T) {
	b := NewBuilder()
	b.Leaf("number", `[0-9]+`)
	b.Rule("sum", "number missing_symbol")
	_, err := b.Commit()
	if err == nil {
		t.Fatalf("expected an UndefinedSymbolError")
	}
	if _, ok := err.(*UndefinedSymbolError); !ok {
		t.Errorf("expected *UndefinedSymbolError, got %T: %v", err, err)
	}
}

func TestEmptyConsumptionIsRejected(t *testing.T) {
	b := NewBuilder()
	b.Leaf("number", `[0-9]+`)
	b.Rule("maybe", "number?")
	_, err := b.Commit()
	if _, ok := err.(*EmptyConsumptionError); !ok {
		t.Errorf("expected *EmptyConsumptionError, got %T: %v", err, err)
	}
}

func TestStarterIndexSortedByMaxConsumption(t *testing.T) {
	b := NewBuilder()
	b.Leaf("a", `a`)
	b.Leaf("b", `b`)
	b.Rule("short", "a")
	b.Rule("long", "a b+")
	g, err := b.Commit()
	if err != nil {
		t.Fatalf("could not commit grammar: %v", err)
	}
	atoms := g.Starters["a"]
	if len(atoms) != 2 {
		t.Fatalf("expected 2 starter atoms for 'a', got %d", len(atoms))
	}
	if atoms[0].MaxConsumption() < atoms[1].MaxConsumption() {
		t.Errorf("expected starters sorted descending by max_consumption")
	}
}

func TestAtomMatchSkipsIgnorableAndStopsAtFailed(t *testing.T) {
	b := NewBuilder()
	b.Leaf("number", `[0-9]+`)
	b.Rule("digits", "number+")
	g, err := b.Commit()
	if err != nil {
		t.Fatalf("could not commit grammar: %v", err)
	}
	rule, _ := g.Rule("digits")
	atom := rule.Starters()[0].Atom

	nodes := []MatchNode{
		fakeNode{name: "number"},
		fakeNode{name: "_ws", ignorable: true},
		fakeNode{name: "number"},
		fakeNode{name: "number", failed: true},
		fakeNode{name: "number"},
	}
	end, ok := atom.Match(nodes, 0)
	if !ok {
		t.Fatalf("expected atom chain to match")
	}
	if end != 3 {
		t.Errorf("expected match to stop right before the failed node, got end=%d", end)
	}
}

type fakeNode struct {
	name      string
	ignorable bool
	failed    bool
}

func (f fakeNode) SymbolName() string { return f.name }
func (f fakeNode) Ignorable() bool    { return f.ignorable }
func (f fakeNode) Traversible() bool  { return true }
func (f fakeNode) FailedTest() bool   { return f.failed }
