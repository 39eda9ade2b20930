package search

import (
	"testing"

	"github.com/nbpillar/reduce/forest"
	"github.com/nbpillar/reduce/grammar"
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

func tokenizeFlat(t *testing.T, g *grammar.Grammar, text string, names ...string) *forest.Parse {
	p := forest.NewParse(g, text)
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
		var err error
		p, _, err = p.AddLeaf(leaf, offset, end)
		if err != nil {
			t.Fatalf("AddLeaf(%q): %v", name, err)
		}
		offset = end
	}
	return p
}

func TestRunReducesToSingleCompleteParse(t *testing.T) {
	g := makeSumGrammar(t)
	seed := tokenizeFlat(t, g, "1+2+3", "number", "plus", "number", "plus", "number")

	result := First(g, seed, nil)
	if result == nil {
		t.Fatalf("expected a result")
	}
	if !result.Complete() {
		t.Errorf("expected a complete parse, got summary=%q length=%d", result.Summary(), result.Length())
	}
	if result.IncorrectnessCount() != 0 {
		t.Errorf("expected no incorrectness, got %d", result.IncorrectnessCount())
	}
	want := "sum[sum[sum[number,plus,number],plus,number]]"
	if result.Summary() != want {
		t.Errorf("summary = %q, want %q", result.Summary(), want)
	}
}

func TestRunOnSingleNumberReducesTrivially(t *testing.T) {
	g := makeSumGrammar(t)
	seed := tokenizeFlat(t, g, "7", "number")

	result := First(g, seed, nil)
	if result == nil {
		t.Fatalf("expected a result")
	}
	if !result.Complete() {
		t.Errorf("expected a complete parse, got summary=%q", result.Summary())
	}
	if result.Roots[0].Name() != "sum" {
		t.Errorf("expected root 'sum', got %q", result.Roots[0].Name())
	}
}

func TestHopperPreservesTies(t *testing.T) {
	g := makeSumGrammar(t)
	seed := tokenizeFlat(t, g, "1+2", "number", "plus", "number")

	results := Run(g, seed, []FilterKey{FilterCorrectness}, 1)
	if len(results) == 0 {
		t.Fatalf("expected at least one result")
	}
	// "sum plus sum" and the complete parse both have no failed test, so
	// the correctness-only hopper must keep both despite capacity 1.
	if len(results) < 2 {
		t.Errorf("expected tied results beyond capacity 1 to be kept, got %d", len(results))
	}
	for _, r := range results {
		if r.IncorrectnessCount() != results[0].IncorrectnessCount() {
			t.Errorf("expected every kept result to share the best correctness key")
		}
	}
}

func TestParseFiltersRejectsUnknownName(t *testing.T) {
	if _, err := ParseFilters([]string{"bogus"}); err == nil {
		t.Errorf("expected an error for an unknown filter name")
	}
}

func TestParseFiltersDefaultsToAllFour(t *testing.T) {
	keys, err := ParseFilters(nil)
	if err != nil {
		t.Fatalf("ParseFilters: %v", err)
	}
	if len(keys) != 4 {
		t.Errorf("expected 4 default filters, got %d", len(keys))
	}
}
