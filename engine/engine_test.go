package engine

import (
	"testing"

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

func TestEngineFirstReducesWholeText(t *testing.T) {
	g := makeSumGrammar(t)
	eng := New(g)

	result, err := eng.First("1 + 2 + 3", nil)
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if result == nil {
		t.Fatalf("expected a result")
	}
	if !result.Success() {
		t.Errorf("expected Success(), summary=%q errors=%d", result.Summary(), result.IncorrectnessCount())
	}
	if result.Length() != 1 {
		t.Errorf("expected Length()==1, got %d", result.Length())
	}
	if result.Text() != "1 + 2 + 3" {
		t.Errorf("Text() = %q", result.Text())
	}
}

func TestEngineParseRespectsResultCount(t *testing.T) {
	g := makeSumGrammar(t)
	eng := New(g)

	results, err := eng.Parse("1+2", nil, 3)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected at least one result")
	}
	if len(results) > 3 {
		t.Errorf("expected at most 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Errors() {
			t.Errorf("expected every kept result to be error-free for this grammar, got %d", r.IncorrectnessCount())
		}
	}
}

func TestEngineParseRejectsUnknownFilter(t *testing.T) {
	g := makeSumGrammar(t)
	eng := New(g)

	if _, err := eng.Parse("1+2", []string{"bogus"}, 1); err == nil {
		t.Errorf("expected an error for an unknown filter name")
	}
}

func TestResultHashIsStableForIdenticalText(t *testing.T) {
	g := makeSumGrammar(t)
	eng := New(g)

	a, err := eng.First("4+5", nil)
	if err != nil || a == nil {
		t.Fatalf("First: a=%v err=%v", a, err)
	}
	b, err := eng.First("4+5", nil)
	if err != nil || b == nil {
		t.Fatalf("First: b=%v err=%v", b, err)
	}
	ha, err := a.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	hb, err := b.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if ha != hb {
		t.Errorf("expected identical hashes for identical text, got %q and %q", ha, hb)
	}
}

func TestWithLexmachineScannerFallsBackGracefully(t *testing.T) {
	g := makeSumGrammar(t)
	eng := New(g, WithLexmachineScanner())

	result, err := eng.First("1+2", nil)
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if result == nil {
		t.Fatalf("expected a result even with the lexmachine backend selected")
	}
}
