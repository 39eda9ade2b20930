package grammar

import (
	"sort"

	"github.com/emirpasic/gods/utils"

	"github.com/nbpillar/reduce/predicate"
)

// Grammar is the compiled collection of rules, leaves, the starter index,
// the loop-check flag and the predicate registry (spec §3).
type Grammar struct {
	symbols    *symbolTable
	rules      map[string]*Rule
	ruleOrder  []*Rule
	leaves     map[string]*Leaf
	leafOrder  []*Leaf
	trash      *Leaf
	start      *Symbol
	keepWS     bool

	// Starters maps a symbol name to the atoms that can begin a match of
	// it, sorted descending by MaxConsumption (spec §4.2).
	Starters map[string][]*Atom

	// DoUnaryBranchCheck is set by the loop detector at Commit() time
	// (spec §4.6) whenever the grammar's unary rules admit a cycle.
	DoUnaryBranchCheck bool

	Predicates *predicate.Registry

	committed bool
}

// StartSymbol returns the grammar's designated start symbol, if one was
// set via Builder.Start(); used only by callers that want a single
// distinguished root rule (the engine's Parse/First entry points do not
// require one — segments search every starter, not just the start rule).
func (g *Grammar) StartSymbol() *Symbol { return g.start }

// Rule looks up a compiled rule by name.
func (g *Grammar) Rule(name string) (*Rule, bool) {
	r, ok := g.rules[name]
	return r, ok
}

// Leaf looks up a compiled leaf by name.
func (g *Grammar) Leaf(name string) (*Leaf, bool) {
	l, ok := g.leaves[name]
	return l, ok
}

// Leaves returns every declared leaf, in declaration order, including the
// synthetic whitespace leaf unless KeepWhitespace() was called, but
// excluding the trash rule.
func (g *Grammar) Leaves() []*Leaf {
	out := make([]*Leaf, len(g.leafOrder))
	copy(out, g.leafOrder)
	return out
}

// TrashLeaf returns the grammar's single synthetic trash rule (spec §3:
// "a leaf with pattern=None").
func (g *Grammar) TrashLeaf() *Leaf { return g.trash }

// Symbol looks up an interned symbol by name.
func (g *Grammar) Symbol(name string) (*Symbol, bool) {
	return g.symbols.lookup(name)
}

// EachRule calls f for every compiled rule, in declaration order.
func (g *Grammar) EachRule(f func(*Rule)) {
	for _, r := range g.ruleOrder {
		f(r)
	}
}

// compile runs rule compilation, builds the starter index, checks
// completeness, and runs the loop detector. Called once from
// Builder.Commit().
func (g *Grammar) compile() error {
	for _, r := range g.ruleOrder {
		r.compile()
		if !r.IsDisjunction() && r.minSum() == 0 {
			return &EmptyConsumptionError{Rule: r.Name.Name}
		}
	}
	if err := g.checkCompleteness(); err != nil {
		return err
	}
	g.buildStarterIndex()
	g.runLoopDetector()
	return nil
}

func (g *Grammar) checkCompleteness() error {
	seen := make(map[string]struct{})
	for _, r := range g.ruleOrder {
		for name := range r.Seeking() {
			seen[name] = struct{}{}
		}
	}
	for name := range seen {
		if _, isRule := g.rules[name]; isRule {
			continue
		}
		if _, isLeaf := g.leaves[name]; isLeaf {
			continue
		}
		return &UndefinedSymbolError{Name: name}
	}
	return nil
}

// buildStarterIndex collects every (symbol, atom) starter pair across all
// rules and sorts each symbol's atom list descending by MaxConsumption
// (spec §4.2: "Grammar.starters ... sorted descending by
// atom.max_consumption so the engine prefers atoms that can consume
// more").
func (g *Grammar) buildStarterIndex() {
	g.Starters = make(map[string][]*Atom)
	for _, r := range g.ruleOrder {
		// compile() already folded every subrule's starters up into the
		// disjunction's own r.starters, so a single pass over Starters()
		// covers both a plain atom chain and a disjunction alike.
		for _, se := range r.Starters() {
			g.Starters[se.Symbol.Name] = append(g.Starters[se.Symbol.Name], se.Atom)
		}
	}
	for name, atoms := range g.Starters {
		sort.SliceStable(atoms, func(i, j int) bool {
			return utils.IntComparator(atoms[j].MaxConsumption(), atoms[i].MaxConsumption()) < 0
		})
		g.Starters[name] = atoms
	}
}

// runLoopDetector implements spec §4.6: collect branches() of every
// potentially-unary rule, chase edges looking for a cycle, and set
// DoUnaryBranchCheck if one is found.
func (g *Grammar) runLoopDetector() {
	type edge struct{ from, to string }
	var edges []edge
	for _, r := range g.ruleOrder {
		// compile() folds subrule branches up into the disjunction's own
		// r.branches (see buildStarterIndex), so no IsDisjunction check is
		// needed here either.
		for _, b := range r.Branches() {
			edges = append(edges, edge{from: b.From.Name, to: b.To})
		}
	}
	adjacency := make(map[string][]string)
	for _, e := range edges {
		adjacency[e.from] = append(adjacency[e.from], e.to)
	}
	for start := range adjacency {
		visited := map[string]struct{}{start: {}}
		if g.chaseForCycle(adjacency, start, visited) {
			g.DoUnaryBranchCheck = true
			return
		}
	}
}

func (g *Grammar) chaseForCycle(adjacency map[string][]string, node string, visited map[string]struct{}) bool {
	for _, next := range adjacency[node] {
		if _, already := visited[next]; already {
			return true
		}
		visited2 := make(map[string]struct{}, len(visited)+1)
		for k := range visited {
			visited2[k] = struct{}{}
		}
		visited2[next] = struct{}{}
		if g.chaseForCycle(adjacency, next, visited2) {
			return true
		}
	}
	return false
}
