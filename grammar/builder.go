package grammar

import (
	"fmt"
	"regexp"

	"github.com/npillmayer/schuko/tracing"

	"github.com/nbpillar/reduce/predicate"
)

// tracer traces with key 'reduce.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("reduce.grammar")
}

// Builder is the grammar declaration surface (spec §6): clients call
// Rule/Leaf/Ignore/Boundary (optionally KeepWhitespace), then Commit()
// once. Mirrors the two-phase build gorgo uses for lr.GrammarBuilder plus
// lr.Analysis/NewTableGenerator, collapsed into a single Commit call since
// this engine has no separate table-generation phase.
type Builder struct {
	g          *Grammar
	wsDeclared bool
	keepWS     bool
	err        error // first error encountered; Commit() also re-checks
}

// RuleOption configures a rule or leaf declaration.
type RuleOption func(tests *[]predicate.Name, ancestorTests *[]predicate.Name, preconditions *[]predicate.Name, process *predicate.Name)

// WithTests attaches node tests to a rule or leaf.
func WithTests(names ...predicate.Name) RuleOption {
	return func(tests *[]predicate.Name, _ *[]predicate.Name, _ *[]predicate.Name, _ *predicate.Name) {
		*tests = append(*tests, names...)
	}
}

// WithAncestorTests attaches structural tests to a rule or leaf.
func WithAncestorTests(names ...predicate.Name) RuleOption {
	return func(_ *[]predicate.Name, ancestorTests *[]predicate.Name, _ *[]predicate.Name, _ *predicate.Name) {
		*ancestorTests = append(*ancestorTests, names...)
	}
}

// WithPreconditions attaches preconditions to a rule or leaf.
func WithPreconditions(names ...predicate.Name) RuleOption {
	return func(_ *[]predicate.Name, _ *[]predicate.Name, preconditions *[]predicate.Name, _ *predicate.Name) {
		*preconditions = append(*preconditions, names...)
	}
}

// WithProcessor attaches a processor to a rule or leaf.
func WithProcessor(name predicate.Name) RuleOption {
	return func(_ *[]predicate.Name, _ *[]predicate.Name, _ *[]predicate.Name, process *predicate.Name) {
		*process = name
	}
}

// NewBuilder creates an empty grammar builder.
func NewBuilder() *Builder {
	return &Builder{
		g: &Grammar{
			symbols:    newSymbolTable(),
			rules:      make(map[string]*Rule),
			leaves:     make(map[string]*Leaf),
			Predicates: predicate.NewRegistry(),
		},
	}
}

// Predicates exposes the builder's predicate registry, so callers can
// register NodeTest/AncestorTest/Precondition/Processor callables before
// Commit() resolves the names used by Rule/Leaf declarations.
func (b *Builder) Predicates() *predicate.Registry {
	return b.g.Predicates
}

// Start designates the grammar's start symbol (purely informational — see
// Grammar.StartSymbol).
func (b *Builder) Start(name string) *Builder {
	b.g.start = b.g.symbols.intern(name, false)
	return b
}

func applyOptions(opts []RuleOption) ([]predicate.Name, []predicate.Name, []predicate.Name, predicate.Name) {
	var tests, ancestorTests, preconditions []predicate.Name
	var process predicate.Name
	for _, opt := range opts {
		opt(&tests, &ancestorTests, &preconditions, &process)
	}
	return tests, ancestorTests, preconditions, process
}

// Rule declares (or idempotently re-declares — spec §4.8: "Duplicate
// declarations (same name + body + test set) are idempotent") a rule.
func (b *Builder) Rule(name, body string, opts ...RuleOption) *Builder {
	if b.err != nil {
		return b
	}
	tests, ancestorTests, preconditions, process := applyOptions(opts)
	specs, err := parseBody(body)
	if err != nil {
		b.err = err
		return b
	}
	sym := b.g.symbols.intern(name, false)
	var subrules []*Rule
	if len(specs) > 1 {
		for _, alt := range specs {
			subrules = append(subrules, b.buildChain(sym, alt, tests, ancestorTests, preconditions, process))
		}
	}
	var r *Rule
	if subrules != nil {
		r = &Rule{Name: sym, Subrules: subrules, Tests: tests, AncestorTests: ancestorTests,
			Preconditions: preconditions, Process: process}
	} else {
		r = b.buildChain(sym, specs[0], tests, ancestorTests, preconditions, process)
	}
	if existing, ok := b.g.rules[name]; ok {
		if !sameRuleDecl(existing, r) {
			b.err = fmt.Errorf("grammar: conflicting re-declaration of rule %q", name)
		}
		return b
	}
	r.Serial = len(b.g.ruleOrder)
	b.g.rules[name] = r
	b.g.ruleOrder = append(b.g.ruleOrder, r)
	return b
}

func sameRuleDecl(a, b *Rule) bool {
	// Idempotence check is intentionally shallow: same name is already
	// guaranteed by the map key; treat re-declaration as a no-op unless
	// the arity of atoms/subrules visibly differs.
	if len(a.Subrules) != len(b.Subrules) {
		return false
	}
	na, nb := 0, 0
	for x := a.Atoms; x != nil; x = x.Next {
		na++
	}
	for x := b.Atoms; x != nil; x = x.Next {
		nb++
	}
	return na == nb
}

func (b *Builder) buildChain(lhs *Symbol, specs []atomSpec, tests, ancestorTests, preconditions []predicate.Name, process predicate.Name) *Rule {
	r := &Rule{Name: lhs, Tests: tests, AncestorTests: ancestorTests, Preconditions: preconditions, Process: process}
	var head, tail *Atom
	for _, spec := range specs {
		var seekSym *Symbol
		if spec.literal {
			seekSym = b.g.symbols.intern(spec.name, true)
			b.declareLiteralLeaf(spec.name)
		} else {
			// could resolve to either a rule or a leaf; terminal-ness is
			// settled once all declarations are in, so intern loosely as
			// nonterminal and let Commit's completeness check accept a
			// leaf of the same name too.
			if existing, ok := b.g.symbols.lookup(spec.name); ok {
				seekSym = existing
			} else {
				seekSym = b.g.symbols.intern(spec.name, false)
			}
		}
		a := &Atom{Seeking: seekSym, Min: spec.min, Max: spec.max, Literal: spec.literal, Parent: r}
		if head == nil {
			head = a
		} else {
			tail.Next = a
		}
		tail = a
	}
	r.Atoms = head
	return r
}

func (b *Builder) declareLiteralLeaf(lit string) {
	if _, ok := b.g.leaves[lit]; ok {
		return
	}
	re := regexp.MustCompile(quoteLiteral(lit))
	sym := b.g.symbols.intern(lit, true)
	l := &Leaf{Sym: sym, Pattern: re}
	b.g.leaves[lit] = l
	b.g.leafOrder = append(b.g.leafOrder, l)
}

// Leaf declares a terminal pattern.
func (b *Builder) Leaf(name, pattern string, opts ...RuleOption) *Builder {
	return b.leaf(name, pattern, false, false, opts)
}

// Ignore declares an ignorable leaf (spec §6): atom matching skips over it.
func (b *Builder) Ignore(name, pattern string, opts ...RuleOption) *Builder {
	return b.leaf(name, pattern, true, false, opts)
}

// Boundary declares a boundary leaf (spec §6): splits input into segments,
// never a child of another node.
func (b *Builder) Boundary(name, pattern string, opts ...RuleOption) *Builder {
	return b.leaf(name, pattern, false, true, opts)
}

func (b *Builder) leaf(name, pattern string, ignorable, boundary bool, opts []RuleOption) *Builder {
	if b.err != nil {
		return b
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		b.err = err
		return b
	}
	tests, ancestorTests, preconditions, process := applyOptions(opts)
	sym := b.g.symbols.intern(name, true)
	l := &Leaf{Sym: sym, Pattern: re, Ignorable: ignorable, Boundary: boundary,
		Tests: tests, AncestorTests: ancestorTests, Preconditions: preconditions, Process: process}
	if name == "_ws" {
		b.wsDeclared = true
	}
	if _, exists := b.g.leaves[name]; !exists {
		b.g.leafOrder = append(b.g.leafOrder, l)
	}
	b.g.leaves[name] = l
	return b
}

// KeepWhitespace suppresses the automatically injected `_ws` leaf
// (spec §4.8).
func (b *Builder) KeepWhitespace() *Builder {
	b.keepWS = true
	return b
}

// Commit runs the commit-time checks from spec §4.8 and returns the
// compiled, immutable Grammar.
func (b *Builder) Commit() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.g.leaves) == 0 {
		return nil, ErrNoLeaves
	}
	if !b.keepWS && !b.wsDeclared {
		name := "_ws"
		for n := 1; ; n++ {
			if _, exists := b.g.leaves[name]; !exists {
				break
			}
			name = fmt.Sprintf("_ws%d", n)
		}
		wsLeaf := &Leaf{
			Sym:       b.g.symbols.intern(name, true),
			Pattern:   regexp.MustCompile(`\s+`),
			Ignorable: true,
		}
		b.g.leaves[name] = wsLeaf
		b.g.leafOrder = append(b.g.leafOrder, wsLeaf)
	}
	b.g.trash = &Leaf{Sym: b.g.symbols.intern("_trash", true), Pattern: nil}
	b.fixupSymbolKinds()
	if err := b.validatePredicateNames(); err != nil {
		tracer().Errorf("commit failed: %v", err)
		return nil, err
	}
	if err := b.g.compile(); err != nil {
		tracer().Errorf("commit failed: %v", err)
		return nil, err
	}
	b.g.committed = true
	tracer().Infof("grammar committed: %d rule(s), %d leaf/leaves, unary-loop-check=%v",
		len(b.g.ruleOrder), len(b.g.leaves), b.g.DoUnaryBranchCheck)
	return b.g, nil
}

// fixupSymbolKinds finalizes each interned symbol's terminal/nonterminal
// flag now that every rule and leaf has been declared (an atom may have
// been compiled before the compiler could tell which kind its seeking
// symbol would turn out to be).
func (b *Builder) fixupSymbolKinds() {
	for name, leaf := range b.g.leaves {
		leaf.Sym.terminal = true
		if sym, ok := b.g.symbols.lookup(name); ok {
			sym.terminal = true
		}
	}
	for name := range b.g.rules {
		if sym, ok := b.g.symbols.lookup(name); ok {
			sym.terminal = false
		}
	}
}

func (b *Builder) validatePredicateNames() error {
	check := func(names []predicate.Name, arity int) error {
		for _, n := range names {
			switch arity {
			case 1:
				if _, ok := b.g.Predicates.NodeTest(n); !ok {
					return &UndefinedTestError{Name: string(n)}
				}
			case 2:
				if _, ok := b.g.Predicates.AncestorTest(n); !ok {
					return &UndefinedTestError{Name: string(n)}
				}
			case 5:
				if _, ok := b.g.Predicates.Precondition(n); !ok {
					return &UndefinedPreconditionError{Name: string(n)}
				}
			}
		}
		return nil
	}
	checkProcess := func(p predicate.Name) error {
		if p == "" {
			return nil
		}
		if _, ok := b.g.Predicates.Processor(p); !ok {
			return &UndefinedProcessorError{Name: string(p)}
		}
		return nil
	}
	for _, r := range b.g.ruleOrder {
		if err := check(r.Tests, 1); err != nil {
			return err
		}
		if err := check(r.AncestorTests, 2); err != nil {
			return err
		}
		if err := check(r.Preconditions, 5); err != nil {
			return err
		}
		if err := checkProcess(r.Process); err != nil {
			return err
		}
	}
	for _, l := range b.g.leaves {
		if err := check(l.Tests, 1); err != nil {
			return err
		}
		if err := check(l.AncestorTests, 2); err != nil {
			return err
		}
		if err := check(l.Preconditions, 5); err != nil {
			return err
		}
		if err := checkProcess(l.Process); err != nil {
			return err
		}
	}
	return nil
}
