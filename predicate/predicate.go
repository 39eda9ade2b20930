/*
Package predicate implements the four predicate roles a grammar rule or
leaf may carry: preconditions, node tests, structural (ancestor) tests, and
processors.

Predicates are represented as a tagged set of function types, as sketched
in the teacher's design notes for a statically typed port (gorgo itself
resolves predicates dynamically by method-symbol lookup, see
terex/termr/rewrite.go for the dynamic-dispatch style this generalizes).
To let this package be imported by both package grammar (which stores
predicates on rules/leaves) and package forest (which evaluates them
against built nodes) without an import cycle, predicates operate on the
NodeView interface rather than a concrete node type; forest.Node satisfies
it structurally.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package predicate

import "fmt"

// NodeView is the minimal read-only surface a predicate needs from a
// forest.Node, without package predicate importing package forest.
type NodeView interface {
	Name() string
	Start() int
	End() int
	Text() string
	Children() []NodeView
	Attrs() map[string]interface{}
	IsLeaf() bool
}

// Verdict is the outcome tag a test reports.
type Verdict uint8

const (
	Pass Verdict = iota
	Fail
	Ignore
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "ignore"
	}
}

// Outcome is the full return value of a node test or structural test: a
// verdict plus optional extra data appended to attrs[:failures] /
// attrs[:satisfied] (spec §4.7). Preconditions use only the verdict
// (Pass/Fail; Ignore is meaningless for a precondition and is treated as
// Pass).
type Outcome struct {
	Verdict Verdict
	Extra   []interface{}
}

// Pending is returned by an AncestorTest to indicate the test could not yet
// be decided. It carries the Ignore verdict: the entry stays on the
// descendant's pending list and is not evaluated against any later
// ancestor.
var Pending = Outcome{Verdict: Ignore, Extra: nil}

func outcome(v Verdict, extra ...interface{}) Outcome {
	return Outcome{Verdict: v, Extra: extra}
}

// PassOutcome builds a passing outcome, optionally with extra payload.
func PassOutcome(extra ...interface{}) Outcome { return outcome(Pass, extra...) }

// FailOutcome builds a failing outcome, optionally with extra payload.
func FailOutcome(extra ...interface{}) Outcome { return outcome(Fail, extra...) }

// IgnoreOutcome is the silent, no-effect verdict.
func IgnoreOutcome() Outcome { return outcome(Ignore) }

// Name is a predicate's registry key, resolved at Grammar.Commit() time
// (spec §4.8: "test method symbols are resolved to callable references").
type Name string

// NodeTest inspects a just-built node. See spec §4.7.
type NodeTest func(node NodeView) Outcome

// AncestorTest inspects a (parent, child) pair when the child acquires its
// parent. Returning Pending (an Ignore verdict) leaves the test undecided on
// the child; it is not passed on to the parent.
type AncestorTest func(ancestor, descendant NodeView) Outcome

// Precondition is evaluated before a node is built, given the symbol name
// about to be produced, its prospective span, the whole input text and its
// prospective children. Returning Fail silently rejects the reduction —
// no partial tree is produced (spec §4.7).
type Precondition func(name string, start, end int, text string, children []NodeView) Outcome

// Processor runs only on a node that passed all its tests; side-effect
// only. Attrs() returns a fresh map on every call, so writes into it are not
// kept; a processor that stashes a derived value does so through the
// concrete node (forest.Node.Set).
type Processor func(node NodeView)

// Registry resolves predicate names to callables, built once at
// Grammar.Commit() (spec §4.8 "Commit-time checks" / §6 error taxonomy).
type Registry struct {
	nodeTests     map[Name]NodeTest
	ancestorTests map[Name]AncestorTest
	preconditions map[Name]Precondition
	processors    map[Name]Processor
}

// NewRegistry creates an empty predicate registry.
func NewRegistry() *Registry {
	return &Registry{
		nodeTests:     make(map[Name]NodeTest),
		ancestorTests: make(map[Name]AncestorTest),
		preconditions: make(map[Name]Precondition),
		processors:    make(map[Name]Processor),
	}
}

// RegisterNodeTest adds a node test under name, idempotently.
func (r *Registry) RegisterNodeTest(name Name, t NodeTest) { r.nodeTests[name] = t }

// RegisterAncestorTest adds a structural test under name.
func (r *Registry) RegisterAncestorTest(name Name, t AncestorTest) { r.ancestorTests[name] = t }

// RegisterPrecondition adds a precondition under name.
func (r *Registry) RegisterPrecondition(name Name, p Precondition) { r.preconditions[name] = p }

// RegisterProcessor adds a processor under name.
func (r *Registry) RegisterProcessor(name Name, p Processor) { r.processors[name] = p }

// NodeTest looks up a registered node test.
func (r *Registry) NodeTest(name Name) (NodeTest, bool) { t, ok := r.nodeTests[name]; return t, ok }

// AncestorTest looks up a registered ancestor test.
func (r *Registry) AncestorTest(name Name) (AncestorTest, bool) {
	t, ok := r.ancestorTests[name]
	return t, ok
}

// Precondition looks up a registered precondition.
func (r *Registry) Precondition(name Name) (Precondition, bool) {
	p, ok := r.preconditions[name]
	return p, ok
}

// Processor looks up a registered processor.
func (r *Registry) Processor(name Name) (Processor, bool) {
	p, ok := r.processors[name]
	return p, ok
}

// UnexpectedTestResultError is raised (spec §4.7) when a predicate returns
// something outside {Pass, Fail, Ignore}. Go's static Outcome type makes
// this structurally unreachable for well-typed callers, but is kept for
// predicates that build an Outcome by hand from untrusted data (e.g. a
// scripting bridge).
type UnexpectedTestResultError struct {
	Test  Name
	Value interface{}
}

func (e *UnexpectedTestResultError) Error() string {
	return fmt.Sprintf("predicate %q returned unexpected result: %v", e.Test, e.Value)
}
