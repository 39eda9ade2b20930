package forest

import (
	"strings"

	"github.com/nbpillar/reduce/grammar"
	"github.com/nbpillar/reduce/predicate"
)

// Parse is one candidate parse forest: an ordered list of root nodes over
// the full input text, built up by repeated reductions (spec §3, §4.4).
// A Parse is never mutated in place once handed to the search worklist;
// Reduce returns a new Parse that shares every untouched root with its
// parent and clones only the region a reduction touched (clone-on-extend,
// spec invariant 5).
type Parse struct {
	Grammar *grammar.Grammar
	Text    string
	Roots   []*Node

	size           int
	sizeValid      bool
	incorrect      int
	incorrectValid bool
	pending        int
	pendingValid   bool
	summary        string
}

// NewParse creates an empty parse over text, ready to receive leaves via
// AddLeaf/AddTrash/AddBoundary (spec §4.3 tokenization) before any
// reduction is attempted.
func NewParse(g *grammar.Grammar, text string) *Parse {
	return &Parse{Grammar: g, Text: text}
}

// shallowClone copies the Parse header with a fresh Roots slice; callers
// fill in the new Roots contents.
func (p *Parse) shallowClone(newRoots []*Node) *Parse {
	return &Parse{Grammar: p.Grammar, Text: p.Text, Roots: newRoots}
}

// Length is the number of root nodes currently in the forest (spec §3: a
// fully reduced parse has length 1).
func (p *Parse) Length() int { return len(p.Roots) }

// Size is the total node count across every root (spec §3).
func (p *Parse) Size() int {
	if !p.sizeValid {
		total := 0
		for _, r := range p.Roots {
			total += r.Size()
		}
		p.size = total
		p.sizeValid = true
	}
	return p.size
}

// IncorrectnessCount is the number of root nodes (recursively, any node in
// the forest) carrying a failed test (spec §3 "incorrectness_count").
func (p *Parse) IncorrectnessCount() int {
	if !p.incorrectValid {
		count := 0
		for _, r := range p.Roots {
			count += countIncorrect(r)
		}
		p.incorrect = count
		p.incorrectValid = true
	}
	return p.incorrect
}

func countIncorrect(n *Node) int {
	c := 0
	if n.failedTest {
		c = 1
	}
	for _, k := range n.kids {
		c += countIncorrect(k)
	}
	return c
}

// PendingCount is the number of roots still carrying an unresolved
// structural test (spec §3 "pending_count").
func (p *Parse) PendingCount() int {
	if !p.pendingValid {
		count := 0
		for _, r := range p.Roots {
			count += r.PendingCount()
		}
		p.pending = count
		p.pendingValid = true
	}
	return p.pending
}

// Summary is the parse's canonical string form: root summaries joined in
// order (spec §3, §8).
func (p *Parse) Summary() string {
	if p.summary == "" {
		parts := make([]string, len(p.Roots))
		for i, r := range p.Roots {
			parts[i] = r.Summary()
		}
		p.summary = strings.Join(parts, " ")
	}
	return p.summary
}

// Complete reports whether the parse has reduced to a single root spanning
// the whole text (spec §3 "completion").
func (p *Parse) Complete() bool {
	return len(p.Roots) == 1 && p.Roots[0].Start() == 0 && p.Roots[0].End() == len(p.Text)
}

func asMatchNodes(nodes []*Node) []grammar.MatchNode {
	out := make([]grammar.MatchNode, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func asNodeViews(nodes []*Node) []predicate.NodeView {
	out := make([]predicate.NodeView, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

// TryReduce reports how many consecutive roots starting at startIdx the
// given starter atom would consume, without building anything (spec §4.1,
// used by the search iterator to decide whether a candidate reduction is
// worth attempting).
func (p *Parse) TryReduce(startIdx int, atom *grammar.Atom) (consumed int, ok bool) {
	if startIdx >= len(p.Roots) {
		return 0, false
	}
	return atom.Match(asMatchNodes(p.Roots[startIdx:]), 0)
}

// rejectedByPrecondition is not used: Reduce learns of a silent
// precondition rejection (spec §4.7: "no partial tree is produced") from
// checkPreconditions' bool result, and reports it, like "the atom chain
// didn't match", as ok == false with no error.
type rejectedByPrecondition struct{}

// Reduce attempts to build a new nonterminal node over the roots beginning
// at startIdx, using atom as the rule's starter (spec §4.2, §4.4 step 3).
// On success it returns a new Parse with the matched roots replaced by the
// single new node, sharing every other root with p. The unary-loop check
// the grammar may require (Grammar.DoUnaryBranchCheck, spec §4.6) is the
// caller's job (see search.Candidate.Expand); Reduce itself only refuses a
// unary reduction whose new node has the same name and span as the single
// root it would wrap.
func (p *Parse) Reduce(startIdx int, atom *grammar.Atom) (*Parse, *Node, bool, error) {
	consumed, ok := p.TryReduce(startIdx, atom)
	if !ok || consumed == 0 {
		return nil, nil, false, nil
	}
	rule := atom.Parent
	children := p.Roots[startIdx : startIdx+consumed]
	start := children[0].Start()
	end := children[len(children)-1].End()

	if rejected, err := p.checkPreconditions(rule.Name.Name, start, end, rule.Preconditions, children); err != nil {
		return nil, nil, false, err
	} else if rejected {
		return nil, nil, false, nil
	}

	clones := make([]*Node, len(children))
	for i, c := range children {
		clones[i] = c.cloneForNewParent()
	}

	node := &Node{
		Rule:      rule,
		Kind:      NonterminalKind,
		Span:      [2]int{start, end},
		kids:      clones,
		ownerText: p.Text,
	}

	if err := p.evaluateNodeTests(node, rule.Tests); err != nil {
		return nil, nil, false, err
	}
	if err := p.propagatePending(node); err != nil {
		return nil, nil, false, err
	}
	p.installOwnPending(node, rule.AncestorTests)
	if err := p.runProcessor(node, rule.Process); err != nil {
		return nil, nil, false, err
	}

	if p.alreadyDerived(startIdx, consumed, node) {
		return nil, nil, false, nil
	}

	newRoots := make([]*Node, 0, len(p.Roots)-consumed+1)
	newRoots = append(newRoots, p.Roots[:startIdx]...)
	newRoots = append(newRoots, node)
	newRoots = append(newRoots, p.Roots[startIdx+consumed:]...)
	return p.shallowClone(newRoots), node, true, nil
}

// alreadyDerived is the narrow loop guard Reduce always applies: a rule
// that would reduce a single root to a node with the same name and span as
// that root is a no-op unary cycle.
func (p *Parse) alreadyDerived(startIdx, consumed int, node *Node) bool {
	if consumed != 1 {
		return false
	}
	return p.Roots[startIdx].Name() == node.Name() && p.Roots[startIdx].Start() == node.Start() && p.Roots[startIdx].End() == node.End()
}

func (p *Parse) checkPreconditions(name string, start, end int, names []predicate.Name, children []*Node) (rejected bool, err error) {
	if len(names) == 0 {
		return false, nil
	}
	views := asNodeViews(children)
	for _, pn := range names {
		fn, ok := p.Grammar.Predicates.Precondition(pn)
		if !ok {
			return false, &grammar.UndefinedPreconditionError{Name: string(pn)}
		}
		out := fn(name, start, end, p.Text, views)
		if out.Verdict == predicate.Fail {
			return true, nil
		}
	}
	return false, nil
}

func (p *Parse) evaluateNodeTests(node *Node, names []predicate.Name) error {
	for _, tn := range names {
		fn, ok := p.Grammar.Predicates.NodeTest(tn)
		if !ok {
			return &grammar.UndefinedTestError{Name: string(tn)}
		}
		out := fn(node)
		switch out.Verdict {
		case predicate.Pass:
			node.attrs.Satisfied = append(node.attrs.Satisfied, Record{Test: tn, Extra: out.Extra})
		case predicate.Fail:
			node.attrs.Failures = append(node.attrs.Failures, Record{Test: tn, Extra: out.Extra})
			node.failedTest = true
		case predicate.Ignore:
		default:
			return &predicate.UnexpectedTestResultError{Test: tn, Value: out.Verdict}
		}
	}
	return nil
}

// propagatePending implements spec §4.4 step 3: each child's still-pending
// structural tests fire against the newly built parent, and results are
// recorded on both parties. Tests that remain undecided (Ignore) stay on the
// child's own Pending list; they are not moved to the parent and are not
// evaluated against any later ancestor.
func (p *Parse) propagatePending(parent *Node) error {
	for _, child := range parent.kids {
		var stillPending []PendingEntry
		for _, entry := range child.attrs.Pending {
			fn, ok := p.Grammar.Predicates.AncestorTest(entry.Test)
			if !ok {
				return &grammar.UndefinedTestError{Name: string(entry.Test)}
			}
			out := fn(parent, child)
			switch out.Verdict {
			case predicate.Ignore:
				stillPending = append(stillPending, entry)
			case predicate.Pass:
				parent.attrs.SatisfiedAncestor = append(parent.attrs.SatisfiedAncestor,
					StructRecord{Test: entry.Test, Other: child.Position(), Extra: out.Extra})
				child.attrs.SatisfiedDescendant = append(child.attrs.SatisfiedDescendant,
					StructRecord{Test: entry.Test, Other: parent.Position(), Extra: out.Extra})
			case predicate.Fail:
				parent.attrs.FailedAncestor = append(parent.attrs.FailedAncestor,
					StructRecord{Test: entry.Test, Other: child.Position(), Extra: out.Extra})
				child.attrs.FailedDescendant = append(child.attrs.FailedDescendant,
					StructRecord{Test: entry.Test, Other: parent.Position(), Extra: out.Extra})
				parent.failedTest = true
				child.failedTest = true
			default:
				return &predicate.UnexpectedTestResultError{Test: entry.Test, Value: out.Verdict}
			}
		}
		child.attrs.Pending = stillPending
	}
	return nil
}

// installOwnPending places this rule's own declared ancestor tests onto the
// freshly built node's Pending list, to be resolved once the node itself
// acquires a parent (spec §4.4: "on creation, placed into the node's
// pending list").
func (p *Parse) installOwnPending(node *Node, names []predicate.Name) {
	if len(names) == 0 {
		return
	}
	origin := node.Position()
	for _, n := range names {
		node.attrs.Pending = append(node.attrs.Pending, PendingEntry{Test: n, Origin: origin})
	}
}

func (p *Parse) runProcessor(node *Node, name predicate.Name) error {
	if name == "" || node.failedTest {
		return nil
	}
	fn, ok := p.Grammar.Predicates.Processor(name)
	if !ok {
		return &grammar.UndefinedProcessorError{Name: string(name)}
	}
	fn(node)
	return nil
}

// AddLeaf appends a leaf node built from a matched leaf rule, running the
// leaf's own tests/preconditions/processor exactly as Reduce does for
// nonterminals (spec §4.3: lexing produces nodes subject to the same test
// machinery as reductions).
func (p *Parse) AddLeaf(leaf *grammar.Leaf, start, end int) (*Parse, *Node, error) {
	if rejected, err := p.checkPreconditions(leaf.Name(), start, end, leaf.Preconditions, nil); err != nil {
		return nil, nil, err
	} else if rejected {
		return nil, nil, nil
	}
	node := NewLeaf(leaf, start, end, p.Text)
	if err := p.evaluateNodeTests(node, leaf.Tests); err != nil {
		return nil, nil, err
	}
	p.installOwnPending(node, leaf.AncestorTests)
	if err := p.runProcessor(node, leaf.Process); err != nil {
		return nil, nil, err
	}
	newRoots := append(append([]*Node{}, p.Roots...), node)
	return p.shallowClone(newRoots), node, nil
}

// AddTrash appends a trash node boxing characters no leaf pattern matched
// (spec §4.3).
func (p *Parse) AddTrash(start, end int) *Parse {
	node := NewTrash(p.Grammar.TrashLeaf(), start, end, p.Text)
	newRoots := append(append([]*Node{}, p.Roots...), node)
	return p.shallowClone(newRoots)
}

// AddBoundary appends a boundary node (spec §4.3, §4.5): a leaf matched
// against the grammar's declared boundary pattern, never a candidate for
// Traversible matching by Atom.Match.
func (p *Parse) AddBoundary(leaf *grammar.Leaf, start, end int) *Parse {
	node := NewBoundary(leaf, start, end, p.Text)
	newRoots := append(append([]*Node{}, p.Roots...), node)
	return p.shallowClone(newRoots)
}
