/*
Package forest implements the Node/Parse data model: a parse forest built
by clone-on-extend reductions, with memoized derived attributes and
attribute propagation for structural tests (spec §3).

Grounded on the teacher's shared packed parse forest, package sppf
(lr/sppf/sppf.go, lr/sppf/visit.go) — this module's Parse plays the role of
sppf.Forest, and Node the role of sppf.SymbolNode, generalized from an
and-or DAG (which shares subtrees across ambiguous derivations) to
independent, fully cloned parse trees (the spec explicitly wants copy-on-
extend rather than a shared DAG, since nodes carry mutable-until-frozen
test attributes that must not be shared across competing parses).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package forest

import (
	"strings"

	"github.com/nbpillar/reduce"
	"github.com/nbpillar/reduce/grammar"
	"github.com/nbpillar/reduce/predicate"
)

// Kind discriminates the four node shapes from spec §3.
type Kind uint8

const (
	LeafKind Kind = iota
	NonterminalKind
	TrashKind
	BoundaryKind
)

func (k Kind) String() string {
	switch k {
	case LeafKind:
		return "leaf"
	case NonterminalKind:
		return "nonterminal"
	case TrashKind:
		return "trash"
	case BoundaryKind:
		return "boundary"
	default:
		return "?"
	}
}

// Position is a node's stable identity within a parse, per spec §3: "start,
// height) is unique within a parse" and stable under clone (spec
// invariant 5).
type Position struct {
	Start  int
	Height int
}

// Node is one node of a parse forest (spec §3).
type Node struct {
	Rule interface{} // *grammar.Rule (nonterminal) or *grammar.Leaf (leaf/trash/boundary)
	Kind Kind
	Span reduce.Span
	kids []*Node

	attrs Attributes

	failedTest bool

	// ownerText points at the full source text of the parse this node
	// belongs to; set once by Parse at construction time and copied by
	// value into every clone (spec invariant 5: text never mutates).
	ownerText string

	// memoized, lazily computed; zero means "not yet computed"
	height  int
	size    int
	summary string
}

// newLeafLike builds a Leaf, Trash or Boundary node (never has children).
func newLeafLike(kind Kind, leaf *grammar.Leaf, start, end int, text string) *Node {
	return &Node{
		Rule: leaf, Kind: kind, Span: reduce.Span{start, end}, ownerText: text,
		height: 0, size: 1,
	}
}

// NewLeaf builds a leaf node for a matched leaf rule.
func NewLeaf(leaf *grammar.Leaf, start, end int, text string) *Node {
	return newLeafLike(LeafKind, leaf, start, end, text)
}

// NewTrash builds a trash node boxing unmatched characters.
func NewTrash(trash *grammar.Leaf, start, end int, text string) *Node {
	return newLeafLike(TrashKind, trash, start, end, text)
}

// NewBoundary builds a boundary node for a matched boundary leaf.
func NewBoundary(leaf *grammar.Leaf, start, end int, text string) *Node {
	return newLeafLike(BoundaryKind, leaf, start, end, text)
}

// Name returns the node's grammar symbol name.
func (n *Node) Name() string {
	switch r := n.Rule.(type) {
	case *grammar.Rule:
		return r.Name.Name
	case *grammar.Leaf:
		return r.Name()
	}
	return ""
}

// --- spec §6 "Node accessors", and grammar.MatchNode / predicate.NodeView ---

func (n *Node) SymbolName() string { return n.Name() }
func (n *Node) IsLeaf() bool       { return n.Kind == LeafKind }
func (n *Node) Ignorable() bool {
	l, ok := n.Rule.(*grammar.Leaf)
	return ok && l.Ignorable
}
func (n *Node) Boundary() bool { return n.Kind == BoundaryKind }
func (n *Node) Trash() bool    { return n.Kind == TrashKind }

// Traversible reports whether n may legally be a child of another node
// (spec invariant 2: boundary/trash nodes are never inside another node's
// subtree).
func (n *Node) Traversible() bool {
	return n.Kind != TrashKind && n.Kind != BoundaryKind
}

func (n *Node) FailedTest() bool { return n.failedTest }
func (n *Node) Failed() bool     { return n.failedTest }

// Start returns the node's start offset.
func (n *Node) Start() int { return n.Span.From() }

// End returns the node's end offset.
func (n *Node) End() int { return n.Span.To() }

// Height is 0 for a leaf, else 1 + children[0].height (spec §3).
func (n *Node) Height() int {
	if n.Kind != NonterminalKind {
		return 0
	}
	if n.height == 0 && len(n.kids) > 0 {
		n.height = 1 + n.kids[0].Height()
	}
	return n.height
}

// Size is 1 for a leaf, else Σ children.size + 1 (spec §3).
func (n *Node) Size() int {
	if n.size != 0 {
		return n.size
	}
	if n.Kind != NonterminalKind {
		n.size = 1
		return 1
	}
	total := 1
	for _, c := range n.kids {
		total += c.Size()
	}
	n.size = total
	return total
}

// Position returns the node's stable (start, height) identity.
func (n *Node) Position() Position {
	return Position{Start: n.Start(), Height: n.Height()}
}

// Text satisfies predicate.NodeView, returning the node's slice of the
// owning parse's source text.
func (n *Node) Text() string {
	return n.ownerText[n.Start():n.End()]
}

// Children satisfies predicate.NodeView, exposing the node's children as
// []predicate.NodeView without forcing predicate to import this package.
func (n *Node) Children() []predicate.NodeView {
	out := make([]predicate.NodeView, len(n.kids))
	for i, c := range n.kids {
		out[i] = c
	}
	return out
}

// ChildNodes returns the node's children as concrete *Node, for internal
// tree-walking (search/segment/engine) that needs more than the NodeView
// surface.
func (n *Node) ChildNodes() []*Node { return n.kids }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.kids) }

// Summary is the canonical string form of this node (spec §3, §8
// "Summary injectivity").
func (n *Node) Summary() string {
	if n.summary != "" {
		return n.summary
	}
	var b strings.Builder
	n.writeSummary(&b)
	n.summary = b.String()
	return n.summary
}

func (n *Node) writeSummary(b *strings.Builder) {
	switch n.Kind {
	case TrashKind:
		b.WriteString("#trash")
		return
	case BoundaryKind:
		b.WriteString(n.Name())
		return
	case LeafKind:
		b.WriteString(n.Name())
		return
	}
	b.WriteString(n.Name())
	b.WriteByte('[')
	for i, c := range n.kids {
		if i > 0 {
			b.WriteByte(',')
		}
		c.writeSummary(b)
	}
	b.WriteByte(']')
}
