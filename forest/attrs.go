package forest

import "github.com/nbpillar/reduce/predicate"

// Record is one entry of attrs[:satisfied] / attrs[:failures]: the test
// that ran and whatever extra payload it returned (spec §4.7).
type Record struct {
	Test  predicate.Name
	Extra []interface{}
}

// StructRecord is one entry of attrs[:satisfied_ancestor] /
// attrs[:failed_ancestor] / attrs[:satisfied_descendant] /
// attrs[:failed_descendant]: the test, the position of the other party to
// the structural relationship, and extra payload (spec §4.4 step 3).
type StructRecord struct {
	Test  predicate.Name
	Other Position
	Extra []interface{}
}

// PendingEntry is a structural test a node is still waiting to have
// evaluated against a future ancestor, keyed by the position of the node
// that originally declared it (spec §4.4: "placed into the node's
// :pending list keyed by child position").
type PendingEntry struct {
	Test   predicate.Name
	Origin Position
}

// Attributes holds a node's reserved test-bookkeeping slots plus a free-
// form map for processor-stashed values (spec §3 "attrs" / §6 reserved
// attribute keys).
type Attributes struct {
	Satisfied          []Record
	Failures           []Record
	SatisfiedAncestor  []StructRecord
	FailedAncestor     []StructRecord
	SatisfiedDescendant []StructRecord
	FailedDescendant   []StructRecord
	Pending            []PendingEntry
	User               map[string]interface{}
}

// Attrs satisfies predicate.NodeView, exposing the reserved slots plus the
// user map under well-known keys (spec §6).
func (n *Node) Attrs() map[string]interface{} {
	out := make(map[string]interface{}, len(n.attrs.User)+7)
	for k, v := range n.attrs.User {
		out[k] = v
	}
	out["satisfied"] = n.attrs.Satisfied
	out["failures"] = n.attrs.Failures
	out["satisfied_ancestor"] = n.attrs.SatisfiedAncestor
	out["failed_ancestor"] = n.attrs.FailedAncestor
	out["satisfied_descendant"] = n.attrs.SatisfiedDescendant
	out["failed_descendant"] = n.attrs.FailedDescendant
	out["pending"] = n.attrs.Pending
	return out
}

// Set stashes a processor-derived value under a user attribute key. Panics
// are not raised on a reserved key collision; in the map returned by Attrs
// the reserved value wins and the user value under that key is not visible
// (processors are expected to use their own namespaced keys).
func (n *Node) Set(key string, value interface{}) {
	if n.attrs.User == nil {
		n.attrs.User = make(map[string]interface{})
	}
	n.attrs.User[key] = value
}

// Get reads back a user attribute previously stored with Set.
func (n *Node) Get(key string) (interface{}, bool) {
	if n.attrs.User == nil {
		return nil, false
	}
	v, ok := n.attrs.User[key]
	return v, ok
}

// Incorrect reports whether this node or anything in its Satisfied/
// Failures/structural records recorded a failing verdict (spec §3
// "incorrectness_count").
func (n *Node) Incorrect() bool { return n.failedTest }

// PendingCount reports 1 if this node is still carrying forward any
// unresolved structural test, 0 otherwise (spec §3 "pending_count": a
// count of roots with pending tests, not of individual pending entries).
func (n *Node) PendingCount() int {
	if len(n.attrs.Pending) > 0 {
		return 1
	}
	return 0
}
