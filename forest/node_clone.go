package forest

// cloneForNewParent returns a copy of n suitable for becoming a child of a
// newly created parent: every reserved attribute slice is copied so that
// appending resolved ancestor-test records to the clone never aliases the
// backing array of a sibling candidate parse that still references the
// original n (clone-on-extend, spec invariant 5).
func (n *Node) cloneForNewParent() *Node {
	clone := *n
	clone.attrs = Attributes{
		Satisfied:           append([]Record(nil), n.attrs.Satisfied...),
		Failures:            append([]Record(nil), n.attrs.Failures...),
		SatisfiedAncestor:   append([]StructRecord(nil), n.attrs.SatisfiedAncestor...),
		FailedAncestor:      append([]StructRecord(nil), n.attrs.FailedAncestor...),
		SatisfiedDescendant: append([]StructRecord(nil), n.attrs.SatisfiedDescendant...),
		FailedDescendant:    append([]StructRecord(nil), n.attrs.FailedDescendant...),
		Pending:             append([]PendingEntry(nil), n.attrs.Pending...),
	}
	if n.attrs.User != nil {
		clone.attrs.User = make(map[string]interface{}, len(n.attrs.User))
		for k, v := range n.attrs.User {
			clone.attrs.User[k] = v
		}
	}
	return &clone
}
