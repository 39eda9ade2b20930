package grammar

// Unbounded marks an atom repetition with no upper bound ({n,}, *, +).
const Unbounded = -1

// Atom is a single repetition-annotated element of a rule body (spec §3,
// §4.1).
type Atom struct {
	Seeking *Symbol
	Min     int
	Max     int // Unbounded (-1) for no upper limit
	Literal bool
	Next    *Atom
	Parent  *Rule

	maxConsumption int // memoized, computed by Rule.compile()
}

// MaxConsumption is the derived greedy-ordering key from spec §3:
// (max==∞ ? 10 : max) + next.max_consumption.
func (a *Atom) MaxConsumption() int {
	return a.maxConsumption
}

func (a *Atom) computeMaxConsumption() int {
	head := 10
	if a.Max != Unbounded {
		head = a.Max
	}
	if a.Next != nil {
		head += a.Next.computeMaxConsumption()
	}
	a.maxConsumption = head
	return head
}

// matchOutcome is the result of Atom.Match.
type matchOutcome struct {
	offset int
	ok     bool
}

// Match implements spec §4.1: starting at offset within nodes, count
// consecutive traversible, non-failed nodes named a.Seeking (skipping
// ignorable nodes), bounded by a.Max. If the count satisfies a.Min,
// delegate to a.Next at the new offset (or succeed at the new offset if
// there is no successor); else report mismatch.
func (a *Atom) Match(nodes []MatchNode, offset int) (int, bool) {
	if offset >= len(nodes) {
		if a.Min == 0 {
			if a.Next != nil {
				return a.Next.Match(nodes, offset)
			}
			return offset, true
		}
		return 0, false
	}
	count := 0
	i := offset
	for i < len(nodes) {
		n := nodes[i]
		if n.Ignorable() {
			i++
			continue
		}
		if !n.Traversible() || n.FailedTest() || n.SymbolName() != a.Seeking.Name {
			break
		}
		if a.Max != Unbounded && count >= a.Max {
			break
		}
		count++
		i++
	}
	if count < a.Min {
		return 0, false
	}
	if a.Next != nil {
		return a.Next.Match(nodes, i)
	}
	return i, true
}

// MatchNode is the minimal surface Atom.Match needs from a forest node,
// avoiding an import of package forest here (grammar sits below forest in
// the dependency order: forest imports grammar, not the reverse).
type MatchNode interface {
	SymbolName() string
	Ignorable() bool
	Traversible() bool
	FailedTest() bool
}
