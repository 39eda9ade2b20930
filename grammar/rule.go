package grammar

import (
	"github.com/nbpillar/reduce/predicate"
)

// Rule is an ordered sequence of atoms, or a disjunction of alternatives
// each produced as an independent subrule (spec §3). Exactly one of
// Subrules or Atoms is non-nil.
type Rule struct {
	Name          *Symbol
	Subrules      []*Rule
	Atoms         *Atom
	Tests         []predicate.Name
	AncestorTests []predicate.Name
	Preconditions []predicate.Name
	Process       predicate.Name // empty means "no processor"
	Serial        int // declaration index within Grammar.ruleOrder (0 for subrules)

	starters  []starterEntry
	branches  []branchEntry
	literals  []string
	seekingSet map[string]struct{}
}

type starterEntry struct {
	Symbol *Symbol
	Atom   *Atom
}

type branchEntry struct {
	From *Symbol // atom.Seeking
	To   string  // rule.Name (this rule's name)
}

// IsDisjunction reports whether this rule is a pure alternation of
// subrules (body contained a top-level '|').
func (r *Rule) IsDisjunction() bool {
	return r.Subrules != nil
}

// minSum is the sum of Min across this rule's (non-disjunction) atom
// chain, used by branches() and the empty-consumption check (spec §9).
func (r *Rule) minSum() int {
	sum := 0
	for a := r.Atoms; a != nil; a = a.Next {
		sum += a.Min
	}
	return sum
}

// maxIsZero reports whether every atom in the chain has Max 0 (a '{0}'
// repetition), so the rule can never consume a node at all. The commit-time
// empty-consumption check uses minSum instead, which also catches bodies
// made only of '*'/'?' atoms.
func (r *Rule) maxIsZero() bool {
	for a := r.Atoms; a != nil; a = a.Next {
		if a.Max != 0 {
			return false
		}
	}
	return true
}

// compile computes starters/branches/literals/seeking for this rule,
// recursing into subrules for a disjunction (spec §4.2).
func (r *Rule) compile() {
	r.seekingSet = make(map[string]struct{})
	if r.IsDisjunction() {
		for _, sub := range r.Subrules {
			sub.compile()
			r.starters = append(r.starters, sub.starters...)
			r.branches = append(r.branches, sub.branches...)
			r.literals = append(r.literals, sub.literals...)
			for k := range sub.seekingSet {
				r.seekingSet[k] = struct{}{}
			}
		}
		return
	}
	// chain max_consumption right-to-left
	var chain []*Atom
	for a := r.Atoms; a != nil; a = a.Next {
		chain = append(chain, a)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].computeMaxConsumption()
	}
	// seeking: every atom in the chain, independently of the starters
	// break below — a symbol referenced only after the first required atom
	// (e.g. VP in "S := NP VP") is still a symbol the completeness check
	// must see.
	for _, a := range chain {
		r.seekingSet[a.Seeking.Name] = struct{}{}
		if a.Literal {
			r.literals = append(r.literals, a.Seeking.Name)
		}
	}
	// starters: first atom, plus subsequent atoms up to and including the
	// first required (Min>0) one.
	for _, a := range chain {
		r.starters = append(r.starters, starterEntry{Symbol: a.Seeking, Atom: a})
		if a.Min > 0 {
			break
		}
	}
	// branches: unary-candidate rules (sum of min < 2)
	if r.minSum() < 2 {
		for _, a := range chain {
			r.branches = append(r.branches, branchEntry{From: a.Seeking, To: r.Name.Name})
		}
	}
}

// Starters returns the (symbol, atom) pairs that can begin a match of this
// rule (spec §4.2).
func (r *Rule) Starters() []starterEntry { return r.starters }

// Branches returns (seeking-symbol, this-rule-name) edges used by the loop
// detector (spec §4.2, §4.6).
func (r *Rule) Branches() []branchEntry { return r.branches }

// Literals returns this rule's unique literal atom symbol names.
func (r *Rule) Literals() []string {
	seen := make(map[string]struct{}, len(r.literals))
	var out []string
	for _, l := range r.literals {
		if _, dup := seen[l]; !dup {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}

// Seeking returns the union of atom symbols referenced across all
// subrules, used by the grammar completeness check.
func (r *Rule) Seeking() map[string]struct{} { return r.seekingSet }
