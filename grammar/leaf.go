package grammar

import (
	"regexp"

	"github.com/nbpillar/reduce/predicate"
)

// Leaf is a terminal production: a regular expression pattern plus flags
// (spec §3). A Leaf with Pattern == nil is the internal trash rule used to
// box unmatched characters (there is exactly one per Grammar, see
// Grammar.TrashLeaf).
type Leaf struct {
	Sym           *Symbol
	Pattern       *regexp.Regexp
	Ignorable     bool
	Boundary      bool
	Tests         []predicate.Name
	AncestorTests []predicate.Name
	Preconditions []predicate.Name
	Process       predicate.Name
}

// Name returns the leaf's symbol name.
func (l *Leaf) Name() string {
	return l.Sym.Name
}

// IsTrash reports whether this is the grammar's synthetic trash rule.
func (l *Leaf) IsTrash() bool {
	return l.Pattern == nil
}

// MatchAt reports whether l's pattern matches text exactly anchored at
// offset, returning the end offset of the match (spec §4.3: "whose regex
// matches exactly at offset").
func (l *Leaf) MatchAt(text string, offset int) (end int, ok bool) {
	if l.Pattern == nil || offset > len(text) {
		return 0, false
	}
	loc := l.Pattern.FindStringIndex(text[offset:])
	if loc == nil || loc[0] != 0 {
		return 0, false
	}
	return offset + loc[1], true
}
