package search

import (
	"github.com/nbpillar/reduce/forest"
	"github.com/nbpillar/reduce/grammar"
)

// FilterKey names one of the four dominance dimensions a Hopper can rank
// finished parses by (spec §5, §6 UnknownFilterError taxonomy).
type FilterKey string

const (
	FilterCorrectness FilterKey = "correctness"
	FilterCompletion  FilterKey = "completion"
	FilterSize        FilterKey = "size"
	FilterPending     FilterKey = "pending"
)

// ParseFilters validates a caller-supplied filter ordering (the `filters`
// argument to engine.Parse/First), rejecting anything other than the four
// reserved names (spec §6: UnknownFilterError). names == nil (the caller
// omitted the argument) defaults to all four filters in their declared
// order; an explicitly empty, non-nil slice disables dominance filtering
// entirely, so every completed parse is returned (spec §6: "filters=[]").
func ParseFilters(names []string) ([]FilterKey, error) {
	if names == nil {
		return []FilterKey{FilterCorrectness, FilterCompletion, FilterSize, FilterPending}, nil
	}
	out := make([]FilterKey, 0, len(names))
	for _, n := range names {
		switch FilterKey(n) {
		case FilterCorrectness, FilterCompletion, FilterSize, FilterPending:
			out = append(out, FilterKey(n))
		default:
			return nil, &grammar.UnknownFilterError{Name: n}
		}
	}
	return out, nil
}

// key returns the comparison value for parse p along filter f: smaller is
// always better (fewer errors, reduced-to-completion over not, smaller
// tree, fewer unresolved structural tests).
func key(p *forest.Parse, f FilterKey) int {
	switch f {
	case FilterCorrectness:
		return p.IncorrectnessCount()
	case FilterCompletion:
		if p.Complete() {
			return 0
		}
		return 1
	case FilterSize:
		return p.Size()
	case FilterPending:
		return p.PendingCount()
	}
	return 0
}

// compareKeys returns -1, 0 or 1 comparing a and b lexicographically across
// filters, in the order given.
func compareKeys(a, b *forest.Parse, filters []FilterKey) int {
	for _, f := range filters {
		ka, kb := key(a, f), key(b, f)
		if ka != kb {
			if ka < kb {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Hopper is the bounded bag of best-so-far finished parses, admitting a
// new parse only if it is not lexicographically worse than the current
// capacity-th best entry, and always keeping every entry tied with the
// worst retained key (spec §5 "Hopper": correctness/completion/size/pending
// dominance, ties preserved rather than broken arbitrarily).
type Hopper struct {
	filters  []FilterKey
	capacity int
	items    []*forest.Parse
}

// NewHopper creates a Hopper bounded to capacity best-key entries (ties
// included), ranked by filters in priority order.
func NewHopper(filters []FilterKey, capacity int) *Hopper {
	if capacity <= 0 {
		capacity = 1
	}
	return &Hopper{filters: filters, capacity: capacity}
}

// Admit offers a finished parse to the hopper. Returns true if it was kept
// (possibly displacing or sharing rank with existing entries).
func (h *Hopper) Admit(p *forest.Parse) bool {
	i := 0
	for i < len(h.items) && compareKeys(h.items[i], p, h.filters) <= 0 {
		i++
	}
	if i >= h.capacity {
		// p ranks behind the capacity best entries; keep it only if it is
		// tied with the capacity-th best one (every kept entry from that
		// index on shares its key), else reject.
		if compareKeys(h.items[h.capacity-1], p, h.filters) == 0 {
			// tie with the worst kept entry: fall through and insert.
		} else {
			return false
		}
	}
	h.items = append(h.items, nil)
	copy(h.items[i+1:], h.items[i:])
	h.items[i] = p
	h.purge()
	return true
}

// purge trims entries beyond capacity, except those tied in key with the
// capacity-th best entry (ties are never silently dropped).
func (h *Hopper) purge() {
	if len(h.items) <= h.capacity {
		return
	}
	boundaryKeyOwner := h.items[h.capacity-1]
	cut := len(h.items)
	for cut > h.capacity && compareKeys(h.items[cut-1], boundaryKeyOwner, h.filters) != 0 {
		cut--
	}
	h.items = h.items[:cut]
}

// Results returns the kept parses, best first.
func (h *Hopper) Results() []*forest.Parse { return h.items }

// Len returns the number of kept entries (may exceed capacity when ties
// are preserved).
func (h *Hopper) Len() int { return len(h.items) }
