package search

import "github.com/emirpasic/gods/lists/arraylist"

// Picker is the search worklist: candidates are popped in ascending
// (errors, length) order, so the engine always explores the currently most
// promising partial parse next (spec §5 "Picker").
//
// Backed by the teacher's arraylist.List (github.com/emirpasic/gods/lists/
// arraylist, used for the CFSM's edge list in lr/tables.go: "c.edges =
// arraylist.New()", appended to and walked via Iterator()) rather than
// gods' treeset — candidates are not deduplicated by identity here (two
// candidates can legitimately share an (errors, length) key), so a
// comparator-ordered multiset rather than a set is the right container.
// Insert/Remove/Get/Size do the real bookkeeping a plain slice would
// otherwise need splice logic for.
type Picker struct {
	items *arraylist.List
}

// NewPicker creates an empty worklist.
func NewPicker() *Picker {
	return &Picker{items: arraylist.New()}
}

func less(a, b *Candidate) bool {
	ae, be := a.Errors(), b.Errors()
	if ae != be {
		return ae < be
	}
	return a.Length() < b.Length()
}

// Push inserts a candidate, maintaining ascending (errors, length) order.
func (p *Picker) Push(c *Candidate) {
	i := 0
	for i < p.items.Size() {
		v, _ := p.items.Get(i)
		if !less(v.(*Candidate), c) {
			break
		}
		i++
	}
	p.items.Insert(i, c)
}

// PushAll inserts every candidate in cs.
func (p *Picker) PushAll(cs []*Candidate) {
	for _, c := range cs {
		p.Push(c)
	}
}

// Pop removes and returns the best-ranked candidate, or nil if empty.
func (p *Picker) Pop() *Candidate {
	if p.items.Empty() {
		return nil
	}
	v, _ := p.items.Get(0)
	p.items.Remove(0)
	return v.(*Candidate)
}

// Empty reports whether the worklist has no candidates left.
func (p *Picker) Empty() bool { return p.items.Empty() }

// Len returns the number of candidates currently queued.
func (p *Picker) Len() int { return p.items.Size() }
