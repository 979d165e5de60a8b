package atomtype

import "fmt"

// Matcher assigns descriptors to facts using a table's precedence order.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	table *Table
}

// NewMatcher returns a matcher over t.
func NewMatcher(t *Table) *Matcher {
	return &Matcher{table: t}
}

// Table returns the table the matcher evaluates.
func (m *Matcher) Table() *Table { return m.table }

// Match returns the first descriptor whose constraints all hold for f.
// Only descriptors for f.Element are considered; they keep table order.
func (m *Matcher) Match(f Facts) (Descriptor, error) {
	for _, i := range m.table.byElement[f.Element] {
		d := &m.table.descriptors[i]
		if d.Matches(f) {
			return *d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s charge %+d with %d neighbors and %d hydrogens (%s)",
		ErrUnmatched, f.Element, f.Charge, f.Neighbors, f.Hydrogens, f.Hybridization)
}

// Candidates returns every descriptor that accepts f, in precedence order.
// The first entry, if any, is what Match returns.
func (m *Matcher) Candidates(f Facts) []Descriptor {
	var out []Descriptor
	for _, i := range m.table.byElement[f.Element] {
		if d := &m.table.descriptors[i]; d.Matches(f) {
			out = append(out, *d)
		}
	}
	return out
}
