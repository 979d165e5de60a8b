// Package atomtype holds the atom type definition table and the matcher that
// assigns a type label to a bundle of per-atom facts.
//
// The table is data: an ordered list of descriptors, most specific first,
// plus the hybridization thresholds the structural analyzer applies. The first
// descriptor whose constraints all hold wins.
package atomtype

import "slices"

// HybridizationRules are the element-class thresholds used to estimate
// hybridization from bond counts and ring context.
type HybridizationRules struct {
	// SPTripleBonds is the number of triple bonds that makes an atom sp1.
	SPTripleBonds int `yaml:"sp_triple_bonds"`
	// SPDoubleBonds is the number of double bonds that makes an atom sp1.
	SPDoubleBonds int `yaml:"sp_double_bonds"`
	// SP2DoubleBonds is the number of double bonds that makes an atom sp2.
	SP2DoubleBonds int `yaml:"sp2_double_bonds"`
	// AromaticSP2 marks aromatic atoms without a lone-pair role as sp2.
	AromaticSP2 bool `yaml:"aromatic_sp2"`
	// PlanarDonors are elements whose aromatic lone-pair donors are planar3.
	PlanarDonors []string `yaml:"planar_donors"`
	// ConjugatedPlanar are elements that become planar3 when single-bonded to
	// a pi system.
	ConjugatedPlanar []string `yaml:"conjugated_planar"`
	// CationPlanar are elements whose cations with CationPlanarConnections
	// connections are trigonal.
	CationPlanar            []string `yaml:"cation_planar"`
	CationPlanarConnections int      `yaml:"cation_planar_connections"`
}

// DefaultHybridizationRules returns the thresholds used when a table omits them.
func DefaultHybridizationRules() HybridizationRules {
	return HybridizationRules{
		SPTripleBonds:           1,
		SPDoubleBonds:           2,
		SP2DoubleBonds:          1,
		AromaticSP2:             true,
		PlanarDonors:            []string{"N", "O", "S", "Se", "Te", "P", "As"},
		ConjugatedPlanar:        []string{"N"},
		CationPlanar:            []string{"C"},
		CationPlanarConnections: 3,
	}
}

// IsPlanarDonor reports whether element is listed in PlanarDonors.
func (r HybridizationRules) IsPlanarDonor(element string) bool {
	return slices.Contains(r.PlanarDonors, element)
}

// IsConjugatedPlanar reports whether element is listed in ConjugatedPlanar.
func (r HybridizationRules) IsConjugatedPlanar(element string) bool {
	return slices.Contains(r.ConjugatedPlanar, element)
}

// IsCationPlanar reports whether element is listed in CationPlanar.
func (r HybridizationRules) IsCationPlanar(element string) bool {
	return slices.Contains(r.CationPlanar, element)
}

// Table is an immutable, validated, ordered list of descriptors.
// It is safe for concurrent use.
type Table struct {
	source      string
	descriptors []Descriptor
	byName      map[string]int
	byElement   map[string][]int
	rules       HybridizationRules
}

// NewTable validates descriptors and builds a table from them.
// Order is significant: earlier descriptors take precedence.
func NewTable(source string, rules HybridizationRules, descriptors []Descriptor) (*Table, error) {
	t := &Table{
		source:      source,
		descriptors: make([]Descriptor, len(descriptors)),
		byName:      make(map[string]int, len(descriptors)),
		byElement:   make(map[string][]int),
		rules:       rules,
	}
	copy(t.descriptors, descriptors)
	for i := range t.descriptors {
		d := &t.descriptors[i]
		if d.Model == "" {
			d.Model = ModelOrganic
		}
		d.model = modelFor(d.Model)
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	for i, d := range t.descriptors {
		t.byName[d.Name] = i
		t.byElement[d.Element] = append(t.byElement[d.Element], i)
	}
	return t, nil
}

// Source returns where the table was loaded from.
func (t *Table) Source() string { return t.source }

// Len returns the number of descriptors.
func (t *Table) Len() int { return len(t.descriptors) }

// Rules returns the hybridization thresholds.
func (t *Table) Rules() HybridizationRules { return t.rules }

// Descriptors returns the descriptors in precedence order.
func (t *Table) Descriptors() []Descriptor {
	return slices.Clone(t.descriptors)
}

// Lookup returns the descriptor with the given name.
func (t *Table) Lookup(name string) (Descriptor, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return t.descriptors[i], true
}

// ForElement returns the descriptors for an element in precedence order.
func (t *Table) ForElement(element string) []Descriptor {
	idx := t.byElement[element]
	out := make([]Descriptor, len(idx))
	for i, di := range idx {
		out[i] = t.descriptors[di]
	}
	return out
}

// Elements returns the elements the table covers, in first-appearance order.
func (t *Table) Elements() []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range t.descriptors {
		if !seen[d.Element] {
			seen[d.Element] = true
			out = append(out, d.Element)
		}
	}
	return out
}
