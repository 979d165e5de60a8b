package atomtype

import (
	"fmt"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

// =============================================================================
// Hybridization
// =============================================================================

// Hybridization is the qualitative bonding geometry of an atom.
type Hybridization int

// Hybridization states. Planar3 marks a trigonal atom whose lone pair is
// conjugated, such as a pyrrole or amide nitrogen.
const (
	HybridizationUnknown Hybridization = iota
	SP1
	SP2
	SP3
	Planar3
)

var hybridizationNames = []string{"unknown", "sp1", "sp2", "sp3", "planar3"}

func (h Hybridization) String() string {
	if int(h) >= 0 && int(h) < len(hybridizationNames) {
		return hybridizationNames[h]
	}
	return fmt.Sprintf("Hybridization(%d)", int(h))
}

// ParseHybridization maps a catalog name to a Hybridization.
func ParseHybridization(s string) (Hybridization, bool) {
	for i, name := range hybridizationNames {
		if name == s && i != int(HybridizationUnknown) {
			return Hybridization(i), true
		}
	}
	return HybridizationUnknown, false
}

// =============================================================================
// Facts
// =============================================================================

// Facts is the per-atom bundle the matcher evaluates descriptors against.
// It is produced by the structural analyzer.
type Facts struct {
	Element string
	Charge  int

	// Neighbors counts directly bonded atoms; hydrogens are counted separately.
	Neighbors   int
	Hydrogens   int
	Connections int // Neighbors + Hydrogens

	MaxBondOrder molecule.BondOrder
	BondOrderSum int
	PiBonds      int // double bonds
	TripleBonds  int

	InRing       bool
	SmallestRing int // 0 when acyclic
	Aromatic     bool
	// Amide is set when a neighbor is a carbon double-bonded to O or S.
	Amide bool

	Hybridization Hybridization
}

// =============================================================================
// Descriptors
// =============================================================================

// ModelKind selects how a descriptor's constraints are evaluated.
type ModelKind string

const (
	// ModelOrganic evaluates every declared constraint.
	ModelOrganic ModelKind = "organic"
	// ModelCoordination discriminates by element, charge and exact neighbor
	// count only, for elements without an organic valence model.
	ModelCoordination ModelKind = "coordination"
)

// Descriptor is one entry of the type definition table.
// A nil constraint means "don't care"; a set constraint is matched exactly,
// except Max* constraints which are upper bounds.
type Descriptor struct {
	Name        string
	Element     string
	Model       ModelKind
	Description string

	Charges        []int
	Hybridizations []Hybridization

	Neighbors       *int
	MaxNeighbors    *int
	Connections     *int
	Hydrogens       *int
	PiBonds         *int
	RingSize        *int
	MaxBondOrder    *molecule.BondOrder
	MaxBondOrderSum *int

	Ring     *bool
	Aromatic *bool
	Amide    *bool

	model ElementModel
}

// Matches reports whether the descriptor accepts the facts.
func (d *Descriptor) Matches(f Facts) bool {
	m := d.model
	if m == nil {
		m = modelFor(d.Model)
	}
	return m.Match(d, f)
}

// Constraints renders the set count and flag constraints as key=value pairs
// in catalog key order.
func (d *Descriptor) Constraints() []string {
	var out []string
	ints := []struct {
		key string
		v   *int
	}{
		{"neighbors", d.Neighbors},
		{"max_neighbors", d.MaxNeighbors},
		{"connections", d.Connections},
		{"hydrogens", d.Hydrogens},
		{"pi_bonds", d.PiBonds},
		{"ring_size", d.RingSize},
	}
	for _, c := range ints {
		if c.v != nil {
			out = append(out, fmt.Sprintf("%s=%d", c.key, *c.v))
		}
	}
	if d.MaxBondOrder != nil {
		out = append(out, "max_bond_order="+d.MaxBondOrder.String())
	}
	if d.MaxBondOrderSum != nil {
		out = append(out, fmt.Sprintf("max_bond_order_sum=%d", *d.MaxBondOrderSum))
	}
	flags := []struct {
		key string
		v   *bool
	}{
		{"ring", d.Ring},
		{"aromatic", d.Aromatic},
		{"amide", d.Amide},
	}
	for _, c := range flags {
		if c.v != nil {
			out = append(out, fmt.Sprintf("%s=%t", c.key, *c.v))
		}
	}
	return out
}

// Int returns a pointer to v, for building descriptors in code.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for building descriptors in code.
func Bool(v bool) *bool { return &v }

// Order returns a pointer to o, for building descriptors in code.
func Order(o molecule.BondOrder) *molecule.BondOrder { return &o }
