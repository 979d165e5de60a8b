package atomtype

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

// validate checks the table for structural problems and for descriptors that
// can never be reached because an earlier one accepts everything they accept.
func validate(t *Table) error {
	if len(t.descriptors) == 0 {
		return t.errorf("", "table has no descriptors")
	}
	if err := validateRules(t); err != nil {
		return err
	}

	seen := make(map[string]bool, len(t.descriptors))
	for i := range t.descriptors {
		d := &t.descriptors[i]
		if d.Name == "" {
			return t.errorf(fmt.Sprintf("#%d", i+1), "descriptor has no name")
		}
		if seen[d.Name] {
			return t.errorf(d.Name, "duplicate descriptor name")
		}
		seen[d.Name] = true
		if err := validateDescriptor(t, d); err != nil {
			return err
		}
	}

	for j := range t.descriptors {
		later := t.descriptors[j].model.effective(t.descriptors[j])
		for i := 0; i < j; i++ {
			earlier := t.descriptors[i].model.effective(t.descriptors[i])
			if subsumes(earlier, later) {
				return t.errorf(later.Name, fmt.Sprintf("unreachable: every atom it accepts is already accepted by earlier descriptor %q", earlier.Name))
			}
		}
	}
	return nil
}

func validateRules(t *Table) error {
	r := t.rules
	switch {
	case r.SPTripleBonds < 1:
		return t.errorf("", "hybridization: sp_triple_bonds must be at least 1")
	case r.SPDoubleBonds < 1:
		return t.errorf("", "hybridization: sp_double_bonds must be at least 1")
	case r.SP2DoubleBonds < 1:
		return t.errorf("", "hybridization: sp2_double_bonds must be at least 1")
	case r.SP2DoubleBonds > r.SPDoubleBonds:
		return t.errorf("", "hybridization: sp2_double_bonds exceeds sp_double_bonds")
	case r.CationPlanarConnections < 0:
		return t.errorf("", "hybridization: cation_planar_connections is negative")
	}
	for _, list := range [][]string{r.PlanarDonors, r.ConjugatedPlanar, r.CationPlanar} {
		for _, el := range list {
			if _, ok := molecule.LookupElement(el); !ok {
				return t.errorf("", fmt.Sprintf("hybridization: unknown element %q", el))
			}
		}
	}
	return nil
}

func validateDescriptor(t *Table, d *Descriptor) error {
	if _, ok := molecule.LookupElement(d.Element); !ok {
		return t.errorf(d.Name, fmt.Sprintf("unknown element %q", d.Element))
	}
	if _, ok := models[d.Model]; !ok {
		return t.errorf(d.Name, fmt.Sprintf("unknown model %q", d.Model))
	}
	if d.Charges != nil && len(d.Charges) == 0 {
		return t.errorf(d.Name, "charges list is empty")
	}
	if d.Hybridizations != nil && len(d.Hybridizations) == 0 {
		return t.errorf(d.Name, "hybridization list is empty")
	}
	for _, h := range d.Hybridizations {
		if h <= HybridizationUnknown || h > Planar3 {
			return t.errorf(d.Name, fmt.Sprintf("unknown hybridization %d", int(h)))
		}
	}

	counts := []struct {
		name string
		v    *int
	}{
		{"neighbors", d.Neighbors},
		{"max_neighbors", d.MaxNeighbors},
		{"connections", d.Connections},
		{"hydrogens", d.Hydrogens},
		{"pi_bonds", d.PiBonds},
		{"ring_size", d.RingSize},
		{"max_bond_order_sum", d.MaxBondOrderSum},
	}
	for _, c := range counts {
		if c.v != nil && *c.v < 0 {
			return t.errorf(d.Name, fmt.Sprintf("%s is negative", c.name))
		}
	}
	if d.RingSize != nil && *d.RingSize > 0 && *d.RingSize < 3 {
		return t.errorf(d.Name, "ring_size must be 0 or at least 3")
	}
	if d.Neighbors != nil && d.MaxNeighbors != nil && *d.Neighbors > *d.MaxNeighbors {
		return t.errorf(d.Name, "neighbors exceeds max_neighbors")
	}
	if d.MaxBondOrder != nil {
		switch *d.MaxBondOrder {
		case molecule.BondSingle, molecule.BondDouble, molecule.BondTriple:
		default:
			return t.errorf(d.Name, fmt.Sprintf("max_bond_order %q is not single, double or triple", d.MaxBondOrder.String()))
		}
	}
	if d.Model == ModelCoordination {
		if d.Neighbors == nil {
			return t.errorf(d.Name, "coordination descriptor needs an exact neighbors count")
		}
		if ignored := ignoredConstraints(d); len(ignored) > 0 {
			return t.errorf(d.Name, fmt.Sprintf("coordination descriptor cannot constrain %s", strings.Join(ignored, ", ")))
		}
	}
	return nil
}

// ignoredConstraints lists the keys set on d that its model never evaluates.
func ignoredConstraints(d *Descriptor) []string {
	var out []string
	if d.Hybridizations != nil {
		out = append(out, "hybridization")
	}
	eff := d.model.effective(*d)
	kept := eff.Constraints()
	for _, c := range d.Constraints() {
		if !slices.Contains(kept, c) {
			key, _, _ := strings.Cut(c, "=")
			out = append(out, key)
		}
	}
	return out
}

// subsumes reports whether every atom accepted by b is also accepted by a.
// It reasons per constraint and is conservative: a false result does not
// prove b is reachable.
func subsumes(a, b Descriptor) bool {
	if a.Element != b.Element {
		return false
	}
	return setCovers(a.Charges, b.Charges) &&
		setCovers(a.Hybridizations, b.Hybridizations) &&
		exactCovers(a.Neighbors, b.Neighbors) &&
		maxCovers(a.MaxNeighbors, b.MaxNeighbors, b.Neighbors) &&
		exactCovers(a.Connections, b.Connections) &&
		exactCovers(a.Hydrogens, b.Hydrogens) &&
		exactCovers(a.PiBonds, b.PiBonds) &&
		exactCovers(a.RingSize, b.RingSize) &&
		orderCovers(a.MaxBondOrder, b.MaxBondOrder) &&
		maxCovers(a.MaxBondOrderSum, b.MaxBondOrderSum, nil) &&
		flagCovers(a.Ring, b.Ring) &&
		flagCovers(a.Aromatic, b.Aromatic) &&
		flagCovers(a.Amide, b.Amide)
}

func setCovers[T comparable](a, b []T) bool {
	if a == nil {
		return true
	}
	if b == nil {
		return false
	}
	for _, v := range b {
		if !slices.Contains(a, v) {
			return false
		}
	}
	return true
}

func exactCovers(a, b *int) bool {
	return a == nil || (b != nil && *a == *b)
}

// maxCovers checks an upper bound; an exact value on b also satisfies it.
func maxCovers(a, b, bExact *int) bool {
	switch {
	case a == nil:
		return true
	case b != nil && *b <= *a:
		return true
	case bExact != nil && *bExact <= *a:
		return true
	}
	return false
}

func orderCovers(a, b *molecule.BondOrder) bool {
	return a == nil || (b != nil && b.Multiplicity() <= a.Multiplicity())
}

func flagCovers(a, b *bool) bool {
	return a == nil || (b != nil && *a == *b)
}

func (t *Table) errorf(descriptor, msg string) error {
	return &ConfigError{Source: t.source, Descriptor: descriptor, Message: msg}
}
