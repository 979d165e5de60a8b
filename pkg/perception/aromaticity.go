package perception

import "github.com/leapstack-labs/leaptype/pkg/molecule"

// cycle is an aromaticity candidate: a ring or the perimeter of two fused rings.
type cycle struct {
	atoms []int
	bonds map[int]bool
}

func newCycle(atoms, bonds []int) cycle {
	c := cycle{atoms: atoms, bonds: make(map[int]bool, len(bonds))}
	for _, b := range bonds {
		c.bonds[b] = true
	}
	return c
}

// aromatize marks atoms of every candidate cycle whose pi electron count
// satisfies the 4n+2 rule. Candidates are each ring of the system and the
// perimeter of each fused pair, so rings that only count as aromatic as part
// of a larger fused system (e.g. an azaindene) are recognised.
func (a *Analyzer) aromatize(v *systemView, rings []int) {
	cycles := make([]cycle, 0, len(rings))
	for _, ri := range rings {
		r := a.rings.Ring(ri)
		cycles = append(cycles, newCycle(r.Atoms, r.Bonds))
	}
	for x := 0; x < len(rings); x++ {
		for y := x + 1; y < len(rings); y++ {
			if c, ok := a.perimeter(a.rings.Ring(rings[x]), a.rings.Ring(rings[y])); ok {
				cycles = append(cycles, c)
			}
		}
	}

	for _, c := range cycles {
		if a.huckel(v, c) {
			for _, at := range c.atoms {
				v.aromatic[at] = true
			}
		}
	}
}

// perimeter returns the outer cycle of two rings sharing at least one bond,
// if their symmetric difference is a single simple cycle.
func (a *Analyzer) perimeter(r1, r2 molecule.Ring) (cycle, bool) {
	inFirst := make(map[int]bool, len(r1.Bonds))
	for _, b := range r1.Bonds {
		inFirst[b] = true
	}
	bonds := make(map[int]bool)
	shared := 0
	for _, b := range r2.Bonds {
		if inFirst[b] {
			shared++
			delete(inFirst, b)
			continue
		}
		bonds[b] = true
	}
	if shared == 0 {
		return cycle{}, false
	}
	for b := range inFirst {
		bonds[b] = true
	}

	adj := make(map[int][]int)
	for bi := range bonds {
		b := a.mol.Bonds[bi]
		adj[b.Begin] = append(adj[b.Begin], b.End)
		adj[b.End] = append(adj[b.End], b.Begin)
	}
	start := -1
	for at, ns := range adj {
		if len(ns) != 2 {
			return cycle{}, false
		}
		if start < 0 || at < start {
			start = at
		}
	}

	// Walk the cycle; it must visit every atom exactly once.
	atoms := []int{start}
	prev, cur := -1, start
	for {
		next := adj[cur][0]
		if next == prev {
			next = adj[cur][1]
		}
		if next == start {
			break
		}
		if len(atoms) > len(adj) {
			return cycle{}, false
		}
		atoms = append(atoms, next)
		prev, cur = cur, next
	}
	if len(atoms) != len(adj) {
		return cycle{}, false
	}
	return cycle{atoms: atoms, bonds: bonds}, true
}

// huckel reports whether the cycle holds 4n+2 pi electrons.
func (a *Analyzer) huckel(v *systemView, c cycle) bool {
	total := 0
	for _, at := range c.atoms {
		e, ok := a.piElectrons(v, at, c)
		if !ok {
			return false
		}
		total += e
	}
	return total%4 == 2
}

// piElectrons returns the electrons atom i contributes to cycle c, or false if
// the atom breaks conjugation.
func (a *Analyzer) piElectrons(v *systemView, i int, c cycle) (int, bool) {
	if v.piCredit[i] {
		return 1, true
	}
	atom := a.mol.Atom(i)
	if atom == nil {
		return 0, false
	}
	ns := a.neighbors(i)

	doubles, exocyclicHetero := 0, false
	for _, n := range ns {
		switch v.order(a.mol.Bonds[n.bond], n.bond) {
		case molecule.BondTriple:
			return 0, false
		case molecule.BondDouble:
			doubles++
			if c.bonds[n.bond] || a.rings.InRing(n.bond) {
				continue
			}
			switch a.mol.Atoms[n.atom].Symbol {
			case "O", "N", "S":
				exocyclicHetero = true
			default:
				return 0, false
			}
		}
	}
	switch {
	case doubles > 1:
		return 0, false
	case doubles == 1 && exocyclicHetero:
		return 0, true
	case doubles == 1:
		return 1, true
	}

	conn := len(ns) + a.hydrogens(i)
	switch atom.Symbol {
	case "C":
		switch atom.Charge {
		case -1:
			return 2, true
		case 1:
			return 0, true
		}
	case "B":
		if atom.Charge == 0 {
			return 0, true
		}
	case "N", "P", "As":
		if (atom.Charge == 0 && conn == 3) || (atom.Charge == -1 && conn == 2) {
			return 2, true
		}
	case "O", "S", "Se", "Te":
		if atom.Charge == 0 && conn == 2 {
			return 2, true
		}
	}
	return 0, false
}

// order is the system-local perceived order of a bond. Bonds owned by other
// systems are read from the input so that analysing one system never recurses
// into another.
func (v *systemView) order(b *molecule.Bond, bi int) molecule.BondOrder {
	if o, ok := v.orders[bi]; ok {
		return o
	}
	return inputOrder(b)
}
