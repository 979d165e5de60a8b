package perception

import (
	"sort"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

// kekuleStepLimit bounds the matching search on pathological inputs.
const kekuleStepLimit = 1 << 16

// kekulize assigns single and double orders to the aromatic bonds of a ring
// system by finding a perfect matching over the atoms that need a pi bond.
// When no matching exists the bonds stay aromatic and each atom that needed a
// pi bond is credited with one.
func (a *Analyzer) kekulize(v *systemView, bonds []int) {
	need := make(map[int]bool)
	var atoms []int
	for _, bi := range bonds {
		b := a.mol.Bonds[bi]
		for _, at := range [2]int{b.Begin, b.End} {
			if _, seen := need[at]; seen {
				continue
			}
			need[at] = a.needsPi(at)
			if need[at] {
				atoms = append(atoms, at)
			}
		}
	}

	adj := make(map[int][]neighbor, len(atoms))
	for _, bi := range bonds {
		b := a.mol.Bonds[bi]
		if need[b.Begin] && need[b.End] {
			adj[b.Begin] = append(adj[b.Begin], neighbor{atom: b.End, bond: bi})
			adj[b.End] = append(adj[b.End], neighbor{atom: b.Begin, bond: bi})
		}
	}
	// Most constrained atoms first keeps the search shallow.
	sort.SliceStable(atoms, func(x, y int) bool {
		if len(adj[atoms[x]]) != len(adj[atoms[y]]) {
			return len(adj[atoms[x]]) < len(adj[atoms[y]])
		}
		return atoms[x] < atoms[y]
	})

	s := &kekuleSolver{atoms: atoms, adj: adj, mate: make(map[int]int)}
	if len(atoms)%2 == 0 && s.solve(0) {
		doubles := make(map[int]bool, len(s.mate))
		for _, bi := range s.mate {
			doubles[bi] = true
		}
		for _, bi := range bonds {
			if doubles[bi] {
				v.orders[bi] = molecule.BondDouble
			} else {
				v.orders[bi] = molecule.BondSingle
			}
		}
		return
	}

	for _, bi := range bonds {
		v.orders[bi] = molecule.BondAromatic
	}
	for _, at := range atoms {
		v.piCredit[at] = true
	}
}

// needsPi reports whether an atom on an aromatic bond must receive a double
// bond in the Kekulé form.
func (a *Analyzer) needsPi(i int) bool {
	atom := a.mol.Atom(i)
	if atom == nil {
		return false
	}
	conn := 0
	for _, n := range a.neighbors(i) {
		switch a.mol.Bonds[n.bond].Order {
		case molecule.BondDouble, molecule.BondTriple:
			return false
		}
		conn++
	}
	conn += a.hydrogens(i)

	switch atom.Symbol {
	case "C":
		return atom.Charge == 0 && conn == 3
	case "N", "P", "As":
		return (atom.Charge == 0 && conn == 2) || (atom.Charge == 1 && conn == 3)
	case "O", "S", "Se", "Te":
		return atom.Charge == 1 && conn == 2
	case "B":
		return atom.Charge == -1 && conn == 3
	}
	return false
}

type kekuleSolver struct {
	atoms []int
	adj   map[int][]neighbor
	mate  map[int]int // atom -> bond carrying its double
	steps int
}

func (s *kekuleSolver) solve(k int) bool {
	s.steps++
	if s.steps > kekuleStepLimit {
		return false
	}
	for k < len(s.atoms) {
		if _, matched := s.mate[s.atoms[k]]; !matched {
			break
		}
		k++
	}
	if k == len(s.atoms) {
		return true
	}

	at := s.atoms[k]
	for _, n := range s.adj[at] {
		if _, taken := s.mate[n.atom]; taken {
			continue
		}
		s.mate[at], s.mate[n.atom] = n.bond, n.bond
		if s.solve(k + 1) {
			return true
		}
		delete(s.mate, at)
		delete(s.mate, n.atom)
	}
	return false
}
