package perception

import (
	"github.com/leapstack-labs/leaptype/pkg/atomtype"
	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

// Analyzer derives the facts the matcher needs for each atom.
//
// It only reads the molecule. Ring systems are analysed lazily and cached, so
// a single-atom query kekulizes and aromatizes just the systems it touches.
// An Analyzer is bound to one topology and is not safe for concurrent use.
type Analyzer struct {
	mol   *molecule.Molecule
	rings *molecule.RingSet
	rules atomtype.HybridizationRules

	systems map[int]*systemView
}

// systemView holds the perceived Kekulé form and aromaticity of one ring system.
type systemView struct {
	// orders has the perceived order of every aromatic-input ring bond.
	orders map[int]molecule.BondOrder
	// aromatic marks atoms lying in an aromatic candidate cycle.
	aromatic map[int]bool
	// piCredit marks atoms assumed to carry one pi bond when kekulization failed.
	piCredit map[int]bool
}

// NewAnalyzer creates an analyzer over mol using the given hybridization rules.
func NewAnalyzer(mol *molecule.Molecule, rules atomtype.HybridizationRules) *Analyzer {
	return &Analyzer{
		mol:     mol,
		rings:   mol.Rings(),
		rules:   rules,
		systems: make(map[int]*systemView),
	}
}

// Facts returns the fact bundle of atom i.
// Malformed bookkeeping around the atom yields an error wrapping ErrMalformedGraph.
func (a *Analyzer) Facts(i int) (atomtype.Facts, error) {
	if err := a.mol.CheckAtom(i); err != nil {
		return atomtype.Facts{}, err
	}
	atom := a.mol.Atoms[i]

	f := atomtype.Facts{
		Element:   atom.Symbol,
		Charge:    atom.Charge,
		Hydrogens: a.hydrogens(i),
	}
	for _, bi := range atom.Bonds {
		o := a.BondOrder(bi)
		f.Neighbors++
		f.BondOrderSum += o.Multiplicity()
		switch o {
		case molecule.BondDouble:
			f.PiBonds++
		case molecule.BondTriple:
			f.TripleBonds++
		case molecule.BondAromatic:
			o = molecule.BondSingle
		}
		if o.Multiplicity() > f.MaxBondOrder.Multiplicity() {
			f.MaxBondOrder = o
		}
	}
	if a.piCredited(i) {
		f.PiBonds++
		f.BondOrderSum++
		if f.MaxBondOrder.Multiplicity() < 2 {
			f.MaxBondOrder = molecule.BondDouble
		}
	}

	f.Connections = f.Neighbors + f.Hydrogens
	f.InRing = a.rings.AtomInRing(i)
	f.SmallestRing = a.rings.SmallestRingSize(i)
	f.Aromatic = a.IsAromatic(i)
	f.Amide = a.isAmide(i)
	f.Hybridization = a.hybridization(i, f)
	return f, nil
}

// BondOrder returns the perceived order of bond bi: aromatic ring bonds are
// replaced by their Kekulé order and aromatic bonds outside rings are single.
// A bond keeps BondAromatic only when its ring system could not be kekulized.
func (a *Analyzer) BondOrder(bi int) molecule.BondOrder {
	b := a.mol.Bond(bi)
	if b == nil {
		return molecule.BondUnset
	}
	if si := a.rings.BondSystem(bi); si >= 0 {
		if o, ok := a.system(si).orders[bi]; ok {
			return o
		}
	}
	return inputOrder(b)
}

// IsAromatic reports whether atom i is aromatic: flagged aromatic by the input
// and in a ring, or part of a ring cycle satisfying the 4n+2 rule.
func (a *Analyzer) IsAromatic(i int) bool {
	atom := a.mol.Atom(i)
	if atom == nil || !a.rings.AtomInRing(i) {
		return false
	}
	if atom.Aromatic {
		return true
	}
	for _, si := range a.rings.SystemsOf(i) {
		if a.system(si).aromatic[i] {
			return true
		}
	}
	return false
}

func (a *Analyzer) piCredited(i int) bool {
	for _, si := range a.rings.SystemsOf(i) {
		if a.system(si).piCredit[i] {
			return true
		}
	}
	return false
}

func (a *Analyzer) system(si int) *systemView {
	if v, ok := a.systems[si]; ok {
		return v
	}
	v := a.analyseSystem(si)
	a.systems[si] = v
	return v
}

func (a *Analyzer) analyseSystem(si int) *systemView {
	v := &systemView{
		orders:   make(map[int]molecule.BondOrder),
		aromatic: make(map[int]bool),
		piCredit: make(map[int]bool),
	}
	rings := a.rings.Systems()[si]

	var aromaticBonds []int
	seen := make(map[int]bool)
	for _, ri := range rings {
		for _, bi := range a.rings.Ring(ri).Bonds {
			if !seen[bi] && a.mol.Bonds[bi].Order == molecule.BondAromatic {
				seen[bi] = true
				aromaticBonds = append(aromaticBonds, bi)
			}
		}
	}
	if len(aromaticBonds) > 0 {
		a.kekulize(v, aromaticBonds)
	}
	a.aromatize(v, rings)
	return v
}

// hydrogens returns explicit plus implicit hydrogens, deriving the implicit
// count from default valences when the builder left it unset.
func (a *Analyzer) hydrogens(i int) int {
	atom := a.mol.Atom(i)
	if atom == nil {
		return 0
	}
	if atom.ImplicitH != molecule.Unset {
		return atom.ExplicitH + atom.ImplicitH
	}
	sum := 0
	for _, bi := range atom.Bonds {
		if b := a.mol.Bond(bi); b != nil {
			sum += b.Order.Multiplicity()
		}
	}
	return atom.ExplicitH + molecule.DefaultImplicitHydrogens(atom.Symbol, atom.Charge, atom.Aromatic, sum)
}

// neighbors returns (neighbor, bond) pairs of atom i, skipping broken bookkeeping.
func (a *Analyzer) neighbors(i int) []neighbor {
	atom := a.mol.Atom(i)
	if atom == nil {
		return nil
	}
	out := make([]neighbor, 0, len(atom.Bonds))
	for _, bi := range atom.Bonds {
		b := a.mol.Bond(bi)
		if b == nil {
			continue
		}
		if j := b.Other(i); j >= 0 && j < len(a.mol.Atoms) && j != i && a.mol.Atoms[j] != nil {
			out = append(out, neighbor{atom: j, bond: bi})
		}
	}
	return out
}

type neighbor struct {
	atom int
	bond int
}

// isAmide reports whether atom i is bonded to a carbon that carries a double
// bond to oxygen or sulfur.
func (a *Analyzer) isAmide(i int) bool {
	for _, n := range a.neighbors(i) {
		if a.mol.Atoms[n.atom].Symbol != "C" {
			continue
		}
		for _, nn := range a.neighbors(n.atom) {
			if nn.atom == i || a.BondOrder(nn.bond) != molecule.BondDouble {
				continue
			}
			if s := a.mol.Atoms[nn.atom].Symbol; s == "O" || s == "S" {
				return true
			}
		}
	}
	return false
}

// hasPiNeighbor reports whether a neighbor of i is aromatic or carries a
// multiple bond.
func (a *Analyzer) hasPiNeighbor(i int) bool {
	for _, n := range a.neighbors(i) {
		if a.IsAromatic(n.atom) || a.piCredited(n.atom) {
			return true
		}
		for _, nn := range a.neighbors(n.atom) {
			switch a.BondOrder(nn.bond) {
			case molecule.BondDouble, molecule.BondTriple, molecule.BondAromatic:
				return true
			}
		}
	}
	return false
}

// inputOrder is the order written by the builder with delocalized and unset
// bonds read as single.
func inputOrder(b *molecule.Bond) molecule.BondOrder {
	switch b.Order {
	case molecule.BondAromatic, molecule.BondUnset:
		return molecule.BondSingle
	}
	return b.Order
}
