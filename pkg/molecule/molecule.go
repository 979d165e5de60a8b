// Package molecule provides the molecular graph consumed by atom-type perception.
// It holds atoms, bonds and a derived, cached ring view over the topology.
package molecule

import (
	"errors"
	"fmt"
	"sync"
)

// Unset marks a derived count that has not been computed yet.
const Unset = -1

// ErrMalformed reports a graph whose bookkeeping cannot be interpreted,
// e.g. an atom referencing a bond that is not part of the molecule.
var ErrMalformed = errors.New("malformed molecular graph")

// BondOrder is the multiplicity of a bond.
type BondOrder int

// Bond orders. Aromatic marks a delocalized bond written without a fixed order.
const (
	BondUnset BondOrder = iota
	BondSingle
	BondDouble
	BondTriple
	BondAromatic
)

var bondOrderNames = map[BondOrder]string{
	BondUnset:    "unset",
	BondSingle:   "single",
	BondDouble:   "double",
	BondTriple:   "triple",
	BondAromatic: "aromatic",
}

func (o BondOrder) String() string {
	if s, ok := bondOrderNames[o]; ok {
		return s
	}
	return fmt.Sprintf("BondOrder(%d)", int(o))
}

// Multiplicity returns the integer order used for valence sums.
// Aromatic bonds count as their sigma component.
func (o BondOrder) Multiplicity() int {
	switch o {
	case BondDouble:
		return 2
	case BondTriple:
		return 3
	case BondSingle, BondAromatic:
		return 1
	default:
		return 0
	}
}

// ParseBondOrder maps a lowercase order name to a BondOrder.
func ParseBondOrder(s string) (BondOrder, bool) {
	for o, name := range bondOrderNames {
		if name == s && o != BondUnset {
			return o, true
		}
	}
	return BondUnset, false
}

// Atom is a node of the molecular graph.
type Atom struct {
	// Symbol is the element symbol with conventional capitalization, e.g. "Cl".
	Symbol string
	// Charge is the formal charge.
	Charge int
	// ExplicitH counts hydrogens written on the atom, e.g. [NH].
	ExplicitH int
	// ImplicitH counts hydrogens implied by the default valence model.
	// It is Unset until computed.
	ImplicitH int
	// Aromatic is the aromaticity flag supplied by the input notation.
	Aromatic bool
	// Bonds holds indexes into Molecule.Bonds. Back-references only.
	Bonds []int
	// TypeName is the perceived atom type; empty until perception runs.
	TypeName string
}

// NewAtom creates an atom with no implicit hydrogen count computed.
func NewAtom(symbol string) *Atom {
	return &Atom{Symbol: symbol, ImplicitH: Unset}
}

// Hydrogens returns explicit plus implicit hydrogens, treating Unset as zero.
func (a *Atom) Hydrogens() int {
	if a.ImplicitH == Unset {
		return a.ExplicitH
	}
	return a.ExplicitH + a.ImplicitH
}

// Bond connects two atoms by index.
type Bond struct {
	Begin int
	End   int
	Order BondOrder
}

// Other returns the endpoint opposite to atom, or -1 if atom is not an endpoint.
func (b *Bond) Other(atom int) int {
	switch atom {
	case b.Begin:
		return b.End
	case b.End:
		return b.Begin
	default:
		return -1
	}
}

// Contains reports whether atom is one of the bond's endpoints.
func (b *Bond) Contains(atom int) bool {
	return b.Begin == atom || b.End == atom
}

// Molecule is an ordered collection of atoms and bonds.
//
// Atoms and Bonds are exported so that external builders can construct graphs
// directly. Callers that edit the slices without AddAtom/AddBond must call
// Invalidate so that the cached ring view is recomputed.
type Molecule struct {
	Atoms []*Atom
	Bonds []*Bond

	mu      sync.Mutex
	version uint64
	rings   *RingSet
	ringKey topologyKey
}

type topologyKey struct {
	version uint64
	atoms   int
	bonds   int
}

// New creates an empty molecule.
func New() *Molecule {
	return &Molecule{}
}

// AtomCount returns the number of atoms.
func (m *Molecule) AtomCount() int { return len(m.Atoms) }

// BondCount returns the number of bonds.
func (m *Molecule) BondCount() int { return len(m.Bonds) }

// AddAtom appends an atom and returns its index.
func (m *Molecule) AddAtom(a *Atom) int {
	m.Atoms = append(m.Atoms, a)
	m.Invalidate()
	return len(m.Atoms) - 1
}

// AddBond connects two existing atoms and returns the new bond index.
func (m *Molecule) AddBond(begin, end int, order BondOrder) (int, error) {
	if begin < 0 || begin >= len(m.Atoms) {
		return -1, fmt.Errorf("bond begin atom %d does not exist", begin)
	}
	if end < 0 || end >= len(m.Atoms) {
		return -1, fmt.Errorf("bond end atom %d does not exist", end)
	}
	if begin == end {
		return -1, fmt.Errorf("self-bond on atom %d", begin)
	}
	if _, exists := m.BondBetween(begin, end); exists {
		return -1, fmt.Errorf("atoms %d and %d are already bonded", begin, end)
	}
	if order == BondUnset {
		order = BondSingle
	}

	m.Bonds = append(m.Bonds, &Bond{Begin: begin, End: end, Order: order})
	idx := len(m.Bonds) - 1
	m.Atoms[begin].Bonds = append(m.Atoms[begin].Bonds, idx)
	m.Atoms[end].Bonds = append(m.Atoms[end].Bonds, idx)
	m.Invalidate()
	return idx, nil
}

// Atom returns the atom at index i, or nil when out of range.
func (m *Molecule) Atom(i int) *Atom {
	if i < 0 || i >= len(m.Atoms) {
		return nil
	}
	return m.Atoms[i]
}

// Bond returns the bond at index i, or nil when out of range.
func (m *Molecule) Bond(i int) *Bond {
	if i < 0 || i >= len(m.Bonds) {
		return nil
	}
	return m.Bonds[i]
}

// BondBetween returns the index of the bond joining a and b.
func (m *Molecule) BondBetween(a, b int) (int, bool) {
	atom := m.Atom(a)
	if atom == nil {
		return -1, false
	}
	for _, bi := range atom.Bonds {
		if bond := m.Bond(bi); bond != nil && bond.Other(a) == b {
			return bi, true
		}
	}
	return -1, false
}

// Neighbors returns the atoms directly bonded to atom i, in bond order.
// Dangling bond references are skipped; use CheckAtom to detect them.
func (m *Molecule) Neighbors(i int) []int {
	atom := m.Atom(i)
	if atom == nil {
		return nil
	}
	out := make([]int, 0, len(atom.Bonds))
	for _, bi := range atom.Bonds {
		bond := m.Bond(bi)
		if bond == nil {
			continue
		}
		if other := bond.Other(i); m.Atom(other) != nil {
			out = append(out, other)
		}
	}
	return out
}

// CheckAtom verifies the bookkeeping around atom i.
func (m *Molecule) CheckAtom(i int) error {
	atom := m.Atom(i)
	if atom == nil {
		return fmt.Errorf("atom %d: %w: atom does not exist", i, ErrMalformed)
	}
	for _, bi := range atom.Bonds {
		bond := m.Bond(bi)
		if bond == nil {
			return fmt.Errorf("atom %d: %w: bond %d not present in graph", i, ErrMalformed, bi)
		}
		if !bond.Contains(i) {
			return fmt.Errorf("atom %d: %w: bond %d does not touch the atom", i, ErrMalformed, bi)
		}
		other := bond.Other(i)
		if other < 0 || other >= len(m.Atoms) || other == i {
			return fmt.Errorf("atom %d: %w: bond %d has invalid partner %d", i, ErrMalformed, bi, other)
		}
		if m.Atoms[other] == nil {
			return fmt.Errorf("atom %d: %w: bond %d partner %d does not exist", i, ErrMalformed, bi, other)
		}
	}
	return nil
}

// Invalidate marks the topology as changed so derived views are recomputed.
func (m *Molecule) Invalidate() {
	m.mu.Lock()
	m.version++
	m.rings = nil
	m.mu.Unlock()
}

// Rings returns the ring set for the current topology, computing it on demand.
func (m *Molecule) Rings() *RingSet {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := topologyKey{version: m.version, atoms: len(m.Atoms), bonds: len(m.Bonds)}
	if m.rings != nil && m.ringKey == key {
		return m.rings
	}
	m.rings = findRings(m)
	m.ringKey = key
	return m.rings
}

// ClearTypes resets every perceived atom type.
func (m *Molecule) ClearTypes() {
	for _, a := range m.Atoms {
		a.TypeName = ""
	}
}
