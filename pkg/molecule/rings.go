package molecule

import (
	"math/bits"
	"slices"
	"sort"
)

// Ring is a closed cycle of atoms. Atoms are listed in walk order and
// Bonds[i] joins Atoms[i] to Atoms[(i+1)%len(Atoms)].
type Ring struct {
	Atoms []int
	Bonds []int
}

// Size returns the number of atoms in the ring.
func (r Ring) Size() int { return len(r.Atoms) }

// HasAtom reports whether atom lies on the ring.
func (r Ring) HasAtom(atom int) bool {
	for _, a := range r.Atoms {
		if a == atom {
			return true
		}
	}
	return false
}

// HasBond reports whether bond lies on the ring.
func (r Ring) HasBond(bond int) bool {
	for _, b := range r.Bonds {
		if b == bond {
			return true
		}
	}
	return false
}

// RingSet is the smallest set of smallest rings of a molecule.
// It is a read-only snapshot; Molecule.Rings recomputes it after topology changes.
type RingSet struct {
	rings     []Ring
	atomRings [][]int
	bondRings [][]int
	systems   [][]int
	ringSys   []int
	atomSys   []int
}

// Len returns the number of rings.
func (rs *RingSet) Len() int { return len(rs.rings) }

// Rings returns all rings ordered by size, then by lowest atom index.
func (rs *RingSet) Rings() []Ring { return rs.rings }

// Ring returns ring i.
func (rs *RingSet) Ring(i int) Ring { return rs.rings[i] }

// AtomInRing reports whether atom belongs to any ring.
func (rs *RingSet) AtomInRing(atom int) bool {
	return atom >= 0 && atom < len(rs.atomRings) && len(rs.atomRings[atom]) > 0
}

// InRing reports whether bond belongs to any ring.
func (rs *RingSet) InRing(bond int) bool {
	return bond >= 0 && bond < len(rs.bondRings) && len(rs.bondRings[bond]) > 0
}

// RingsContaining returns the indexes of rings that contain atom.
func (rs *RingSet) RingsContaining(atom int) []int {
	if atom < 0 || atom >= len(rs.atomRings) {
		return nil
	}
	return rs.atomRings[atom]
}

// SmallestRingSize returns the size of the smallest ring containing atom, or 0.
func (rs *RingSet) SmallestRingSize(atom int) int {
	smallest := 0
	for _, ri := range rs.RingsContaining(atom) {
		if n := rs.rings[ri].Size(); smallest == 0 || n < smallest {
			smallest = n
		}
	}
	return smallest
}

// Systems returns fused ring systems as lists of ring indexes.
// Rings are fused when they share a bond.
func (rs *RingSet) Systems() [][]int { return rs.systems }

// SystemOf returns the index of the ring system containing atom, or -1.
func (rs *RingSet) SystemOf(atom int) int {
	if atom < 0 || atom >= len(rs.atomSys) {
		return -1
	}
	return rs.atomSys[atom]
}

// SystemsOf returns every ring system that contains atom. A spiro atom
// belongs to two systems.
func (rs *RingSet) SystemsOf(atom int) []int {
	var out []int
	for _, ri := range rs.RingsContaining(atom) {
		if si := rs.ringSys[ri]; !slices.Contains(out, si) {
			out = append(out, si)
		}
	}
	return out
}

// BondSystem returns the index of the ring system containing bond, or -1.
func (rs *RingSet) BondSystem(bond int) int {
	if !rs.InRing(bond) {
		return -1
	}
	return rs.ringSys[rs.bondRings[bond][0]]
}

// bitset is a fixed-width set of bond indexes used for cycle-space elimination.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int)      { b[i/64] |= 1 << (uint(i) % 64) }
func (b bitset) has(i int) bool { return b[i/64]&(1<<(uint(i)%64)) != 0 }
func (b bitset) clone() bitset  { return append(bitset(nil), b...) }

func (b bitset) xor(o bitset) {
	for i := range b {
		b[i] ^= o[i]
	}
}

func (b bitset) lowest() int {
	for i, w := range b {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w)
		}
	}
	return -1
}

// findRings computes the SSSR: the shortest cycle through every ring bond is
// collected, then cycles are picked smallest first while they stay independent
// in the cycle space, up to the cyclomatic number.
func findRings(m *Molecule) *RingSet {
	nAtoms, nBonds := len(m.Atoms), len(m.Bonds)
	rs := &RingSet{
		atomRings: make([][]int, nAtoms),
		bondRings: make([][]int, nBonds),
		atomSys:   make([]int, nAtoms),
	}
	for i := range rs.atomSys {
		rs.atomSys[i] = -1
	}

	adj := adjacency(m)
	// Dangling bonds are excluded from adjacency, so count usable edges only.
	usable := 0
	for _, b := range m.Bonds {
		if validBond(m, b) {
			usable++
		}
	}
	nullity := usable - nAtoms + components(adj)
	if nullity <= 0 {
		return rs
	}

	seen := make(map[string]bool)
	var candidates []Ring
	for bi, b := range m.Bonds {
		if !validBond(m, b) {
			continue
		}
		ring, ok := shortestCycle(adj, b.Begin, b.End, bi)
		if !ok {
			continue
		}
		key := ringKey(ring.Bonds)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, ring)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Size() != candidates[j].Size() {
			return candidates[i].Size() < candidates[j].Size()
		}
		return lessAtoms(candidates[i].Atoms, candidates[j].Atoms)
	})

	var basis []bitset
	var pivots []int
	for _, ring := range candidates {
		if len(rs.rings) == nullity {
			break
		}
		v := newBitset(nBonds)
		for _, b := range ring.Bonds {
			v.set(b)
		}
		for i, row := range basis {
			if v.has(pivots[i]) {
				v.xor(row)
			}
		}
		p := v.lowest()
		if p < 0 {
			continue
		}
		basis = append(basis, v.clone())
		pivots = append(pivots, p)
		rs.rings = append(rs.rings, ring)
	}

	for ri, ring := range rs.rings {
		for _, a := range ring.Atoms {
			rs.atomRings[a] = append(rs.atomRings[a], ri)
		}
		for _, b := range ring.Bonds {
			rs.bondRings[b] = append(rs.bondRings[b], ri)
		}
	}
	rs.buildSystems()
	return rs
}

func (rs *RingSet) buildSystems() {
	parent := make([]int, len(rs.rings))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, shared := range rs.bondRings {
		for i := 1; i < len(shared); i++ {
			a, b := find(shared[0]), find(shared[i])
			if a != b {
				if a < b {
					parent[b] = a
				} else {
					parent[a] = b
				}
			}
		}
	}

	index := make(map[int]int)
	for ri := range rs.rings {
		root := find(ri)
		si, ok := index[root]
		if !ok {
			si = len(rs.systems)
			index[root] = si
			rs.systems = append(rs.systems, nil)
		}
		rs.systems[si] = append(rs.systems[si], ri)
		rs.ringSys = append(rs.ringSys, si)
		for _, a := range rs.rings[ri].Atoms {
			if rs.atomSys[a] == -1 {
				rs.atomSys[a] = si
			}
		}
	}
}

type edge struct {
	to   int
	bond int
}

// validBond reports whether b joins two distinct atoms present in m.
func validBond(m *Molecule, b *Bond) bool {
	return b != nil && b.Begin != b.End && m.Atom(b.Begin) != nil && m.Atom(b.End) != nil
}

func adjacency(m *Molecule) [][]edge {
	adj := make([][]edge, len(m.Atoms))
	for bi, b := range m.Bonds {
		if !validBond(m, b) {
			continue
		}
		adj[b.Begin] = append(adj[b.Begin], edge{to: b.End, bond: bi})
		adj[b.End] = append(adj[b.End], edge{to: b.Begin, bond: bi})
	}
	for _, edges := range adj {
		sort.Slice(edges, func(i, j int) bool { return edges[i].to < edges[j].to })
	}
	return adj
}

func components(adj [][]edge) int {
	seen := make([]bool, len(adj))
	count := 0
	for start := range adj {
		if seen[start] {
			continue
		}
		count++
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, e := range adj[cur] {
				if !seen[e.to] {
					seen[e.to] = true
					stack = append(stack, e.to)
				}
			}
		}
	}
	return count
}

// shortestCycle finds the shortest path from begin to end that avoids the
// bond joining them, and closes it into a ring.
func shortestCycle(adj [][]edge, begin, end, skip int) (Ring, bool) {
	prev := make([]edge, len(adj))
	visited := make([]bool, len(adj))
	visited[begin] = true
	queue := []int{begin}
	for len(queue) > 0 && !visited[end] {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range adj[cur] {
			if e.bond == skip || visited[e.to] {
				continue
			}
			visited[e.to] = true
			prev[e.to] = edge{to: cur, bond: e.bond}
			queue = append(queue, e.to)
		}
	}
	if !visited[end] {
		return Ring{}, false
	}

	// Walk back from end to begin, then close with the skipped bond.
	atoms := []int{end}
	var bonds []int
	for cur := end; cur != begin; cur = prev[cur].to {
		bonds = append(bonds, prev[cur].bond)
		atoms = append(atoms, prev[cur].to)
	}
	bonds = append(bonds, skip)
	// atoms: end ... begin; bonds[i] joins atoms[i] and atoms[i+1], last bond closes begin->end.
	return Ring{Atoms: atoms, Bonds: bonds}, true
}

func ringKey(bonds []int) string {
	sorted := append([]int(nil), bonds...)
	sort.Ints(sorted)
	key := make([]byte, 0, len(sorted)*4)
	for _, b := range sorted {
		key = append(key, byte(b>>24), byte(b>>16), byte(b>>8), byte(b))
	}
	return string(key)
}

func lessAtoms(a, b []int) bool {
	sa := append([]int(nil), a...)
	sb := append([]int(nil), b...)
	sort.Ints(sa)
	sort.Ints(sb)
	for i := range sa {
		if i >= len(sb) {
			return false
		}
		if sa[i] != sb[i] {
			return sa[i] < sb[i]
		}
	}
	return len(sa) < len(sb)
}
