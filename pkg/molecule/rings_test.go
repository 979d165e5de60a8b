package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ring builds a carbon cycle of size n.
func ring(t *testing.T, n int) *Molecule {
	t.Helper()
	symbols := make([]string, n)
	for i := range symbols {
		symbols[i] = "C"
	}
	m := chain(t, symbols...)
	_, err := m.AddBond(n-1, 0, BondSingle)
	require.NoError(t, err)
	return m
}

func bond(t *testing.T, m *Molecule, a, b int) {
	t.Helper()
	_, err := m.AddBond(a, b, BondSingle)
	require.NoError(t, err)
}

func TestRings_Acyclic(t *testing.T) {
	m := chain(t, "C", "C", "C", "O")
	rs := m.Rings()
	assert.Equal(t, 0, rs.Len())
	assert.False(t, rs.AtomInRing(1))
	assert.Equal(t, 0, rs.SmallestRingSize(1))
	assert.Equal(t, -1, rs.SystemOf(1))
}

func TestRings_Cyclohexane(t *testing.T) {
	m := ring(t, 6)
	rs := m.Rings()
	require.Equal(t, 1, rs.Len())

	r := rs.Ring(0)
	assert.Equal(t, 6, r.Size())
	for i := 0; i < 6; i++ {
		assert.True(t, r.HasAtom(i))
		assert.True(t, rs.InRing(i))
		assert.Equal(t, 6, rs.SmallestRingSize(i))
	}

	// Bonds[i] joins Atoms[i] and Atoms[i+1].
	for i, bi := range r.Bonds {
		b := m.Bond(bi)
		next := r.Atoms[(i+1)%r.Size()]
		assert.True(t, b.Contains(r.Atoms[i]) && b.Contains(next), "bond %d out of walk order", bi)
	}
}

func TestRings_FusedBicycle(t *testing.T) {
	// Naphthalene skeleton: two six-rings sharing bond 0-5.
	m := ring(t, 6)
	for i := 0; i < 4; i++ {
		m.AddAtom(NewAtom("C"))
	}
	bond(t, m, 5, 6)
	bond(t, m, 6, 7)
	bond(t, m, 7, 8)
	bond(t, m, 8, 9)
	bond(t, m, 9, 0)

	rs := m.Rings()
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, 6, rs.Ring(0).Size())
	assert.Equal(t, 6, rs.Ring(1).Size())
	assert.Len(t, rs.Systems(), 1)
	assert.Len(t, rs.RingsContaining(0), 2)
	assert.Len(t, rs.RingsContaining(7), 1)
	assert.Equal(t, rs.SystemOf(2), rs.SystemOf(7))
}

func TestRings_FiveSixFused(t *testing.T) {
	// Indane-like skeleton: five-ring fused to a six-ring.
	m := ring(t, 6)
	for i := 0; i < 3; i++ {
		m.AddAtom(NewAtom("C"))
	}
	bond(t, m, 0, 6)
	bond(t, m, 6, 7)
	bond(t, m, 7, 8)
	bond(t, m, 8, 1)

	rs := m.Rings()
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, 5, rs.Ring(0).Size())
	assert.Equal(t, 6, rs.Ring(1).Size())
	assert.Equal(t, 5, rs.SmallestRingSize(0))
	assert.Equal(t, 6, rs.SmallestRingSize(3))
}

func TestRings_SpiroIsTwoSystems(t *testing.T) {
	m := ring(t, 4)
	for i := 0; i < 3; i++ {
		m.AddAtom(NewAtom("C"))
	}
	bond(t, m, 0, 4)
	bond(t, m, 4, 5)
	bond(t, m, 5, 6)
	bond(t, m, 6, 0)

	rs := m.Rings()
	require.Equal(t, 2, rs.Len())
	assert.Len(t, rs.Systems(), 2)
	assert.Len(t, rs.RingsContaining(0), 2)
	assert.Len(t, rs.SystemsOf(0), 2)
	assert.Len(t, rs.SystemsOf(5), 1)

	b01, ok := m.BondBetween(0, 1)
	require.True(t, ok)
	b45, ok := m.BondBetween(4, 5)
	require.True(t, ok)
	assert.NotEqual(t, rs.BondSystem(b01), rs.BondSystem(b45))
	assert.Equal(t, rs.SystemOf(1), rs.BondSystem(b01))
}

func TestRings_CacheInvalidation(t *testing.T) {
	m := chain(t, "C", "C", "C")
	first := m.Rings()
	assert.Same(t, first, m.Rings())
	assert.Equal(t, 0, first.Len())

	bond(t, m, 2, 0)
	second := m.Rings()
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, second.Len())

	// Direct slice edits are detected by the topology key.
	m.Atoms = append(m.Atoms, NewAtom("O"))
	assert.NotSame(t, second, m.Rings())
}

func TestRings_IgnoresDanglingBonds(t *testing.T) {
	m := ring(t, 3)
	m.Bonds = append(m.Bonds, &Bond{Begin: 0, End: 17, Order: BondSingle})
	m.Invalidate()
	rs := m.Rings()
	assert.Equal(t, 1, rs.Len())
	assert.False(t, rs.InRing(3))
}

func TestRings_IgnoresMissingAtoms(t *testing.T) {
	m := ring(t, 6)
	m.Atoms[3] = nil
	m.Invalidate()
	rs := m.Rings()
	assert.Equal(t, 0, rs.Len())
	for i := range m.Atoms {
		assert.False(t, rs.AtomInRing(i), "atom %d", i)
	}
}
