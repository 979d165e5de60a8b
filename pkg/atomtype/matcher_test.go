package atomtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

func sp3Carbon() Facts {
	return Facts{
		Element:       "C",
		Neighbors:     2,
		Hydrogens:     2,
		Connections:   4,
		MaxBondOrder:  molecule.BondSingle,
		BondOrderSum:  2,
		Hybridization: SP3,
	}
}

func TestMatcher_DefaultTable(t *testing.T) {
	m := NewMatcher(MustDefault())

	tests := []struct {
		name  string
		facts Facts
		want  string
	}{
		{"methylene", sp3Carbon(), "C.sp3"},
		{
			name: "aromatic carbon",
			facts: Facts{Element: "C", Neighbors: 2, Hydrogens: 1, Connections: 3,
				MaxBondOrder: molecule.BondDouble, BondOrderSum: 3, PiBonds: 1,
				InRing: true, SmallestRing: 6, Aromatic: true, Hybridization: SP2},
			want: "C.sp2",
		},
		{
			name:  "nitrile nitrogen",
			facts: Facts{Element: "N", Neighbors: 1, Connections: 1, MaxBondOrder: molecule.BondTriple, BondOrderSum: 3, TripleBonds: 1, Hybridization: SP1},
			want:  "N.sp1",
		},
		{
			name:  "pyrrole nitrogen",
			facts: Facts{Element: "N", Neighbors: 2, Hydrogens: 1, Connections: 3, MaxBondOrder: molecule.BondSingle, BondOrderSum: 2, InRing: true, SmallestRing: 5, Aromatic: true, Hybridization: Planar3},
			want:  "N.planar3",
		},
		{
			name:  "amide nitrogen",
			facts: Facts{Element: "N", Neighbors: 2, Hydrogens: 1, Connections: 3, MaxBondOrder: molecule.BondSingle, BondOrderSum: 2, Amide: true, Hybridization: Planar3},
			want:  "N.amide",
		},
		{
			name:  "amine nitrogen",
			facts: Facts{Element: "N", Neighbors: 3, Connections: 3, MaxBondOrder: molecule.BondSingle, BondOrderSum: 3, Hybridization: SP3},
			want:  "N.sp3",
		},
		{
			name:  "thiophene sulfur",
			facts: Facts{Element: "S", Neighbors: 2, Connections: 2, MaxBondOrder: molecule.BondSingle, BondOrderSum: 2, InRing: true, Aromatic: true, Hybridization: Planar3},
			want:  "S.planar3",
		},
		{
			name:  "sulfone",
			facts: Facts{Element: "S", Neighbors: 4, Connections: 4, MaxBondOrder: molecule.BondDouble, BondOrderSum: 6, PiBonds: 2, Hybridization: SP1},
			want:  "S.onyl",
		},
		{
			name:  "chloride ion",
			facts: Facts{Element: "Cl", Charge: -1, Hybridization: SP3},
			want:  "Cl.minus",
		},
		{
			name:  "square planar platinum",
			facts: Facts{Element: "Pt", Neighbors: 4, Connections: 4, MaxBondOrder: molecule.BondSingle, BondOrderSum: 4, Hybridization: SP3},
			want:  "Pt.4",
		},
		{
			name:  "octahedral platinum ignores ring context",
			facts: Facts{Element: "Pt", Neighbors: 6, Connections: 6, BondOrderSum: 6, InRing: true, SmallestRing: 5, Hybridization: SP3},
			want:  "Pt.6",
		},
		{
			name:  "sodium ion",
			facts: Facts{Element: "Na", Charge: 1},
			want:  "Na.plus",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := m.Match(tt.facts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name)
		})
	}
}

func TestMatcher_Unmatched(t *testing.T) {
	m := NewMatcher(MustDefault())

	tests := []struct {
		name  string
		facts Facts
	}{
		{"carbon atom with no connections", Facts{Element: "C", Hybridization: SP3}},
		{"three-coordinate platinum", Facts{Element: "Pt", Neighbors: 3, Connections: 3}},
		{"element absent from table", Facts{Element: "U", Neighbors: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Match(tt.facts)
			require.ErrorIs(t, err, ErrUnmatched)
			assert.Contains(t, err.Error(), tt.facts.Element)
		})
	}
}

func TestMatcher_FirstMatchWins(t *testing.T) {
	table, err := NewTable("code", DefaultHybridizationRules(), []Descriptor{
		{Name: "C.ring", Element: "C", Ring: Bool(true)},
		{Name: "C.sp3", Element: "C", Hybridizations: []Hybridization{SP3}},
		{Name: "C.any", Element: "C"},
	})
	require.NoError(t, err)
	m := NewMatcher(table)

	f := sp3Carbon()
	f.InRing = true
	d, err := m.Match(f)
	require.NoError(t, err)
	assert.Equal(t, "C.ring", d.Name)

	var names []string
	for _, c := range m.Candidates(f) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"C.ring", "C.sp3", "C.any"}, names)

	f.InRing = false
	d, err = m.Match(f)
	require.NoError(t, err)
	assert.Equal(t, "C.sp3", d.Name)
}

func TestDescriptor_Matches(t *testing.T) {
	base := sp3Carbon()

	tests := []struct {
		name string
		d    Descriptor
		f    func(*Facts)
		want bool
	}{
		{"no constraints", Descriptor{Element: "C"}, nil, true},
		{"wrong element", Descriptor{Element: "N"}, nil, false},
		{"charge listed", Descriptor{Element: "C", Charges: []int{0, 1}}, nil, true},
		{"charge not listed", Descriptor{Element: "C", Charges: []int{1}}, nil, false},
		{"neighbors exact", Descriptor{Element: "C", Neighbors: Int(2)}, nil, true},
		{"neighbors mismatch", Descriptor{Element: "C", Neighbors: Int(3)}, nil, false},
		{"max neighbors", Descriptor{Element: "C", MaxNeighbors: Int(1)}, nil, false},
		{"hydrogens", Descriptor{Element: "C", Hydrogens: Int(2)}, nil, true},
		{"max bond order", Descriptor{Element: "C", MaxBondOrder: Order(molecule.BondSingle)},
			func(f *Facts) { f.MaxBondOrder = molecule.BondDouble }, false},
		{"max bond order sum", Descriptor{Element: "C", MaxBondOrderSum: Int(4)},
			func(f *Facts) { f.BondOrderSum = 5 }, false},
		{"pi bonds", Descriptor{Element: "C", PiBonds: Int(0)}, nil, true},
		{"ring size", Descriptor{Element: "C", RingSize: Int(5)},
			func(f *Facts) { f.InRing, f.SmallestRing = true, 5 }, true},
		{"aromatic required", Descriptor{Element: "C", Aromatic: Bool(true)}, nil, false},
		{"amide excluded", Descriptor{Element: "C", Amide: Bool(false)}, nil, true},
		{"coordination ignores hybridization",
			Descriptor{Element: "C", Model: ModelCoordination, Neighbors: Int(2), Hybridizations: []Hybridization{SP1}}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			if tt.f != nil {
				tt.f(&f)
			}
			assert.Equal(t, tt.want, tt.d.Matches(f))
		})
	}
}

func TestHybridization_Names(t *testing.T) {
	for _, h := range []Hybridization{SP1, SP2, SP3, Planar3} {
		got, ok := ParseHybridization(h.String())
		require.True(t, ok)
		assert.Equal(t, h, got)
	}
	_, ok := ParseHybridization("unknown")
	assert.False(t, ok)
}
