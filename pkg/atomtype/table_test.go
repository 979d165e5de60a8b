package atomtype

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	assert.Equal(t, EmbeddedSource, table.Source())
	assert.Greater(t, table.Len(), 50)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, table, again, "default table is parsed once")

	for _, name := range []string{"C.sp3", "C.sp2", "N.planar3", "N.amide", "S.planar3", "Pt.4", "Pt.6", "Cl"} {
		_, ok := table.Lookup(name)
		assert.True(t, ok, "missing %s", name)
	}
	assert.Equal(t, 1, table.Rules().SP2DoubleBonds)
	assert.True(t, table.Rules().IsPlanarDonor("S"))
	assert.False(t, table.Rules().IsConjugatedPlanar("O"))
}

func TestTable_ForElementKeepsOrder(t *testing.T) {
	table := MustDefault()
	var names []string
	for _, d := range table.ForElement("Pt") {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Pt.2plus", "Pt.2", "Pt.4", "Pt.6"}, names)
	assert.Equal(t, "H", table.Elements()[0])
}

func TestTable_DescriptorsIsACopy(t *testing.T) {
	table := MustDefault()
	ds := table.Descriptors()
	ds[0].Name = "changed"
	d, ok := table.Lookup("H.plus")
	require.True(t, ok)
	assert.Equal(t, "H.plus", d.Name)
}

func TestParse_HybridizationDefaults(t *testing.T) {
	table, err := Parse([]byte(`
hybridization:
  sp_double_bonds: 3
types:
  - {name: C.any, element: C}
`), "partial.yaml")
	require.NoError(t, err)
	rules := table.Rules()
	assert.Equal(t, 3, rules.SPDoubleBonds)
	assert.Equal(t, 1, rules.SPTripleBonds)
	assert.Equal(t, []string{"C"}, rules.CationPlanar)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		descriptor string
		msg        string
	}{
		{
			name: "empty document",
			yaml: ``,
			msg:  "table is empty",
		},
		{
			name: "no descriptors",
			yaml: `version: 1`,
			msg:  "no descriptors",
		},
		{
			name: "bad yaml",
			yaml: "types: [",
			msg:  "invalid YAML",
		},
		{
			name: "unknown key",
			yaml: "types:\n  - {name: X, element: C, colour: red}",
			msg:  "invalid YAML",
		},
		{
			name: "future version",
			yaml: "version: 9\ntypes:\n  - {name: X, element: C}",
			msg:  "unsupported table version 9",
		},
		{
			name:       "duplicate name",
			yaml:       "types:\n  - {name: X, element: C, charges: [0]}\n  - {name: X, element: N}",
			descriptor: "X",
			msg:        "duplicate descriptor name",
		},
		{
			name:       "missing name",
			yaml:       "types:\n  - {element: C}",
			descriptor: "#1",
			msg:        "no name",
		},
		{
			name:       "unknown element",
			yaml:       "types:\n  - {name: Q, element: Qq}",
			descriptor: "Q",
			msg:        "unknown element",
		},
		{
			name:       "unknown model",
			yaml:       "types:\n  - {name: Q, element: C, model: quantum}",
			descriptor: "Q",
			msg:        "unknown model",
		},
		{
			name:       "unknown hybridization",
			yaml:       "types:\n  - {name: Q, element: C, hybridization: sp4}",
			descriptor: "Q",
			msg:        "unknown hybridization",
		},
		{
			name:       "unknown bond order",
			yaml:       "types:\n  - {name: Q, element: C, max_bond_order: quadruple}",
			descriptor: "Q",
			msg:        "unknown bond order",
		},
		{
			name:       "aromatic max bond order",
			yaml:       "types:\n  - {name: Q, element: C, max_bond_order: aromatic}",
			descriptor: "Q",
			msg:        "max_bond_order",
		},
		{
			name:       "negative count",
			yaml:       "types:\n  - {name: Q, element: C, neighbors: -1}",
			descriptor: "Q",
			msg:        "neighbors is negative",
		},
		{
			name:       "empty charges",
			yaml:       "types:\n  - {name: Q, element: C, charges: []}",
			descriptor: "Q",
			msg:        "charges list is empty",
		},
		{
			name:       "coordination without neighbors",
			yaml:       "types:\n  - {name: Pt.x, element: Pt, model: coordination}",
			descriptor: "Pt.x",
			msg:        "exact neighbors count",
		},
		{
			name:       "coordination with hydrogens",
			yaml:       "types:\n  - {name: Pt.x, element: Pt, model: coordination, neighbors: 4, hydrogens: 0}",
			descriptor: "Pt.x",
			msg:        "cannot constrain hydrogens",
		},
		{
			name:       "coordination with bonding constraints",
			yaml:       "types:\n  - {name: Fe.x, element: Fe, model: coordination, neighbors: 6, hybridization: sp3, ring: false, max_bond_order: single}",
			descriptor: "Fe.x",
			msg:        "cannot constrain hybridization, max_bond_order, ring",
		},
		{
			name:       "shadowed descriptor",
			yaml:       "types:\n  - {name: C.any, element: C}\n  - {name: C.sp3, element: C, hybridization: sp3}",
			descriptor: "C.sp3",
			msg:        `earlier descriptor "C.any"`,
		},
		{
			name:       "shadowed by charge superset",
			yaml:       "types:\n  - {name: N.ions, element: N, charges: [-1, 1]}\n  - {name: N.plus, element: N, charges: [1], connections: 4}",
			descriptor: "N.plus",
			msg:        "unreachable",
		},
		{
			name:       "shadowed by coordination",
			yaml:       "types:\n  - {name: Pt.4, element: Pt, model: coordination, neighbors: 4}\n  - {name: Pt.sq, element: Pt, neighbors: 4, charges: [0]}",
			descriptor: "Pt.sq",
			msg:        "unreachable",
		},
		{
			name: "bad threshold",
			yaml: "hybridization:\n  sp2_double_bonds: 0\ntypes:\n  - {name: C.any, element: C}",
			msg:  "sp2_double_bonds",
		},
		{
			name: "unknown rule element",
			yaml: "hybridization:\n  planar_donors: [Zz]\ntypes:\n  - {name: C.any, element: C}",
			msg:  "unknown element",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "test.yaml")
			require.Error(t, err)
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "test.yaml", cerr.Source)
			assert.Equal(t, tt.descriptor, cerr.Descriptor)
			assert.Contains(t, cerr.Error(), tt.msg)
		})
	}
}

func TestParse_SpecificBeforeGeneralIsValid(t *testing.T) {
	_, err := Parse([]byte(`
types:
  - {name: C.sp3, element: C, hybridization: sp3}
  - {name: C.any, element: C}
  - {name: Pt.sq, element: Pt, neighbors: 4, charges: [0], hydrogens: 0}
  - {name: Pt.4, element: Pt, model: coordination, neighbors: 4}
`), "ordered.yaml")
	require.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.yaml")
	require.NoError(t, os.WriteFile(path, DefaultCatalog(), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, table.Source())
	assert.Equal(t, MustDefault().Len(), table.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "cannot read table")
}

func TestDescriptor_Constraints(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want []string
	}{
		{"none", Descriptor{Name: "C.any", Element: "C"}, nil},
		{
			"counts then flags",
			Descriptor{Name: "N.x", Element: "N", Aromatic: Bool(true), Neighbors: Int(2), Hydrogens: Int(0)},
			[]string{"neighbors=2", "hydrogens=0", "aromatic=true"},
		},
		{
			"bond order",
			Descriptor{Name: "S.x", Element: "S", MaxBondOrderSum: Int(6), Ring: Bool(false)},
			[]string{"max_bond_order_sum=6", "ring=false"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Constraints())
		})
	}
}
