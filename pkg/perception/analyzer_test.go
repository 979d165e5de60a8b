package perception

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptype/pkg/atomtype"
	"github.com/leapstack-labs/leaptype/pkg/molecule"
	"github.com/leapstack-labs/leaptype/pkg/smiles"
)

func analyze(t *testing.T, s string) (*Analyzer, *molecule.Molecule) {
	t.Helper()
	mol, err := smiles.Parse(s)
	require.NoError(t, err)
	return NewAnalyzer(mol, atomtype.DefaultHybridizationRules()), mol
}

func TestAnalyzer_KekulizesAromaticRing(t *testing.T) {
	an, mol := analyze(t, "c1ccccc1")
	for i := range mol.Atoms {
		doubles := 0
		for _, bi := range mol.Atoms[i].Bonds {
			switch an.BondOrder(bi) {
			case molecule.BondDouble:
				doubles++
			case molecule.BondSingle:
			default:
				t.Fatalf("bond %d left as %s", bi, an.BondOrder(bi))
			}
		}
		assert.Equal(t, 1, doubles, "atom %d", i)

		f, err := an.Facts(i)
		require.NoError(t, err)
		assert.Equal(t, 3, f.BondOrderSum)
		assert.Equal(t, molecule.BondDouble, f.MaxBondOrder)
		assert.True(t, f.Aromatic)
		assert.Equal(t, atomtype.SP2, f.Hybridization)
	}
	// The molecule itself is untouched.
	for _, b := range mol.Bonds {
		assert.Equal(t, molecule.BondAromatic, b.Order)
	}
}

func TestAnalyzer_NonRingAromaticBondIsSingle(t *testing.T) {
	mol := molecule.New()
	a := mol.AddAtom(molecule.NewAtom("C"))
	b := mol.AddAtom(molecule.NewAtom("C"))
	bi, err := mol.AddBond(a, b, molecule.BondAromatic)
	require.NoError(t, err)

	an := NewAnalyzer(mol, atomtype.DefaultHybridizationRules())
	assert.Equal(t, molecule.BondSingle, an.BondOrder(bi))
	assert.False(t, an.IsAromatic(a))
}

func TestAnalyzer_FailedKekulizationTrustsFlags(t *testing.T) {
	// Five aromatic carbons cannot be paired up.
	an, mol := analyze(t, "c1cccc1")
	for bi := range mol.Bonds {
		assert.Equal(t, molecule.BondAromatic, an.BondOrder(bi))
	}
	f, err := an.Facts(0)
	require.NoError(t, err)
	assert.True(t, f.Aromatic)
	assert.Equal(t, 1, f.PiBonds)
	assert.Equal(t, atomtype.SP2, f.Hybridization)
}

func TestAnalyzer_Aromaticity(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		atom   int
		want   bool
	}{
		{"kekule benzene", "C1=CC=CC=C1", 0, true},
		{"kekule pyrrole nitrogen", "C1=CNC=C1", 2, true},
		{"kekule furan oxygen", "O1C=CC=C1", 0, true},
		{"kekule thiophene", "S1C=CC=C1", 0, true},
		{"kekule pyridone", "O=C1C=CC=CN1", 1, true},
		{"cyclopentadienyl anion", "[CH-]1C=CC=C1", 0, true},
		{"tropylium", "[CH+]1C=CC=CC=C1", 0, true},
		{"cyclohexene", "C1=CCCCC1", 0, false},
		{"cyclopentadiene", "C1=CCC=C1", 0, false},
		{"cyclooctatetraene", "C1=CC=CC=CC=C1", 0, false},
		{"acyclic aromatic flag ignored", "cc", 0, false},
		{"kekule naphthalene", "C1=CC=C2C=CC=CC2=C1", 4, true},
		{"kekule azaindene needs the perimeter", "C1=C2C=CNC=C2N=C1", 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			an, _ := analyze(t, tt.smiles)
			assert.Equal(t, tt.want, an.IsAromatic(tt.atom))
		})
	}
}

func TestAnalyzer_Hybridization(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		atom   int
		want   atomtype.Hybridization
	}{
		{"methane", "C", 0, atomtype.SP3},
		{"ethene", "C=C", 0, atomtype.SP2},
		{"acetylene", "C#C", 0, atomtype.SP1},
		{"allene centre", "C=C=C", 1, atomtype.SP1},
		{"pyridine nitrogen", "c1ccncc1", 3, atomtype.SP2},
		{"pyrrole nitrogen", "c1cc[nH]c1", 3, atomtype.Planar3},
		{"furan oxygen", "o1cccc1", 0, atomtype.Planar3},
		{"aniline nitrogen", "Nc1ccccc1", 0, atomtype.Planar3},
		{"amide nitrogen", "CC(N)=O", 2, atomtype.Planar3},
		{"amine nitrogen", "CCN", 2, atomtype.SP3},
		{"ester oxygen stays sp3", "CC(=O)OC", 3, atomtype.SP3},
		{"carbocation", "C[CH+]C", 1, atomtype.SP2},
		{"ammonium", "[NH4+]", 0, atomtype.SP3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			an, _ := analyze(t, tt.smiles)
			f, err := an.Facts(tt.atom)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Hybridization)
		})
	}
}

func TestAnalyzer_Amide(t *testing.T) {
	an, _ := analyze(t, "CC(=O)NC")
	f, err := an.Facts(3)
	require.NoError(t, err)
	assert.True(t, f.Amide)

	// The carbonyl oxygen is not its own amide neighbor.
	f, err = an.Facts(2)
	require.NoError(t, err)
	assert.False(t, f.Amide)

	an, _ = analyze(t, "CC(=S)N")
	f, err = an.Facts(3)
	require.NoError(t, err)
	assert.True(t, f.Amide)

	an, _ = analyze(t, "CC(=C)N")
	f, err = an.Facts(3)
	require.NoError(t, err)
	assert.False(t, f.Amide)
}

func TestAnalyzer_RepresentationInvariantFacts(t *testing.T) {
	pairs := [][2]string{
		{"CN(C)CCC1=CNC2=C1C=C(C=C2)CC1NC(=O)OC1", "CN(C)CCC1=CNc2c1cc(cc2)CC1NC(=O)OC1"},
		{"c1c2cc[NH]cc2nc1", "c1c2cc[nH]cc2nc1"},
		{"C1=CC=NC=C1", "c1ccncc1"},
		{"C1=CC=CN1", "c1ccc[nH]1"},
	}
	for _, pair := range pairs {
		t.Run(pair[1], func(t *testing.T) {
			a1, m1 := analyze(t, pair[0])
			a2, m2 := analyze(t, pair[1])
			require.Equal(t, m1.AtomCount(), m2.AtomCount())
			for i := range m1.Atoms {
				f1, err := a1.Facts(i)
				require.NoError(t, err)
				f2, err := a2.Facts(i)
				require.NoError(t, err)
				if diff := cmp.Diff(f1, f2); diff != "" {
					t.Errorf("atom %d facts differ (-kekule +aromatic):\n%s", i, diff)
				}
			}
		})
	}
}

func TestAnalyzer_ImplicitHydrogensWhenUnset(t *testing.T) {
	mol := molecule.New()
	c := mol.AddAtom(molecule.NewAtom("C"))
	o := mol.AddAtom(molecule.NewAtom("O"))
	_, err := mol.AddBond(c, o, molecule.BondDouble)
	require.NoError(t, err)

	an := NewAnalyzer(mol, atomtype.DefaultHybridizationRules())
	f, err := an.Facts(c)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Hydrogens)
	assert.Equal(t, 3, f.Connections)
	assert.Equal(t, molecule.Unset, mol.Atoms[c].ImplicitH, "analyzer must not write to the molecule")
}

func TestAnalyzer_MalformedAtom(t *testing.T) {
	an, mol := analyze(t, "CCO")
	mol.Atoms[2].Bonds = append(mol.Atoms[2].Bonds, 99)

	_, err := an.Facts(2)
	require.ErrorIs(t, err, ErrMalformedGraph)
	assert.Contains(t, err.Error(), "atom 2")

	// Neighbors of the broken atom are still analysed.
	f, err := an.Facts(1)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Neighbors)

	_, err = an.Facts(7)
	require.ErrorIs(t, err, ErrMalformedGraph)
}
