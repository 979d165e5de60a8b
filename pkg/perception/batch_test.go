package perception

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
	"github.com/leapstack-labs/leaptype/pkg/smiles"
)

var batchInputs = []string{
	indoleKekule,
	indoleAromatic,
	"c1c2cc[nH]cc2nc1",
	"c1cnc2s[cH][cH]n12",
	"Cl[Pt]1(Cl)(Cl)(Cl)NC2CCCCC2N1",
	"[Pt](Cl)(Cl)Cl",
	"CC#N",
	"[Na+].[Cl-]",
}

func parseAll(t *testing.T, inputs []string) []*molecule.Molecule {
	t.Helper()
	mols := make([]*molecule.Molecule, len(inputs))
	for i, s := range inputs {
		mol, err := smiles.Parse(s)
		require.NoError(t, err)
		mols[i] = mol
	}
	return mols
}

func TestPerceiveAll_MatchesSequential(t *testing.T) {
	p := newPerceiver(t)

	for _, workers := range []int{1, 3, 0, -1} {
		results, err := p.PerceiveAll(context.Background(), parseAll(t, batchInputs), workers)
		require.NoError(t, err)
		require.Len(t, results, len(batchInputs))

		for i, s := range batchInputs {
			want, _ := perceive(t, p, s)
			if diff := cmp.Diff(want.Types(), results[i].Types()); diff != "" {
				t.Errorf("workers=%d molecule %d (%s) mismatch (-sequential +batch):\n%s", workers, i, s, diff)
			}
		}
	}
}

func TestPerceiveAll_NilMolecule(t *testing.T) {
	p := newPerceiver(t)
	mols := []*molecule.Molecule{smiles.MustParse("CC"), nil, smiles.MustParse("O")}

	results, err := p.PerceiveAll(context.Background(), mols, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"C.sp3", "C.sp3"}, results[0].Types())
	assert.Equal(t, 0, results[1].Len())
	assert.Equal(t, []string{"O.sp3"}, results[2].Types())
}

func TestPerceiveAll_Empty(t *testing.T) {
	p := newPerceiver(t)
	results, err := p.PerceiveAll(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPerceiveAll_Cancelled(t *testing.T) {
	p := newPerceiver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := p.PerceiveAll(ctx, parseAll(t, batchInputs), 2)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}
