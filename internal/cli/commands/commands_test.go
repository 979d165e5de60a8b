// Package commands_test provides tests for CLI command creation.
package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptype/internal/state"
	"github.com/leapstack-labs/leaptype/internal/testutil"
	"github.com/leapstack-labs/leaptype/pkg/atomtype"
	"github.com/leapstack-labs/leaptype/pkg/perception"
	"github.com/leapstack-labs/leaptype/pkg/smiles"
)

func TestNewPerceiveCommand(t *testing.T) {
	cmd := NewPerceiveCommand()

	assert.Equal(t, "perceive [smiles...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"strict", "explain"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewBatchCommand(t *testing.T) {
	cmd := NewBatchCommand()

	assert.Equal(t, "batch <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	for _, flag := range []string{"workers", "state", "metrics", "save", "watch"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "w", cmd.Flags().Lookup("workers").Shorthand)
}

func TestNewTypesCommand(t *testing.T) {
	cmd := NewTypesCommand()

	assert.Equal(t, "types [element]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.Error(t, cmd.Args(cmd, []string{"C", "N"}))
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	assert.Equal(t, "validate [file]", cmd.Use)
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []inputRecord
	}{
		{
			name:  "smiles only",
			input: "CCO\nc1ccccc1\n",
			want: []inputRecord{
				{Line: 1, Smiles: "CCO"},
				{Line: 2, Smiles: "c1ccccc1"},
			},
		},
		{
			name:  "names and comments",
			input: "# header\n\nCC(=O)O  acetic acid\n   \nO\twater\n",
			want: []inputRecord{
				{Line: 3, Smiles: "CC(=O)O", Name: "acetic acid"},
				{Line: 5, Smiles: "O", Name: "water"},
			},
		},
		{
			name:  "no trailing newline",
			input: "N",
			want:  []inputRecord{{Line: 1, Smiles: "N"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadInputFile_Missing(t *testing.T) {
	_, err := readInputFile(filepath.Join(t.TempDir(), "nope.smi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input")
}

func TestAtomColumn(t *testing.T) {
	res := perceived(t, "C1CC1O")
	carbon := res.Assignments[0]
	oxygen := res.Assignments[3]

	tests := []struct {
		col  string
		a    perception.Assignment
		want string
	}{
		{"atom", oxygen, "3"},
		{"symbol", oxygen, "O"},
		{"type", carbon, "C.sp3"},
		{"charge", carbon, "0"},
		{"neighbors", carbon, "2"},
		{"hydrogens", carbon, "2"},
		{"hybridization", carbon, "sp3"},
		{"aromatic", carbon, "false"},
		{"ring", carbon, "3"},
		{"ring", oxygen, "-"},
		{"outcome", carbon, "matched"},
		{"bogus", carbon, ""},
	}

	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			assert.Equal(t, tt.want, atomColumn(tt.col, tt.a))
		})
	}
}

func TestAtomColumn_Unmatched(t *testing.T) {
	res := perceived(t, "[Pt](Cl)(Cl)Cl")
	assert.Equal(t, "-", atomColumn("type", res.Assignments[0]))
	assert.Equal(t, "unmatched", atomColumn("outcome", res.Assignments[0]))
}

func TestAtomRows_Explain(t *testing.T) {
	res := perceived(t, "CC")
	candidates := explain(atomtype.NewMatcher(atomtype.MustDefault()), res)

	headers, rows := atomRows([]string{"atom", "type"}, res, candidates)
	assert.Equal(t, []string{"atom", "type", "candidates"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"0", "C.sp3", "C.sp3"}, rows[0])
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "", joinInts(nil))
	assert.Equal(t, "-1,0,1", joinInts([]int{-1, 0, 1}))
}

func TestSortedCounts(t *testing.T) {
	got := sortedCounts(map[string]int{"O.sp3": 1, "C.sp3": 4, "Cl": 1, "C.sp2": 4})
	want := []state.TypeCount{
		{Type: "C.sp2", Count: 4},
		{Type: "C.sp3", Count: 4},
		{Type: "Cl", Count: 1},
		{Type: "O.sp3", Count: 1},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, sortedCounts(nil))
}

func TestWatchInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mols.smi")
	require.NoError(t, os.WriteFile(path, []byte("C\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reruns := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchInput(ctx, path, 10*time.Millisecond, testutil.NewTestLogger(t), func() {
			select {
			case reruns <- struct{}{}:
			default:
			}
		})
	}()

	// Writes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.smi"), []byte("O\n"), 0o644))

	// The watcher is registered asynchronously, so keep writing until it fires.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
wait:
	for {
		select {
		case <-reruns:
			break wait
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("CC\n"), 0o644))
		case <-deadline:
			t.Fatal("rerun was not called after the input changed")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchInput did not return after cancel")
	}
}

func TestWatchInput_MissingDir(t *testing.T) {
	err := watchInput(context.Background(), filepath.Join(t.TempDir(), "missing", "mols.smi"), time.Millisecond, testutil.NewTestLogger(t), func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func perceived(t *testing.T, s string) *perception.Result {
	t.Helper()
	mol, err := smiles.Parse(s)
	require.NoError(t, err)
	res, err := perception.PerceiveTypes(mol)
	require.NoError(t, err)
	return res
}
