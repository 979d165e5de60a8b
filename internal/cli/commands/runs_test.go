package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptype/internal/cli/config"
	"github.com/leapstack-labs/leaptype/internal/cli/output"
	"github.com/leapstack-labs/leaptype/internal/state"
)

func seedRuns(t *testing.T, path string) string {
	t.Helper()
	cmdCtx, _ := newTestContext(t, config.Defaults(), output.ModeJSON)
	store, err := openStore(path, cmdCtx.Logger)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.CreateRun("old.smi")
	require.NoError(t, err)
	run, err := store.CreateRun("acid.smi")
	require.NoError(t, err)
	require.NoError(t, store.SaveResult(run.ID, 0, "CC(=O)O", perceived(t, "CC(=O)O")))
	require.NoError(t, store.CompleteRun(run.ID, state.RunStatusCompleted, ""))
	return run.ID
}

func TestRuns_OpenMissingStore(t *testing.T) {
	cfg := config.Defaults()
	cfg.StatePath = filepath.Join(t.TempDir(), "missing.db")
	cmdCtx, _ := newTestContext(t, cfg, output.ModeJSON)

	_, err := openExistingStore(cmdCtx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no state database")
	assert.NoFileExists(t, cfg.StatePath)
}

func TestListRuns(t *testing.T) {
	cfg := config.Defaults()
	cfg.StatePath = filepath.Join(t.TempDir(), "state.db")
	seedRuns(t, cfg.StatePath)

	cmdCtx, tr := newTestContext(t, cfg, output.ModeJSON)
	store, err := openExistingStore(cmdCtx)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, listRuns(cmdCtx, store, 0))
	var runs []runJSON
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &runs))
	require.Len(t, runs, 2)

	sources := []string{runs[0].Source, runs[1].Source}
	assert.ElementsMatch(t, []string{"old.smi", "acid.smi"}, sources)
}

func TestShowRun(t *testing.T) {
	cfg := config.Defaults()
	cfg.StatePath = filepath.Join(t.TempDir(), "state.db")
	id := seedRuns(t, cfg.StatePath)

	cmdCtx, tr := newTestContext(t, cfg, output.ModeJSON)
	store, err := openExistingStore(cmdCtx)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, showRun(cmdCtx, store, id, &RunsOptions{Assignments: true}))
	var got runJSON
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))

	assert.Equal(t, "acid.smi", got.Source)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, 1, got.Molecules)
	require.NotNil(t, got.CompletedAt)
	assert.Len(t, got.Types, 4)
	require.Len(t, got.Assignments, 4)
	assert.Equal(t, "C.sp2", got.Assignments[1].Type)
	assert.Equal(t, "CC(=O)O", got.Assignments[1].Smiles)

	err = showRun(cmdCtx, store, "no-such-run", &RunsOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestShowRun_Text(t *testing.T) {
	cfg := config.Defaults()
	cfg.StatePath = filepath.Join(t.TempDir(), "state.db")
	id := seedRuns(t, cfg.StatePath)

	cmdCtx, tr := newTestContext(t, cfg, output.ModeMarkdown)
	store, err := openExistingStore(cmdCtx)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, showRun(cmdCtx, store, id, &RunsOptions{Assignments: true}))
	assert.Contains(t, tr.Output(), "Run "+id)
	assert.Contains(t, tr.Output(), "O.sp3")
	assert.Contains(t, tr.Output(), "acid.smi")
}
