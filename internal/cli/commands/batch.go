package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptype/internal/state"
	"github.com/leapstack-labs/leaptype/pkg/molecule"
	"github.com/leapstack-labs/leaptype/pkg/perception"
	"github.com/leapstack-labs/leaptype/pkg/smiles"
)

// BatchOptions holds options for the batch command.
type BatchOptions struct {
	Save  bool
	Watch bool
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &BatchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Perceive atom types for a file of molecules",
		Long: `Perceive atom types for every SMILES in a file, one molecule per line.

Molecules are processed in parallel. Lines that fail to parse are logged and
skipped. A summary of atom and type counts is printed at the end.

With --save, every assignment is stored in the SQLite state database so it
can be queried later. With --metrics, Prometheus metrics for the run are
written to the given file in text exposition format. With --watch, the
batch is re-run whenever the input file changes.`,
		Example: `  # Type a file using all cores
  leaptype batch molecules.smi

  # Persist assignments and export metrics
  leaptype batch molecules.smi --save --state runs.db --metrics leaptype.prom

  # Re-run on every save of the input
  leaptype batch molecules.smi --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntP("workers", "w", 0, "Molecules perceived in parallel (0 = number of CPUs)")
	cmd.Flags().String("state", "", "Path to state database (default .leaptype/state.db)")
	cmd.Flags().String("metrics", "", "Write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Store assignments in the state database")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-run when the input file changes")

	return cmd
}

// batchSummary describes one batch run.
type batchSummary struct {
	Source    string            `json:"source"`
	RunID     string            `json:"run_id,omitempty"`
	Molecules int               `json:"molecules"`
	Failed    int               `json:"failed"`
	Atoms     int               `json:"atoms"`
	Unmatched int               `json:"unmatched"`
	Elapsed   time.Duration     `json:"elapsed_ns"`
	Types     []state.TypeCount `json:"types"`
}

// batchRunner perceives one input file, optionally persisting and
// exporting metrics.
type batchRunner struct {
	cmdCtx    *CommandContext
	path      string
	perceiver *perception.Perceiver
	store     state.Store
	registry  *prometheus.Registry
}

func runBatch(cmd *cobra.Command, path string, opts *BatchOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	runner := &batchRunner{cmdCtx: cmdCtx, path: path}

	var reg prometheus.Registerer
	if cfg.Metrics != "" {
		runner.registry = prometheus.NewRegistry()
		reg = runner.registry
	}
	p, err := cmdCtx.NewPerceiver(reg)
	if err != nil {
		return err
	}
	runner.perceiver = p

	if opts.Save {
		store, err := openStore(cfg.StatePath, cmdCtx.Logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		runner.store = store
	}

	ctx := cmd.Context()
	if err := runner.runAndRender(ctx); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}

	cmdCtx.Renderer.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)
	return watchInput(ctx, path, cfg.WatchDebounce, cmdCtx.Logger, func() {
		if err := runner.runAndRender(ctx); err != nil {
			cmdCtx.Logger.Error("batch re-run failed", slog.String("path", path), slog.Any("error", err))
		}
	})
}

func openStore(path string, logger *slog.Logger) (*state.SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	store := state.NewSQLiteStore(logger)
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func (b *batchRunner) runAndRender(ctx context.Context) error {
	summary, err := b.run(ctx)
	if err != nil {
		return err
	}
	return b.render(summary)
}

func (b *batchRunner) run(ctx context.Context) (*batchSummary, error) {
	logger := b.cmdCtx.Logger
	records, err := readInputFile(b.path)
	if err != nil {
		return nil, err
	}

	summary := &batchSummary{Source: b.path, Molecules: len(records)}
	mols := make([]*molecule.Molecule, len(records))
	for i, rec := range records {
		mol, err := smiles.Parse(rec.Smiles)
		if err != nil {
			logger.Warn("skipping unparsable molecule", slog.Int("line", rec.Line), slog.Any("error", err))
			summary.Failed++
			continue
		}
		mols[i] = mol
	}

	var run *state.Run
	if b.store != nil {
		if run, err = b.store.CreateRun(b.path); err != nil {
			return nil, err
		}
		summary.RunID = run.ID
	}

	start := time.Now()
	results, err := b.perceiver.PerceiveAll(ctx, mols, b.cmdCtx.Cfg.Workers)
	if err != nil {
		b.finish(run, err)
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}
	summary.Elapsed = time.Since(start)

	counts := make(map[string]int)
	for i, res := range results {
		if mols[i] == nil {
			continue
		}
		summary.Atoms += res.Len()
		summary.Unmatched += len(res.Unmatched())
		for name, n := range res.Counts() {
			counts[name] += n
		}
		if b.store != nil {
			if err := b.store.SaveResult(run.ID, i, records[i].Smiles, res); err != nil {
				b.finish(run, err)
				return nil, err
			}
		}
	}

	if b.store != nil {
		b.finish(run, nil)
		if summary.Types, err = b.store.TypeCounts(run.ID); err != nil {
			return nil, err
		}
	} else {
		summary.Types = sortedCounts(counts)
	}

	if b.registry != nil {
		if err := prometheus.WriteToTextfile(b.cmdCtx.Cfg.Metrics, b.registry); err != nil {
			return nil, fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	logger.Info("batch complete",
		slog.String("source", b.path),
		slog.Int("molecules", summary.Molecules),
		slog.Int("atoms", summary.Atoms),
		slog.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// finish records the final status of a persisted run.
func (b *batchRunner) finish(run *state.Run, cause error) {
	if run == nil {
		return
	}
	status, msg := state.RunStatusCompleted, ""
	switch {
	case errors.Is(cause, context.Canceled):
		status, msg = state.RunStatusCancelled, cause.Error()
	case cause != nil:
		status, msg = state.RunStatusFailed, cause.Error()
	}
	if err := b.store.CompleteRun(run.ID, status, msg); err != nil {
		b.cmdCtx.Logger.Error("failed to complete run", slog.String("run", run.ID), slog.Any("error", err))
	}
}

func (b *batchRunner) render(s *batchSummary) error {
	r := b.cmdCtx.Renderer
	if r.IsJSON() {
		return r.JSON(s)
	}

	r.Header("Batch " + s.Source)
	rows := [][]string{
		{"molecules", strconv.Itoa(s.Molecules)},
		{"failed", strconv.Itoa(s.Failed)},
		{"atoms", strconv.Itoa(s.Atoms)},
		{"unmatched", strconv.Itoa(s.Unmatched)},
		{"elapsed", s.Elapsed.Round(time.Microsecond).String()},
	}
	if s.RunID != "" {
		rows = append(rows, []string{"run", s.RunID})
	}
	r.Table([]string{"metric", "value"}, rows)

	typeRows := make([][]string, len(s.Types))
	for i, tc := range s.Types {
		typeRows[i] = []string{tc.Type, strconv.Itoa(tc.Count)}
	}
	r.Table([]string{"type", "atoms"}, typeRows)
	return nil
}

// sortedCounts orders type counts by frequency, then name.
func sortedCounts(counts map[string]int) []state.TypeCount {
	out := make([]state.TypeCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, state.TypeCount{Type: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}
