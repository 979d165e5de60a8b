package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptype/internal/state"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit       int
	Assignments bool
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List batch runs saved in the state database",
		Long: `List batch runs stored with 'batch --save', newest first.

With a run ID, show that run and its type counts. Add --assignments to print
every stored per-atom assignment of the run.`,
		Example: `  # Recent runs
  leaptype runs

  # One run with its type counts
  leaptype runs 6f1c...

  # Every assignment of a run as JSON
  leaptype runs 6f1c... --assignments -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, err := openExistingStore(cmdCtx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				return showRun(cmdCtx, store, args[0], opts)
			}
			return listRuns(cmdCtx, store, opts.Limit)
		},
	}

	cmd.Flags().String("state", "", "Path to state database (default .leaptype/state.db)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to list (0 = all)")
	cmd.Flags().BoolVar(&opts.Assignments, "assignments", false, "Print every stored assignment of the run")

	return cmd
}

// openExistingStore opens the state database without creating it.
func openExistingStore(cmdCtx *CommandContext) (*state.SQLiteStore, error) {
	path := cmdCtx.Cfg.StatePath
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no state database at %s (run 'leaptype batch --save' first)", path)
	}
	return openStore(path, cmdCtx.Logger)
}

type runJSON struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	Status      string            `json:"status"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Error       string            `json:"error,omitempty"`
	Molecules   int               `json:"molecules"`
	Types       []state.TypeCount `json:"types,omitempty"`
	Assignments []assignmentJSON  `json:"assignments,omitempty"`
}

type assignmentJSON struct {
	Molecule int    `json:"molecule"`
	Smiles   string `json:"smiles"`
	Atom     int    `json:"atom"`
	Symbol   string `json:"symbol"`
	Type     string `json:"type"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
}

func toRunJSON(run *state.Run) runJSON {
	return runJSON{
		ID:          run.ID,
		Source:      run.Source,
		Status:      string(run.Status),
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Error:       run.Error,
		Molecules:   run.Molecules,
	}
}

func listRuns(cmdCtx *CommandContext, store state.Store, limit int) error {
	r := cmdCtx.Renderer
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	if r.IsJSON() {
		out := make([]runJSON, len(runs))
		for i, run := range runs {
			out[i] = toRunJSON(run)
		}
		return r.JSON(out)
	}

	r.Header(fmt.Sprintf("Runs (%d)", len(runs)))
	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			strconv.Itoa(run.Molecules),
			run.Source,
		}
	}
	r.Table([]string{"id", "started", "status", "molecules", "source"}, rows)
	return nil
}

func showRun(cmdCtx *CommandContext, store state.Store, id string, opts *RunsOptions) error {
	r := cmdCtx.Renderer
	run, err := store.GetRun(id)
	if err != nil {
		return err
	}
	counts, err := store.TypeCounts(id)
	if err != nil {
		return err
	}
	var records []state.AssignmentRecord
	if opts.Assignments {
		if records, err = store.ListAssignments(id); err != nil {
			return err
		}
	}

	if r.IsJSON() {
		out := toRunJSON(run)
		out.Types = counts
		for _, rec := range records {
			out.Assignments = append(out.Assignments, assignmentJSON{
				Molecule: rec.MolIndex,
				Smiles:   rec.Smiles,
				Atom:     rec.AtomIndex,
				Symbol:   rec.Symbol,
				Type:     rec.Type,
				Outcome:  string(rec.Outcome),
				Error:    rec.Error,
			})
		}
		return r.JSON(out)
	}

	r.Header("Run " + run.ID)
	rows := [][]string{
		{"source", run.Source},
		{"status", string(run.Status)},
		{"started", run.StartedAt.Local().Format(time.DateTime)},
		{"molecules", strconv.Itoa(run.Molecules)},
	}
	if run.CompletedAt != nil {
		rows = append(rows, []string{"completed", run.CompletedAt.Local().Format(time.DateTime)})
	}
	if run.Error != "" {
		rows = append(rows, []string{"error", run.Error})
	}
	r.Table([]string{"field", "value"}, rows)

	typeRows := make([][]string, len(counts))
	for i, tc := range counts {
		typeRows[i] = []string{tc.Type, strconv.Itoa(tc.Count)}
	}
	r.Table([]string{"type", "atoms"}, typeRows)

	if opts.Assignments {
		assignRows := make([][]string, len(records))
		for i, rec := range records {
			typ := rec.Type
			if typ == "" {
				typ = "-"
			}
			assignRows[i] = []string{
				strconv.Itoa(rec.MolIndex), strconv.Itoa(rec.AtomIndex), rec.Symbol, typ, string(rec.Outcome),
			}
		}
		r.Table([]string{"molecule", "atom", "symbol", "type", "outcome"}, assignRows)
	}
	return nil
}
