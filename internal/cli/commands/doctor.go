package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptype/internal/cli/config"
	"github.com/leapstack-labs/leaptype/pkg/atomtype"
	"github.com/leapstack-labs/leaptype/pkg/perception"
	"github.com/leapstack-labs/leaptype/pkg/smiles"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration, catalog and state database",
		Long: `Run a health check of the leaptype setup.

The doctor command reports:
- Which configuration file is in use
- Whether the atom type catalog loads and which elements it covers
- Whether a set of reference molecules is fully typed by the catalog
- The schema version of the state database, if one exists

Exits with an error when any check fails.`,
		Example: `  # Run health check
  leaptype doctor

  # Output as JSON
  leaptype doctor -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(NewCommandContext(cmd))
		},
	}
}

// Check statuses.
const (
	StatusPass  = "pass"
	StatusWarn  = "warn"
	StatusError = "error"
)

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks   []HealthCheck `json:"checks"`
	Warnings int           `json:"warnings"`
	Errors   int           `json:"errors"`
}

// commonElements should be covered by any general purpose catalog.
var commonElements = []string{"H", "C", "N", "O", "S", "P", "F", "Cl", "Br", "I"}

// referenceMolecules exercise aromaticity, charges and hypervalence.
var referenceMolecules = []string{
	"CC(=O)O",
	"c1ccncc1",
	"c1cc[nH]c1",
	"C[N+](=O)[O-]",
	"CS(=O)(=O)N",
	"OP(=O)(O)O",
	"[NH4+].[Cl-]",
	"C#N",
}

func runDoctor(cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer

	var checks []HealthCheck
	checks = append(checks, checkConfig())
	table, catalog := checkCatalog(cmdCtx)
	checks = append(checks, catalog)
	if table != nil {
		checks = append(checks, checkCoverage(table), checkReference(cmdCtx, table))
	}
	checks = append(checks, checkState(cmdCtx))

	out := &DoctorOutput{Checks: checks}
	for _, c := range checks {
		switch c.Status {
		case StatusWarn:
			out.Warnings++
		case StatusError:
			out.Errors++
		}
	}

	if r.IsJSON() {
		if err := r.JSON(out); err != nil {
			return err
		}
	} else {
		renderDoctor(cmdCtx, out)
	}

	if out.Errors > 0 {
		return fmt.Errorf("doctor found %d failing checks", out.Errors)
	}
	return nil
}

func checkConfig() HealthCheck {
	used := config.GetConfigFileUsed()
	if used == "" {
		return HealthCheck{Name: "config", Status: StatusPass, Message: "no config file, using defaults"}
	}
	return HealthCheck{Name: "config", Status: StatusPass, Message: used}
}

func checkCatalog(cmdCtx *CommandContext) (*atomtype.Table, HealthCheck) {
	table, err := cmdCtx.LoadTable()
	if err != nil {
		hc := HealthCheck{Name: "catalog", Status: StatusError, Message: err.Error()}
		var cfgErr *atomtype.ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Descriptor != "" {
			hc.Details = []string{"descriptor " + cfgErr.Descriptor}
		}
		return nil, hc
	}
	return table, HealthCheck{
		Name:    "catalog",
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %d descriptors for %d elements", table.Source(), table.Len(), len(table.Elements())),
	}
}

func checkCoverage(table *atomtype.Table) HealthCheck {
	var missing []string
	for _, el := range commonElements {
		if len(table.ForElement(el)) == 0 {
			missing = append(missing, el)
		}
	}
	if len(missing) > 0 {
		return HealthCheck{
			Name:    "coverage",
			Status:  StatusWarn,
			Message: "no descriptors for " + strings.Join(missing, ", "),
		}
	}
	return HealthCheck{Name: "coverage", Status: StatusPass, Message: "common organic elements covered"}
}

func checkReference(cmdCtx *CommandContext, table *atomtype.Table) HealthCheck {
	p, err := perception.New(perception.Config{Table: table, Logger: cmdCtx.Logger})
	if err != nil {
		return HealthCheck{Name: "reference", Status: StatusError, Message: err.Error()}
	}

	var details []string
	for _, s := range referenceMolecules {
		mol, err := smiles.Parse(s)
		if err != nil {
			details = append(details, fmt.Sprintf("%s: %v", s, err))
			continue
		}
		res := p.PerceiveTypes(mol)
		if u := len(res.Unmatched()); u > 0 {
			details = append(details, fmt.Sprintf("%s: %d of %d atoms unmatched", s, u, res.Len()))
		}
	}
	if len(details) > 0 {
		return HealthCheck{
			Name:    "reference",
			Status:  StatusWarn,
			Message: fmt.Sprintf("%d of %d reference molecules not fully typed", len(details), len(referenceMolecules)),
			Details: details,
		}
	}
	return HealthCheck{
		Name:    "reference",
		Status:  StatusPass,
		Message: fmt.Sprintf("%d reference molecules fully typed", len(referenceMolecules)),
	}
}

func checkState(cmdCtx *CommandContext) HealthCheck {
	path := cmdCtx.Cfg.StatePath
	if _, err := os.Stat(path); err != nil {
		return HealthCheck{Name: "state", Status: StatusPass, Message: path + " not created yet"}
	}
	store, err := openStore(path, cmdCtx.Logger)
	if err != nil {
		return HealthCheck{Name: "state", Status: StatusError, Message: err.Error()}
	}
	defer func() { _ = store.Close() }()

	version, err := store.GetMigrationVersion()
	if err != nil {
		return HealthCheck{Name: "state", Status: StatusError, Message: err.Error()}
	}
	runs, err := store.ListRuns(0)
	if err != nil {
		return HealthCheck{Name: "state", Status: StatusError, Message: err.Error()}
	}
	return HealthCheck{
		Name:    "state",
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: schema version %d, %d runs", path, version, len(runs)),
	}
}

func renderDoctor(cmdCtx *CommandContext, out *DoctorOutput) {
	r := cmdCtx.Renderer
	r.Header("leaptype health report")

	rows := make([][]string, 0, len(out.Checks))
	for _, c := range out.Checks {
		rows = append(rows, []string{c.Name, strings.ToUpper(c.Status), c.Message})
		for _, d := range c.Details {
			rows = append(rows, []string{"", "", "- " + d})
		}
	}
	r.Table([]string{"check", "status", "message"}, rows)
	r.Printf("%d warnings, %d errors\n", out.Warnings, out.Errors)
}
