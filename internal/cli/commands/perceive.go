package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaptype/pkg/atomtype"
	"github.com/leapstack-labs/leaptype/pkg/perception"
	"github.com/leapstack-labs/leaptype/pkg/smiles"
)

// PerceiveOptions holds options for the perceive command.
type PerceiveOptions struct {
	Strict  bool
	Explain bool
}

// NewPerceiveCommand creates the perceive command.
func NewPerceiveCommand() *cobra.Command {
	opts := &PerceiveOptions{}
	cmd := &cobra.Command{
		Use:   "perceive [smiles...]",
		Short: "Print the atom type of every atom",
		Long: `Perceive atom types for one or more molecules given as SMILES.

With no arguments, SMILES are read from standard input, one per line.
Unmatched atoms are printed with an empty type.`,
		Example: `  # Type a single molecule
  leaptype perceive 'CN(C)CCc1c[nH]c2ccccc12'

  # Show every descriptor that would accept each atom
  leaptype perceive --explain 'c1ccncc1'

  # Fail when any atom is left untyped
  leaptype perceive --strict -o json < molecules.smi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerceive(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error when any atom is unmatched")
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "List every descriptor accepting each atom")

	return cmd
}

type atomJSON struct {
	Index         int      `json:"index"`
	Symbol        string   `json:"symbol"`
	Type          string   `json:"type"`
	Outcome       string   `json:"outcome"`
	Charge        int      `json:"charge"`
	Neighbors     int      `json:"neighbors"`
	Hydrogens     int      `json:"hydrogens"`
	Hybridization string   `json:"hybridization"`
	Aromatic      bool     `json:"aromatic"`
	SmallestRing  int      `json:"smallest_ring,omitempty"`
	Candidates    []string `json:"candidates,omitempty"`
	Error         string   `json:"error,omitempty"`
}

type moleculeJSON struct {
	Smiles   string     `json:"smiles"`
	Name     string     `json:"name,omitempty"`
	Complete bool       `json:"complete"`
	Atoms    []atomJSON `json:"atoms"`
}

func runPerceive(cmd *cobra.Command, args []string, opts *PerceiveOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	records := make([]inputRecord, len(args))
	for i, arg := range args {
		records[i] = inputRecord{Line: i + 1, Smiles: arg}
	}
	if len(args) == 0 {
		var err error
		if records, err = readInput(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	p, err := cmdCtx.NewPerceiver(nil)
	if err != nil {
		return err
	}

	var out []moleculeJSON
	unmatched, total := 0, 0
	for _, rec := range records {
		mol, err := smiles.Parse(rec.Smiles)
		if err != nil {
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}
		res := p.PerceiveTypes(mol)
		total += res.Len()
		unmatched += len(res.Unmatched())

		var candidates [][]string
		if opts.Explain {
			candidates = explain(p.Matcher(), res)
		}

		if r.IsJSON() {
			out = append(out, toMoleculeJSON(rec, res, candidates))
			continue
		}

		title := rec.Smiles
		if rec.Name != "" {
			title = rec.Name + "  " + rec.Smiles
		}
		r.Header(title)
		headers, rows := atomRows(cmdCtx.Cfg.Columns, res, candidates)
		r.Table(headers, rows)
		if u := len(res.Unmatched()); u > 0 {
			r.Printf("%d of %d atoms unmatched\n\n", u, res.Len())
		}
	}

	if r.IsJSON() {
		if err := r.JSON(out); err != nil {
			return err
		}
	}

	if opts.Strict && unmatched > 0 {
		return fmt.Errorf("%d of %d atoms unmatched", unmatched, total)
	}
	return nil
}

// explain lists, per atom, every descriptor that accepts its facts.
func explain(m *atomtype.Matcher, res *perception.Result) [][]string {
	out := make([][]string, res.Len())
	for i, a := range res.Assignments {
		if a.Outcome() == perception.OutcomeMalformed {
			continue
		}
		for _, d := range m.Candidates(a.Facts) {
			out[i] = append(out[i], d.Name)
		}
	}
	return out
}

func atomRows(columns []string, res *perception.Result, candidates [][]string) ([]string, [][]string) {
	headers := append([]string(nil), columns...)
	if candidates != nil {
		headers = append(headers, "candidates")
	}

	rows := make([][]string, 0, res.Len())
	for i, a := range res.Assignments {
		row := make([]string, 0, len(headers))
		for _, col := range columns {
			row = append(row, atomColumn(col, a))
		}
		if candidates != nil {
			row = append(row, strings.Join(candidates[i], ", "))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func atomColumn(col string, a perception.Assignment) string {
	f := a.Facts
	switch col {
	case "atom":
		return strconv.Itoa(a.Index)
	case "symbol":
		return a.Symbol
	case "type":
		if !a.Matched {
			return "-"
		}
		return a.Type
	case "charge":
		return strconv.Itoa(f.Charge)
	case "neighbors":
		return strconv.Itoa(f.Neighbors)
	case "hydrogens":
		return strconv.Itoa(f.Hydrogens)
	case "hybridization":
		return f.Hybridization.String()
	case "aromatic":
		return strconv.FormatBool(f.Aromatic)
	case "ring":
		if f.SmallestRing == 0 {
			return "-"
		}
		return strconv.Itoa(f.SmallestRing)
	case "outcome":
		return string(a.Outcome())
	}
	return ""
}

func toMoleculeJSON(rec inputRecord, res *perception.Result, candidates [][]string) moleculeJSON {
	m := moleculeJSON{
		Smiles:   rec.Smiles,
		Name:     rec.Name,
		Complete: res.Complete(),
		Atoms:    make([]atomJSON, res.Len()),
	}
	for i, a := range res.Assignments {
		aj := atomJSON{
			Index:         a.Index,
			Symbol:        a.Symbol,
			Type:          a.Type,
			Outcome:       string(a.Outcome()),
			Charge:        a.Facts.Charge,
			Neighbors:     a.Facts.Neighbors,
			Hydrogens:     a.Facts.Hydrogens,
			Hybridization: a.Facts.Hybridization.String(),
			Aromatic:      a.Facts.Aromatic,
			SmallestRing:  a.Facts.SmallestRing,
		}
		if candidates != nil {
			aj.Candidates = candidates[i]
		}
		if a.Err != nil {
			aj.Error = a.Err.Error()
		}
		m.Atoms[i] = aj
	}
	return m
}
