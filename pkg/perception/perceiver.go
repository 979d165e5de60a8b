// Package perception assigns atom type labels to the atoms of a molecule.
//
// A pass runs the structural analyzer over each atom to collect its facts and
// then asks the matcher for the first descriptor of the type table that
// accepts them. Labels are written onto the atoms and returned as a Result.
// Atoms that no descriptor accepts, or whose bookkeeping is broken, are
// reported with an empty label and never abort the pass.
package perception

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/leaptype/pkg/atomtype"
	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

// Config holds the dependencies of a Perceiver.
type Config struct {
	// Table is the type definition table; nil selects atomtype.Default.
	Table *atomtype.Table
	// Logger receives unmatched (Debug) and malformed (Warn) atoms.
	Logger *slog.Logger
	// Metrics, when set, is updated after every pass.
	Metrics *Metrics
}

// Perceiver runs type perception passes against one table.
// It is safe for concurrent use on distinct molecules.
type Perceiver struct {
	table   *atomtype.Table
	matcher *atomtype.Matcher
	logger  *slog.Logger
	metrics *Metrics
}

// New creates a Perceiver. It fails only when the default table is requested
// and cannot be loaded.
func New(cfg Config) (*Perceiver, error) {
	table := cfg.Table
	if table == nil {
		t, err := atomtype.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load default atom types: %w", err)
		}
		table = t
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Perceiver{
		table:   table,
		matcher: atomtype.NewMatcher(table),
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

// Table returns the table the perceiver matches against.
func (p *Perceiver) Table() *atomtype.Table { return p.table }

// Matcher returns the perceiver's matcher.
func (p *Perceiver) Matcher() *atomtype.Matcher { return p.matcher }

// PerceiveTypes assigns a type to every atom of mol in declaration order and
// overwrites each atom's TypeName. Running it twice yields the same labels.
func (p *Perceiver) PerceiveTypes(mol *molecule.Molecule) *Result {
	start := time.Now()
	an := NewAnalyzer(mol, p.table.Rules())
	res := &Result{Assignments: make([]Assignment, len(mol.Atoms))}
	for i := range mol.Atoms {
		res.Assignments[i] = p.assign(an, mol, i)
	}
	p.metrics.record(res.Assignments, time.Since(start))
	return res
}

// PerceiveType assigns a type to atom i only. Only the ring systems the atom
// touches are analysed. The error is non-nil only for an index outside the
// molecule; unmatched and malformed atoms are reported on the Assignment.
func (p *Perceiver) PerceiveType(mol *molecule.Molecule, i int) (Assignment, error) {
	if i < 0 || i >= len(mol.Atoms) {
		return Assignment{}, fmt.Errorf("atom %d of %d: %w", i, len(mol.Atoms), ErrAtomIndex)
	}
	start := time.Now()
	as := p.assign(NewAnalyzer(mol, p.table.Rules()), mol, i)
	p.metrics.record([]Assignment{as}, time.Since(start))
	return as, nil
}

func (p *Perceiver) assign(an *Analyzer, mol *molecule.Molecule, i int) Assignment {
	as := Assignment{Index: i}
	atom := mol.Atom(i)
	if atom != nil {
		as.Symbol = atom.Symbol
		atom.TypeName = ""
	}

	f, err := an.Facts(i)
	if err != nil {
		p.logger.Warn("skipping malformed atom", "atom", i, "error", err)
		as.Err = err
		return as
	}
	as.Facts = f

	d, err := p.matcher.Match(f)
	if err != nil {
		p.logger.Debug("no atom type matched", "atom", i, "symbol", as.Symbol, "error", err)
		as.Err = fmt.Errorf("atom %d: %w", i, err)
		return as
	}
	as.Type = d.Name
	as.Matched = true
	atom.TypeName = d.Name
	return as
}

var (
	defaultOnce      sync.Once
	defaultPerceiver *Perceiver
	defaultErr       error
)

func getDefault() (*Perceiver, error) {
	defaultOnce.Do(func() {
		defaultPerceiver, defaultErr = New(Config{})
	})
	return defaultPerceiver, defaultErr
}

// PerceiveTypes runs a pass with the built-in table. The error is non-nil only
// when the built-in table is invalid.
func PerceiveTypes(mol *molecule.Molecule) (*Result, error) {
	p, err := getDefault()
	if err != nil {
		return nil, err
	}
	return p.PerceiveTypes(mol), nil
}

// PerceiveType runs a single-atom query with the built-in table.
func PerceiveType(mol *molecule.Molecule, i int) (Assignment, error) {
	p, err := getDefault()
	if err != nil {
		return Assignment{}, err
	}
	return p.PerceiveType(mol, i)
}
