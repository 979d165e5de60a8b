package state

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leaptype/pkg/perception"
)

// SaveResult stores the assignments of one molecule under a run.
// The molecule and all of its atoms are written in a single transaction.
func (s *SQLiteStore) SaveResult(runID string, molIndex int, smiles string, res *perception.Result) (err error) {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("molecule %d: nil result", molIndex)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.Exec(
		`INSERT INTO molecules (run_id, mol_index, smiles, atom_count, unmatched) VALUES (?, ?, ?, ?, ?)`,
		runID, molIndex, smiles, res.Len(), len(res.Unmatched()),
	)
	if err != nil {
		return fmt.Errorf("failed to save molecule %d: %w", molIndex, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO assignments (run_id, mol_index, atom_index, symbol, type_name, outcome, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range res.Assignments {
		var errMsg sql.NullString
		if a.Err != nil {
			errMsg = sql.NullString{String: a.Err.Error(), Valid: true}
		}
		if _, err = stmt.Exec(runID, molIndex, a.Index, a.Symbol, a.Type, string(a.Outcome()), errMsg); err != nil {
			return fmt.Errorf("failed to save atom %d of molecule %d: %w", a.Index, molIndex, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit molecule %d: %w", molIndex, err)
	}
	s.logger.Debug("saved molecule",
		slog.String("run", runID),
		slog.Int("molecule", molIndex),
		slog.Int("atoms", res.Len()),
	)
	return nil
}

// ListAssignments returns every stored assignment of a run ordered by
// molecule and atom.
func (s *SQLiteStore) ListAssignments(runID string) ([]AssignmentRecord, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT a.run_id, a.mol_index, m.smiles, a.atom_index, a.symbol, a.type_name, a.outcome, a.error
		FROM assignments a
		JOIN molecules m ON m.run_id = a.run_id AND m.mol_index = a.mol_index
		WHERE a.run_id = ?
		ORDER BY a.mol_index, a.atom_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var out []AssignmentRecord
	for rows.Next() {
		var rec AssignmentRecord
		var outcome string
		var errMsg sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.MolIndex, &rec.Smiles, &rec.AtomIndex,
			&rec.Symbol, &rec.Type, &outcome, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		rec.Outcome = perception.Outcome(outcome)
		rec.Error = errMsg.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return out, nil
}

// TypeCounts returns how many atoms of each type a run assigned, most
// frequent first. Unmatched atoms are not counted.
func (s *SQLiteStore) TypeCounts(runID string) ([]TypeCount, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT type_name, COUNT(*) AS n
		FROM assignments
		WHERE run_id = ? AND outcome = ?
		GROUP BY type_name
		ORDER BY n DESC, type_name`, runID, string(perception.OutcomeMatched))
	if err != nil {
		return nil, fmt.Errorf("failed to count types: %w", err)
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count types: %w", err)
	}
	return out, nil
}
