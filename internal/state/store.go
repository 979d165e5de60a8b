// Package state persists batch perception runs in SQLite.
// It tracks runs, the molecules perceived in each run and their per-atom
// type assignments.
package state

import (
	"time"

	"github.com/leapstack-labs/leaptype/pkg/perception"
)

// RunStatus represents the status of a batch run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run is one batch perception over an input source.
type Run struct {
	ID          string
	Source      string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
	// Molecules is the number of molecules saved under the run.
	Molecules int
}

// AssignmentRecord is a persisted per-atom assignment.
type AssignmentRecord struct {
	RunID     string
	MolIndex  int
	Smiles    string
	AtomIndex int
	Symbol    string
	Type      string
	Outcome   perception.Outcome
	Error     string
}

// TypeCount is the number of atoms of one type within a run.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Store is the persistence interface used by the batch command.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateRun(source string) (*Run, error)
	GetRun(id string) (*Run, error)
	CompleteRun(id string, status RunStatus, errMsg string) error
	ListRuns(limit int) ([]*Run, error)

	SaveResult(runID string, molIndex int, smiles string, res *perception.Result) error
	ListAssignments(runID string) ([]AssignmentRecord, error)
	TypeCounts(runID string) ([]TypeCount, error)
}

var _ Store = (*SQLiteStore)(nil)
