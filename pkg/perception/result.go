package perception

import (
	"errors"

	"github.com/leapstack-labs/leaptype/pkg/atomtype"
	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

var (
	// ErrMalformedGraph marks atoms whose bond bookkeeping is inconsistent.
	ErrMalformedGraph = molecule.ErrMalformed

	// ErrAtomIndex is returned for a single-atom query outside the molecule.
	ErrAtomIndex = errors.New("atom index out of range")
)

// Outcome classifies an assignment.
type Outcome string

// Assignment outcomes.
const (
	OutcomeMatched   Outcome = "matched"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeMalformed Outcome = "malformed"
)

// Assignment is the perceived type of one atom.
type Assignment struct {
	Index  int
	Symbol string
	// Type is the descriptor name, empty when no descriptor matched.
	Type    string
	Matched bool
	Facts   atomtype.Facts
	// Err wraps atomtype.ErrUnmatched or ErrMalformedGraph when Matched is false.
	Err error
}

// Outcome reports how the assignment was resolved.
func (a Assignment) Outcome() Outcome {
	switch {
	case a.Matched:
		return OutcomeMatched
	case errors.Is(a.Err, ErrMalformedGraph):
		return OutcomeMalformed
	default:
		return OutcomeUnmatched
	}
}

// Result holds one assignment per atom, in atom order.
type Result struct {
	Assignments []Assignment
}

// Len returns the number of assignments.
func (r *Result) Len() int { return len(r.Assignments) }

// Types returns the type labels in atom order; unmatched atoms yield "".
func (r *Result) Types() []string {
	out := make([]string, len(r.Assignments))
	for i, a := range r.Assignments {
		out[i] = a.Type
	}
	return out
}

// Unmatched returns the assignments that did not resolve to a type.
func (r *Result) Unmatched() []Assignment {
	var out []Assignment
	for _, a := range r.Assignments {
		if !a.Matched {
			out = append(out, a)
		}
	}
	return out
}

// Complete reports whether every atom received a type.
func (r *Result) Complete() bool {
	for _, a := range r.Assignments {
		if !a.Matched {
			return false
		}
	}
	return true
}

// Counts returns how many atoms received each type label.
func (r *Result) Counts() map[string]int {
	out := make(map[string]int)
	for _, a := range r.Assignments {
		if a.Matched {
			out[a.Type]++
		}
	}
	return out
}

// Outcomes tallies assignments by outcome.
func (r *Result) Outcomes() map[Outcome]int {
	out := make(map[Outcome]int, 3)
	for _, a := range r.Assignments {
		out[a.Outcome()]++
	}
	return out
}
