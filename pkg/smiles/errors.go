package smiles

import "fmt"

// ParseError represents a SMILES syntax error with its byte offset.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("smiles parse error at offset %d: %s", e.Pos, e.Message)
}

// Common error messages
const (
	ErrUnexpectedChar     = "unexpected character %q"
	ErrUnterminatedAtom   = "unterminated bracket atom"
	ErrUnknownElement     = "unknown element %q"
	ErrNoPrecedingAtom    = "%s must follow an atom"
	ErrDanglingBond       = "bond symbol %q is not followed by an atom"
	ErrUnbalancedBranch   = "unbalanced branch parentheses"
	ErrUnclosedRing       = "ring closure %d is never closed"
	ErrConflictingRing    = "ring closure %d has conflicting bond orders"
	ErrRingSelfBond       = "ring closure %d bonds an atom to itself"
	ErrUnsupportedBond    = "bond order %q is not supported"
	ErrInvalidRingNumber  = "invalid ring closure number"
	ErrEmptyInput         = "empty SMILES string"
	ErrDuplicateRingBond  = "ring closure %d duplicates an existing bond"
	ErrMultipleBondTokens = "consecutive bond symbols"
)
