// Package smiles reads SMILES line notation into molecular graphs.
//
// The reader covers the organic subset, bracket atoms (isotope, hydrogen count,
// charge, atom class), explicit and aromatic bonds, branches, ring closures
// including %nn, and disconnected components. Stereo marks are accepted and
// discarded. Implicit hydrogens are assigned from default valences.
package smiles

import (
	"fmt"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

type openRing struct {
	atom  int
	order molecule.BondOrder
	pos   int
}

// Parser builds a molecule from SMILES tokens.
type Parser struct {
	lex *Lexer
	cur Token

	mol      *molecule.Molecule
	prev     int
	pending  Token
	hasBond  bool
	branches []int
	rings    map[int]openRing
}

// NewParser creates a parser over input.
func NewParser(input string) *Parser {
	p := &Parser{
		lex:   NewLexer(input),
		mol:   molecule.New(),
		prev:  -1,
		rings: make(map[int]openRing),
	}
	p.next()
	return p
}

// Parse reads a SMILES string into a new molecule.
func Parse(input string) (*molecule.Molecule, error) {
	if input == "" {
		return nil, &ParseError{Pos: 0, Message: ErrEmptyInput}
	}
	return NewParser(input).Parse()
}

// MustParse is like Parse but panics on error. Intended for tests and fixtures.
func MustParse(input string) *molecule.Molecule {
	m, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return m
}

func (p *Parser) next() {
	p.cur = p.lex.NextToken()
}

func (p *Parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Parse consumes the whole input.
func (p *Parser) Parse() (*molecule.Molecule, error) {
	for p.cur.Type != TokenEOF {
		if err := p.parseToken(p.cur); err != nil {
			return nil, err
		}
		p.next()
	}

	if p.hasBond {
		return nil, p.errorf(p.pending.Pos, ErrDanglingBond, p.pending.Literal)
	}
	if len(p.branches) > 0 {
		return nil, p.errorf(p.cur.Pos, ErrUnbalancedBranch)
	}
	if len(p.rings) > 0 {
		first := -1
		for n := range p.rings {
			if first < 0 || n < first {
				first = n
			}
		}
		return nil, p.errorf(p.rings[first].pos, ErrUnclosedRing, first)
	}

	assignImplicitHydrogens(p.mol)
	return p.mol, nil
}

func (p *Parser) parseToken(tok Token) error {
	switch tok.Type {
	case TokenIllegal:
		return &ParseError{Pos: tok.Pos, Message: tok.Err}
	case TokenAtom:
		return p.parseAtom(tok)
	case TokenBond:
		if p.hasBond {
			return p.errorf(tok.Pos, ErrMultipleBondTokens)
		}
		if p.prev < 0 {
			return p.errorf(tok.Pos, ErrNoPrecedingAtom, "bond")
		}
		p.pending, p.hasBond = tok, true
	case TokenBranchOpen:
		if p.prev < 0 {
			return p.errorf(tok.Pos, ErrNoPrecedingAtom, "branch")
		}
		p.branches = append(p.branches, p.prev)
	case TokenBranchClose:
		if len(p.branches) == 0 {
			return p.errorf(tok.Pos, ErrUnbalancedBranch)
		}
		if p.hasBond {
			return p.errorf(p.pending.Pos, ErrDanglingBond, p.pending.Literal)
		}
		p.prev = p.branches[len(p.branches)-1]
		p.branches = p.branches[:len(p.branches)-1]
	case TokenRing:
		return p.parseRing(tok)
	case TokenDot:
		if p.hasBond {
			return p.errorf(p.pending.Pos, ErrDanglingBond, p.pending.Literal)
		}
		p.prev = -1
	}
	return nil
}

func (p *Parser) parseAtom(tok Token) error {
	spec := tok.Atom
	atom := molecule.NewAtom(spec.Symbol)
	atom.Aromatic = spec.Aromatic
	atom.Charge = spec.Charge
	if spec.Bracket {
		atom.ExplicitH = spec.HCount
		atom.ImplicitH = 0
	}
	idx := p.mol.AddAtom(atom)

	if p.prev >= 0 {
		order := p.defaultOrder(p.prev, idx)
		if p.hasBond {
			order = p.pending.Order
		}
		if _, err := p.mol.AddBond(p.prev, idx, order); err != nil {
			return p.errorf(tok.Pos, "%s", err.Error())
		}
	}
	p.prev = idx
	p.hasBond = false
	return nil
}

func (p *Parser) parseRing(tok Token) error {
	if p.prev < 0 {
		return p.errorf(tok.Pos, ErrNoPrecedingAtom, "ring closure")
	}
	order := molecule.BondUnset
	if p.hasBond {
		order = p.pending.Order
		p.hasBond = false
	}

	open, ok := p.rings[tok.Ring]
	if !ok {
		p.rings[tok.Ring] = openRing{atom: p.prev, order: order, pos: tok.Pos}
		return nil
	}
	delete(p.rings, tok.Ring)

	if open.atom == p.prev {
		return p.errorf(tok.Pos, ErrRingSelfBond, tok.Ring)
	}
	switch {
	case order == molecule.BondUnset && open.order == molecule.BondUnset:
		order = p.defaultOrder(open.atom, p.prev)
	case order == molecule.BondUnset:
		order = open.order
	case open.order != molecule.BondUnset && open.order != order:
		return p.errorf(tok.Pos, ErrConflictingRing, tok.Ring)
	}
	if _, exists := p.mol.BondBetween(open.atom, p.prev); exists {
		return p.errorf(tok.Pos, ErrDuplicateRingBond, tok.Ring)
	}
	if _, err := p.mol.AddBond(open.atom, p.prev, order); err != nil {
		return p.errorf(tok.Pos, "%s", err.Error())
	}
	return nil
}

// defaultOrder is aromatic between two aromatic atoms and single otherwise.
func (p *Parser) defaultOrder(a, b int) molecule.BondOrder {
	if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		return molecule.BondAromatic
	}
	return molecule.BondSingle
}

// assignImplicitHydrogens fills ImplicitH for organic-subset atoms.
// Bracket atoms already carry an explicit count.
func assignImplicitHydrogens(m *molecule.Molecule) {
	for _, atom := range m.Atoms {
		if atom.ImplicitH != molecule.Unset {
			continue
		}
		sum := 0
		for _, bi := range atom.Bonds {
			sum += m.Bonds[bi].Order.Multiplicity()
		}
		atom.ImplicitH = molecule.DefaultImplicitHydrogens(atom.Symbol, atom.Charge, atom.Aromatic, sum)
	}
}
