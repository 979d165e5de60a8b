package smiles

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaptype/pkg/molecule"
)

// TokenType identifies the kind of a SMILES token.
type TokenType int

// Token types.
const (
	TokenEOF TokenType = iota
	TokenIllegal
	TokenAtom
	TokenBond
	TokenBranchOpen
	TokenBranchClose
	TokenRing
	TokenDot
)

// AtomSpec is the content of an atom token.
type AtomSpec struct {
	Symbol   string
	Aromatic bool
	Bracket  bool
	Isotope  int
	HCount   int
	Charge   int
	Class    int
}

// Token is a lexical unit of a SMILES string.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int

	Atom  *AtomSpec          // TokenAtom
	Order molecule.BondOrder // TokenBond
	Ring  int                // TokenRing
	Err   string             // TokenIllegal
}

// organicSubset maps bare symbols to element symbols; lowercase forms are aromatic.
var organicSubset = map[string]string{
	"B": "B", "C": "C", "N": "N", "O": "O", "P": "P", "S": "S",
	"F": "F", "Cl": "Cl", "Br": "Br", "I": "I",
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
}

// aromaticBracket lists lowercase symbols accepted inside brackets.
var aromaticBracket = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te",
}

var chiralClasses = map[string]bool{"TH": true, "AL": true, "SP": true, "TB": true, "OH": true}

// Lexer tokenizes a SMILES string.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	pos := l.pos

	switch ch := l.ch; {
	case ch == 0:
		return Token{Type: TokenEOF, Pos: pos}
	case ch == '(':
		l.readChar()
		return Token{Type: TokenBranchOpen, Literal: "(", Pos: pos}
	case ch == ')':
		l.readChar()
		return Token{Type: TokenBranchClose, Literal: ")", Pos: pos}
	case ch == '.':
		l.readChar()
		return Token{Type: TokenDot, Literal: ".", Pos: pos}
	case strings.IndexByte("-=#:/\\$", ch) >= 0:
		return l.readBond(pos)
	case isDigit(ch):
		l.readChar()
		return Token{Type: TokenRing, Literal: string(ch), Ring: int(ch - '0'), Pos: pos}
	case ch == '%':
		return l.readPercentRing(pos)
	case ch == '[':
		return l.readBracketAtom(pos)
	default:
		return l.readOrganicAtom(pos)
	}
}

func (l *Lexer) readBond(pos int) Token {
	ch := l.ch
	l.readChar()
	tok := Token{Type: TokenBond, Literal: string(ch), Pos: pos}
	switch ch {
	case '-', '/', '\\':
		tok.Order = molecule.BondSingle
	case '=':
		tok.Order = molecule.BondDouble
	case '#':
		tok.Order = molecule.BondTriple
	case ':':
		tok.Order = molecule.BondAromatic
	default:
		return Token{Type: TokenIllegal, Literal: string(ch), Pos: pos, Err: fmt.Sprintf(ErrUnsupportedBond, string(ch))}
	}
	return tok
}

func (l *Lexer) readPercentRing(pos int) Token {
	l.readChar()
	if !isDigit(l.ch) || !isDigit(l.peekChar()) {
		return Token{Type: TokenIllegal, Literal: "%", Pos: pos, Err: ErrInvalidRingNumber}
	}
	n := int(l.ch-'0')*10 + int(l.peekChar()-'0')
	l.readChar()
	l.readChar()
	return Token{Type: TokenRing, Literal: l.input[pos:l.pos], Ring: n, Pos: pos}
}

func (l *Lexer) readOrganicAtom(pos int) Token {
	if l.ch == '*' {
		l.readChar()
		return Token{Type: TokenAtom, Literal: "*", Pos: pos, Atom: &AtomSpec{Symbol: "*"}}
	}
	// Two-letter halogens take precedence over C and B.
	if two := l.input[pos:min(pos+2, len(l.input))]; two == "Cl" || two == "Br" {
		l.readChar()
		l.readChar()
		return Token{Type: TokenAtom, Literal: two, Pos: pos, Atom: &AtomSpec{Symbol: two}}
	}
	lit := string(l.ch)
	sym, ok := organicSubset[lit]
	if !ok {
		l.readChar()
		return Token{Type: TokenIllegal, Literal: lit, Pos: pos, Err: fmt.Sprintf(ErrUnexpectedChar, lit)}
	}
	l.readChar()
	return Token{
		Type:    TokenAtom,
		Literal: lit,
		Pos:     pos,
		Atom:    &AtomSpec{Symbol: sym, Aromatic: isLower(lit[0])},
	}
}

// readBracketAtom reads [isotope? symbol chirality? hcount? charge? class?].
func (l *Lexer) readBracketAtom(pos int) Token {
	end := strings.IndexByte(l.input[pos:], ']')
	if end < 0 {
		l.pos, l.readPos, l.ch = len(l.input), len(l.input)+1, 0
		return Token{Type: TokenIllegal, Literal: l.input[pos:], Pos: pos, Err: ErrUnterminatedAtom}
	}
	body := l.input[pos+1 : pos+end]
	lit := l.input[pos : pos+end+1]
	for l.pos < pos+end+1 {
		l.readChar()
	}

	spec, err := parseBracket(body)
	if err != "" {
		return Token{Type: TokenIllegal, Literal: lit, Pos: pos, Err: err}
	}
	return Token{Type: TokenAtom, Literal: lit, Pos: pos, Atom: spec}
}

func parseBracket(body string) (*AtomSpec, string) {
	spec := &AtomSpec{Bracket: true}
	i := 0

	for i < len(body) && isDigit(body[i]) {
		spec.Isotope = spec.Isotope*10 + int(body[i]-'0')
		i++
	}

	switch {
	case i < len(body) && body[i] == '*':
		spec.Symbol = "*"
		i++
	case i+1 < len(body) && aromaticBracket[body[i:i+2]] != "":
		spec.Symbol = aromaticBracket[body[i:i+2]]
		spec.Aromatic = true
		i += 2
	case i < len(body) && aromaticBracket[body[i:i+1]] != "":
		spec.Symbol = aromaticBracket[body[i:i+1]]
		spec.Aromatic = true
		i++
	case i < len(body) && isUpper(body[i]):
		sym := body[i : i+1]
		if i+1 < len(body) && isLower(body[i+1]) {
			if _, ok := molecule.LookupElement(body[i : i+2]); ok {
				sym = body[i : i+2]
			}
		}
		if _, ok := molecule.LookupElement(sym); !ok {
			return nil, fmt.Sprintf(ErrUnknownElement, sym)
		}
		spec.Symbol = sym
		i += len(sym)
	default:
		return nil, fmt.Sprintf(ErrUnknownElement, body)
	}

	// Chirality marks are accepted and ignored, including classes like @TH1 or @OH12.
	if i < len(body) && body[i] == '@' {
		i++
		if i < len(body) && body[i] == '@' {
			i++
		} else if i+1 < len(body) && chiralClasses[body[i:i+2]] {
			i += 2
			for i < len(body) && isDigit(body[i]) {
				i++
			}
		}
	}

	if i < len(body) && body[i] == 'H' {
		i++
		spec.HCount = 1
		if i < len(body) && isDigit(body[i]) {
			spec.HCount = int(body[i] - '0')
			i++
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		c := body[i]
		i++
		switch {
		case i < len(body) && isDigit(body[i]):
			n := 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
			spec.Charge = sign * n
		default:
			n := 1
			for i < len(body) && body[i] == c {
				n++
				i++
			}
			spec.Charge = sign * n
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		for i < len(body) && isDigit(body[i]) {
			spec.Class = spec.Class*10 + int(body[i]-'0')
			i++
		}
	}

	if i != len(body) {
		return nil, fmt.Sprintf(ErrUnexpectedChar, string(body[i]))
	}
	return spec, ""
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
func isUpper(ch byte) bool { return ch >= 'A' && ch <= 'Z' }
func isLower(ch byte) bool { return ch >= 'a' && ch <= 'z' }
