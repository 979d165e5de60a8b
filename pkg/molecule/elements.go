package molecule

import "strings"

// Element describes the static properties of a chemical element needed for typing.
type Element struct {
	Symbol string
	Number int
	// Valences lists default valences in ascending order, used to derive
	// implicit hydrogens. Empty for elements without an organic valence model.
	Valences []int
	// Metal marks elements typed by coordination number rather than bonding pattern.
	Metal bool
}

// periodicSymbols lists element symbols by atomic number (index 0 is unused).
var periodicSymbols = strings.Fields(`-
H He Li Be B C N O F Ne Na Mg Al Si P S Cl Ar K Ca Sc Ti V Cr Mn Fe Co Ni Cu Zn
Ga Ge As Se Br Kr Rb Sr Y Zr Nb Mo Tc Ru Rh Pd Ag Cd In Sn Sb Te I Xe Cs Ba La Ce
Pr Nd Pm Sm Eu Gd Tb Dy Ho Er Tm Yb Lu Hf Ta W Re Os Ir Pt Au Hg Tl Pb Bi Po At
Rn Fr Ra Ac Th Pa U Np Pu Am Cm Bk Cf Es Fm Md No Lr`)

var nonMetals = map[string]bool{
	"H": true, "He": true, "B": true, "C": true, "N": true, "O": true, "F": true, "Ne": true,
	"Si": true, "P": true, "S": true, "Cl": true, "Ar": true, "Ge": true, "As": true,
	"Se": true, "Br": true, "Kr": true, "Sb": true, "Te": true, "I": true, "Xe": true,
	"At": true, "Rn": true,
}

var defaultValences = map[string][]int{
	"B":  {3},
	"C":  {4},
	"N":  {3, 5},
	"O":  {2},
	"P":  {3, 5},
	"S":  {2, 4, 6},
	"F":  {1},
	"Cl": {1},
	"Br": {1},
	"I":  {1},
}

var elements = func() map[string]Element {
	table := make(map[string]Element, len(periodicSymbols))
	for z, sym := range periodicSymbols {
		if z == 0 {
			continue
		}
		table[sym] = Element{
			Symbol:   sym,
			Number:   z,
			Valences: defaultValences[sym],
			Metal:    !nonMetals[sym],
		}
	}
	return table
}()

// LookupElement returns the element for a symbol with conventional capitalization.
func LookupElement(symbol string) (Element, bool) {
	e, ok := elements[symbol]
	return e, ok
}

// IsMetal reports whether symbol names a metal.
func IsMetal(symbol string) bool {
	e, ok := elements[symbol]
	return ok && e.Metal
}

// lonePairDonors contribute an unshared pair to an aromatic ring instead of
// a pi bond, so they take no extra valence in the implicit hydrogen model.
var lonePairDonors = map[string]bool{"O": true, "S": true, "Se": true}

// DefaultImplicitHydrogens derives the implicit hydrogen count of an atom from
// its default valences. bondOrderSum counts aromatic bonds as single; aromatic
// atoms with room for a pi bond are charged one extra valence. Atoms with no
// default valence (metals, bracket-only elements) get zero.
func DefaultImplicitHydrogens(symbol string, charge int, aromatic bool, bondOrderSum int) int {
	valences := chargedValences(symbol, charge)
	if len(valences) == 0 {
		return 0
	}
	used := bondOrderSum
	// A saturated aromatic atom (e.g. a three-connected n) donates its lone pair.
	if aromatic && !lonePairDonors[symbol] && used+1 <= valences[0] {
		used++
	}
	for _, v := range valences {
		if v >= used {
			return v - used
		}
	}
	return 0
}

// chargedValences applies the isoelectronic shift for charged atoms: N+ bonds
// like C, O+ like N, C- like N, B- like C.
func chargedValences(symbol string, charge int) []int {
	if charge == 0 {
		return defaultValences[symbol]
	}
	switch {
	case symbol == "N" && charge == 1, symbol == "B" && charge == -1:
		return []int{4}
	case symbol == "O" && charge == 1, symbol == "S" && charge == 1,
		symbol == "C" && charge == -1, symbol == "C" && charge == 1:
		return []int{3}
	case symbol == "N" && charge == -1:
		return []int{2}
	case symbol == "O" && charge == -1:
		return []int{1}
	}
	return nil
}
