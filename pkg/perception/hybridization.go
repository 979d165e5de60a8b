package perception

import "github.com/leapstack-labs/leaptype/pkg/atomtype"

// hybridization estimates the bonding geometry of atom i from its local facts.
// The thresholds and element lists come from the type table.
func (a *Analyzer) hybridization(i int, f atomtype.Facts) atomtype.Hybridization {
	r := a.rules
	switch {
	case f.TripleBonds >= r.SPTripleBonds, f.PiBonds >= r.SPDoubleBonds:
		return atomtype.SP1
	case f.PiBonds >= r.SP2DoubleBonds:
		return atomtype.SP2
	case f.Aromatic && r.IsPlanarDonor(f.Element):
		// Lone pair is part of the aromatic sextet.
		return atomtype.Planar3
	case f.Aromatic && r.AromaticSP2:
		return atomtype.SP2
	case f.Charge == 0 && r.IsConjugatedPlanar(f.Element) && a.hasPiNeighbor(i):
		return atomtype.Planar3
	case f.Charge > 0 && r.IsCationPlanar(f.Element) && f.Connections == r.CationPlanarConnections:
		return atomtype.SP2
	}
	return atomtype.SP3
}
