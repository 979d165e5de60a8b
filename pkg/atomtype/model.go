package atomtype

import "slices"

// ElementModel is the element-class capability a descriptor is evaluated with.
// Keeping it per descriptor lets the matching loop stay uniform across
// organic atoms and coordination centres.
type ElementModel interface {
	// Kind names the model.
	Kind() ModelKind
	// Match reports whether f satisfies d under this model.
	Match(d *Descriptor, f Facts) bool
	// effective returns d with the constraints this model ignores cleared.
	effective(d Descriptor) Descriptor
}

var models = map[ModelKind]ElementModel{
	ModelOrganic:      organicModel{},
	ModelCoordination: coordinationModel{},
}

func modelFor(kind ModelKind) ElementModel {
	if m, ok := models[kind]; ok {
		return m
	}
	return organicModel{}
}

type organicModel struct{}

func (organicModel) Kind() ModelKind { return ModelOrganic }

func (organicModel) Match(d *Descriptor, f Facts) bool {
	switch {
	case d.Element != f.Element:
		return false
	case d.Charges != nil && !slices.Contains(d.Charges, f.Charge):
		return false
	case d.Hybridizations != nil && !slices.Contains(d.Hybridizations, f.Hybridization):
		return false
	case !exact(d.Neighbors, f.Neighbors), !atMost(d.MaxNeighbors, f.Neighbors):
		return false
	case !exact(d.Connections, f.Connections), !exact(d.Hydrogens, f.Hydrogens):
		return false
	case !exact(d.PiBonds, f.PiBonds), !exact(d.RingSize, f.SmallestRing):
		return false
	case d.MaxBondOrder != nil && f.MaxBondOrder.Multiplicity() > d.MaxBondOrder.Multiplicity():
		return false
	case !atMost(d.MaxBondOrderSum, f.BondOrderSum):
		return false
	case !flag(d.Ring, f.InRing), !flag(d.Aromatic, f.Aromatic), !flag(d.Amide, f.Amide):
		return false
	}
	return true
}

func (organicModel) effective(d Descriptor) Descriptor { return d }

type coordinationModel struct{}

func (coordinationModel) Kind() ModelKind { return ModelCoordination }

// Match treats coordination geometry as purely combinatorial: bond orders,
// hybridization and ring context are ignored.
func (coordinationModel) Match(d *Descriptor, f Facts) bool {
	switch {
	case d.Element != f.Element:
		return false
	case d.Charges != nil && !slices.Contains(d.Charges, f.Charge):
		return false
	case !exact(d.Neighbors, f.Neighbors), !atMost(d.MaxNeighbors, f.Neighbors):
		return false
	}
	return true
}

func (coordinationModel) effective(d Descriptor) Descriptor {
	return Descriptor{
		Name:         d.Name,
		Element:      d.Element,
		Model:        d.Model,
		Charges:      d.Charges,
		Neighbors:    d.Neighbors,
		MaxNeighbors: d.MaxNeighbors,
	}
}

func exact(want *int, got int) bool  { return want == nil || *want == got }
func atMost(max *int, got int) bool  { return max == nil || got <= *max }
func flag(want *bool, got bool) bool { return want == nil || *want == got }
