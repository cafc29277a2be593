package dataset

import (
	"fmt"
	"time"
)

// Water-derived atomic reference energies, eV. The oxygen reference
// comes from H2O rather than gas-phase O2 to sidestep the O2 DFT
// binding error.
const (
	OxygenRefEnergy   = -443.70964
	HydrogenRefEnergy = -16.46018
)

// ReferenceEnergies holds the per-atom reservoir energies subtracted
// when converting raw slab energies to adsorption energies.
type ReferenceEnergies struct {
	Oxygen   float64
	Hydrogen float64
}

// WaterReferences returns the default water-derived reference set.
func WaterReferences() ReferenceEnergies {
	return ReferenceEnergies{Oxygen: OxygenRefEnergy, Hydrogen: HydrogenRefEnergy}
}

// CorrectionsMode selects where free-energy corrections come from.
type CorrectionsMode int

const (
	// CorrectionsFromColumn reads each row's correction column, falling
	// back to the per-adsorbate map when the column holds zero or is
	// unknown.
	CorrectionsFromColumn CorrectionsMode = iota
	// CorrectionsFromMap ignores the column and uses the per-adsorbate
	// map only.
	CorrectionsFromMap
	// CorrectionsNone applies no correction.
	CorrectionsNone
)

// AdsorptionOptions configures AdsorptionEnergy. The zero value uses
// water references, a zero bare-slab energy, and column-mode
// corrections with no fallback map.
type AdsorptionOptions struct {
	References ReferenceEnergies

	// BareSlab is the raw energy of the clean slab. When BareSlabBy
	// names a column, each row's slab energy is instead looked up in
	// BareSlabValues keyed by that column's value.
	BareSlab       float64
	BareSlabBy     string
	BareSlabValues map[string]float64

	Mode CorrectionsMode
	// Corrections maps adsorbate name to free-energy correction, eV.
	Corrections map[string]float64
}

func (o AdsorptionOptions) references() ReferenceEnergies {
	if o.References == (ReferenceEnergies{}) {
		return WaterReferences()
	}
	return o.References
}

// atomCounts resolves how many O and H atoms a row's adsorbate
// contributes, preferring explicit per-row counts over the name-based
// defaults for the known intermediates.
func atomCounts(r Row) (numO, numH int, ok bool) {
	if r.Atoms != nil {
		return r.Atoms.O, r.Atoms.H, true
	}
	switch r.Adsorbate {
	case "ooh":
		return 2, 1, true
	case "o":
		return 1, 0, true
	case "oh":
		return 1, 1, true
	}
	return 0, 0, false
}

// correction resolves the free-energy correction for a row. Missing
// map entries default to zero with a warning rather than failing the
// whole table.
func correction(r Row, opts AdsorptionOptions) float64 {
	switch opts.Mode {
	case CorrectionsFromColumn:
		if v, ok := r.Correction.Value(); ok && v != 0 {
			return v
		}
		// Column zero or unknown: fall back to the map when present.
		if opts.Corrections != nil {
			if v, ok := opts.Corrections[r.Adsorbate]; ok {
				return v
			}
		}
		return 0
	case CorrectionsFromMap:
		if opts.Corrections != nil {
			if v, ok := opts.Corrections[r.Adsorbate]; ok {
				return v
			}
			Warnf("no correction entry for adsorbate %q, using 0", r.Adsorbate)
			return 0
		}
		Warnf("corrections map mode with nil map, using 0")
		return 0
	}
	return 0
}

// AdsorptionEnergy computes a row's adsorption free energy from its
// raw electronic energy:
//
//	ads_e = elec - (bareSlab + numO*oxyRef + numH*hydRef) + correction
//
// The result is unknown when the electronic energy is unknown, the
// slab reference cannot be resolved, or the adsorbate's atom counts
// are undeterminable. Unknown propagates; it never becomes zero.
func AdsorptionEnergy(r Row, opts AdsorptionOptions) Energy {
	elec, ok := r.Electronic.Value()
	if !ok {
		return Unknown()
	}
	bare := opts.BareSlab
	if opts.BareSlabBy != "" {
		key := r.Prop(opts.BareSlabBy)
		v, found := opts.BareSlabValues[key]
		if !found {
			Warnf("no bare slab energy for %s=%q, leaving adsorption energy unknown", opts.BareSlabBy, key)
			return Unknown()
		}
		bare = v
	}
	numO, numH, ok := atomCounts(r)
	if !ok {
		Warnf("cannot determine atom counts for adsorbate %q, leaving adsorption energy unknown", r.Adsorbate)
		return Unknown()
	}
	refs := opts.references()
	adsE := elec - (bare + float64(numO)*refs.Oxygen + float64(numH)*refs.Hydrogen)
	return EV(adsE + correction(r, opts))
}

// ComputeAdsorptionColumn returns a copy of rows with the Energy field
// filled from each row's electronic energy. Input rows are not
// mutated.
func ComputeAdsorptionColumn(rows []Row, opts AdsorptionOptions) []Row {
	defer TimeTrack(time.Now(), "compute adsorption energies")
	out := make([]Row, len(rows))
	unknown := 0
	for i, r := range rows {
		r.Energy = AdsorptionEnergy(r, opts)
		if !r.Energy.Known() {
			unknown++
		}
		out[i] = r
	}
	if unknown > 0 {
		fmt.Printf("[dataset] computed adsorption energies for %d rows (%d unknown)\n", len(rows), unknown)
	} else {
		fmt.Printf("[dataset] computed adsorption energies for %d rows\n", len(rows))
	}
	return out
}
