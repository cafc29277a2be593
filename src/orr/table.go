// Package orr derives oxygen reduction reaction free-energy diagrams
// from adsorption energy tables: the canonical four-electron path, the
// limiting overpotential, applied-bias shifts, and the two-electron
// peroxide branch.
package orr

import (
	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

// Canonical adsorbate state names.
const (
	StateBulk = "bulk"
	StateOOH  = "ooh"
	StateO    = "o"
	StateOH   = "oh"
	StateH2O2 = "h2o2"
)

// Thermodynamic constants of the ORR, eV.
const (
	// O2RefOffset is the O2 formation free energy over the bulk/water
	// reference, added to the opening path element.
	O2RefOffset = 4.92
	// EquilibriumPotential is the four-electron equilibrium potential.
	EquilibriumPotential = 1.23
	// PeroxideEnergy is the free energy of H2O2 on the same scale.
	PeroxideEnergy = 3.52
	// PeroxideReference is O2RefOffset minus twice the 0.70 V
	// two-electron equilibrium potential per transferred electron;
	// the peroxide overpotential is E(ooh) minus this.
	PeroxideReference = 4.22
)

// MechanismStates returns the canonical state sequence of the
// four-electron associative pathway. Bulk opens and closes the path:
// the reaction starts at the O2 reference over the bare surface and
// ends at water over the bare surface.
func MechanismStates() []string {
	return []string{StateBulk, StateOOH, StateO, StateOH, StateBulk}
}

// IdealEnergies returns the ideal-catalyst free-energy levels, every
// step downhill by exactly EquilibriumPotential.
func IdealEnergies() []float64 {
	return []float64{4.92, 3.69, 2.46, 1.23, 0}
}

// EnergyTable is an ordered adsorbate energy table. Builders return
// new tables; a constructed table is never mutated, so derived paths
// cannot drift from the rows they were built on.
type EnergyTable struct {
	rows []dataset.Row
}

// TableFromRows validates and wraps rows into a table. A row without a
// state name can never be looked up, so it fails construction with a
// *dataset.SchemaError rather than surfacing later as a puzzling
// missing state.
func TableFromRows(rows []dataset.Row) (EnergyTable, error) {
	for _, r := range rows {
		if r.Adsorbate == "" {
			return EnergyTable{}, &dataset.SchemaError{Missing: []string{dataset.ColAdsorbate}}
		}
	}
	t := EnergyTable{rows: make([]dataset.Row, len(rows))}
	copy(t.rows, rows)
	return t, nil
}

// WithBulkEntry returns a new table with a synthetic bulk row appended
// at the given energy. Not idempotent: calling twice yields duplicate
// bulk rows, so construction calls it exactly once.
func (t EnergyTable) WithBulkEntry(energy float64) EnergyTable {
	rows := make([]dataset.Row, 0, len(t.rows)+1)
	rows = append(rows, t.rows...)
	rows = append(rows, dataset.Row{Adsorbate: StateBulk, Energy: dataset.EV(energy)})
	return EnergyTable{rows: rows}
}

// WithMissingStatesFilled returns a new table holding one
// unknown-energy row for every required state absent from the table.
// Afterwards every required state resolves on lookup, possibly to
// unknown.
func (t EnergyTable) WithMissingStatesFilled(required []string) EnergyTable {
	rows := make([]dataset.Row, 0, len(t.rows)+len(required))
	rows = append(rows, t.rows...)
	for _, state := range required {
		if t.contains(state) {
			continue
		}
		rows = append(rows, dataset.Row{Adsorbate: state})
	}
	return EnergyTable{rows: rows}
}

func (t EnergyTable) contains(state string) bool {
	for _, r := range t.rows {
		if r.Adsorbate == state {
			return true
		}
	}
	return false
}

// Lookup returns the first matching row's energy. A state that was
// never inserted is a hard *MissingStateError; a present row with
// unknown energy returns unknown with no error.
func (t EnergyTable) Lookup(state string) (dataset.Energy, error) {
	for _, r := range t.rows {
		if r.Adsorbate == state {
			return r.Energy, nil
		}
	}
	return dataset.Unknown(), &MissingStateError{State: state}
}

// FirstRow returns the first row matching state, for property access.
func (t EnergyTable) FirstRow(state string) (dataset.Row, bool) {
	for _, r := range t.rows {
		if r.Adsorbate == state {
			return r, true
		}
	}
	return dataset.Row{}, false
}

// CountState returns how many rows carry the given state.
func (t EnergyTable) CountState(state string) int {
	n := 0
	for _, r := range t.rows {
		if r.Adsorbate == state {
			n++
		}
	}
	return n
}

// Rows returns a copy of the table's rows in order.
func (t EnergyTable) Rows() []dataset.Row {
	out := make([]dataset.Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of rows.
func (t EnergyTable) Len() int { return len(t.rows) }
