package orr

import (
	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

// Diagram bundles one group's energy table with its derived
// four-electron path. Construction runs the fixed sequence: append
// the synthetic bulk row at zero, fill missing states with unknown
// energies, build the canonical path.
type Diagram struct {
	Table EnergyTable
	Path  ReactionPath
}

// NewDiagram composes a diagram from raw adsorbate rows. The rows must
// not already contain a bulk entry; the reference bulk row is always
// appended here at energy zero.
func NewDiagram(rows []dataset.Row) (Diagram, error) {
	t, err := TableFromRows(rows)
	if err != nil {
		return Diagram{}, err
	}
	t = t.WithBulkEntry(0.0).WithMissingStatesFilled(MechanismStates())
	p, err := BuildPath(t)
	if err != nil {
		return Diagram{}, err
	}
	return Diagram{Table: t, Path: p}, nil
}

// Overpotential runs the limiting-step analysis on the diagram's path.
func (d Diagram) Overpotential() (OverpotentialResult, error) {
	return ComputeOverpotential(d.Path)
}

// PeroxideBranch builds the two-electron path from the diagram's table.
func (d Diagram) PeroxideBranch() (ReactionPath, error) {
	return PeroxidePath(d.Table)
}

// PeroxideOverpotential computes the two-electron overpotential from
// the diagram's table.
func (d Diagram) PeroxideOverpotential() (float64, error) {
	return PeroxideOverpotential(d.Table)
}

// PropertyList returns the named column of the first matching row per
// mechanism state, in state order. States without a value render as
// "", so the list is always usable as hover text.
func (d Diagram) PropertyList(col string) []string {
	states := MechanismStates()
	out := make([]string, len(states))
	for i, state := range states {
		if r, ok := d.Table.FirstRow(state); ok {
			out[i] = r.Prop(col)
		}
	}
	return out
}
