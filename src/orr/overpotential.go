package orr

import (
	"fmt"
)

// OverpotentialResult is the outcome of the limiting-step analysis.
type OverpotentialResult struct {
	// Value is the largest step height above the equilibrium
	// potential, eV. Zero means every step is exactly ideal.
	Value float64
	// LimitingStep names the states bounding the worst step.
	LimitingStep [2]string
}

// ComputeOverpotential finds the thermodynamic overpotential of the
// four-electron path: for each adjacent pair the step cost is
//
//	step_i = EquilibriumPotential + path[i+1] - path[i]
//
// and the maximum wins, first occurrence on ties. The path must be
// fully known; unknown entries fail with *IncompletePathError since a
// maximum over unknown values has no defined answer.
func ComputeOverpotential(p ReactionPath) (OverpotentialResult, error) {
	if unknown := p.UnknownStates(); len(unknown) > 0 {
		return OverpotentialResult{}, &IncompletePathError{States: unknown}
	}
	if p.Len() < 2 {
		return OverpotentialResult{}, fmt.Errorf("path has %d states, need at least 2", p.Len())
	}
	best := OverpotentialResult{}
	for i := 0; i+1 < p.Len(); i++ {
		cur, _ := p.Energies[i].Value()
		next, _ := p.Energies[i+1].Value()
		step := EquilibriumPotential + next - cur
		if i == 0 || step > best.Value {
			best.Value = step
			best.LimitingStep = [2]string{p.States[i], p.States[i+1]}
		}
	}
	return best, nil
}

// PeroxideOverpotential computes the two-electron overpotential, which
// depends only on the OOH intermediate:
//
//	E(ooh) - PeroxideReference
//
// A never-inserted ooh state fails with *MissingStateError, a present
// but unknown energy with *IncompletePathError.
func PeroxideOverpotential(t EnergyTable) (float64, error) {
	e, err := t.Lookup(StateOOH)
	if err != nil {
		return 0, err
	}
	v, ok := e.Value()
	if !ok {
		return 0, &IncompletePathError{States: []string{StateOOH}}
	}
	return v - PeroxideReference, nil
}
