package orr

import (
	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

// ReactionPath is the state-aligned energy sequence of one diagram.
// States and Energies have equal length; unknown energies mark states
// whose calculation is absent or unconverged.
type ReactionPath struct {
	States   []string
	Energies []dataset.Energy
}

// Len returns the number of states in the path.
func (p ReactionPath) Len() int { return len(p.Energies) }

// UnknownStates lists the states whose energy is unknown, in order.
func (p ReactionPath) UnknownStates() []string {
	var out []string
	for i, e := range p.Energies {
		if !e.Known() {
			out = append(out, p.States[i])
		}
	}
	return out
}

// Complete reports whether every energy in the path is known.
func (p ReactionPath) Complete() bool { return len(p.UnknownStates()) == 0 }

// BuildPath derives the canonical four-electron path from a table: one
// energy per mechanism state in order, with the O2 reference offset
// added to the opening element only. Unknown energies pass through as
// unknown so partial tables still produce a path that renders with
// gaps; a state never inserted at all fails with *MissingStateError.
func BuildPath(t EnergyTable) (ReactionPath, error) {
	return BuildPathStates(t, MechanismStates(), O2RefOffset)
}

// BuildPathStates is BuildPath over an arbitrary state sequence and
// reference offset. The offset lands on the first element, a domain
// convention: the opening state carries the O2 formation reference.
func BuildPathStates(t EnergyTable, states []string, refOffset float64) (ReactionPath, error) {
	p := ReactionPath{
		States:   append([]string(nil), states...),
		Energies: make([]dataset.Energy, len(states)),
	}
	for i, state := range states {
		e, err := t.Lookup(state)
		if err != nil {
			return ReactionPath{}, err
		}
		if i == 0 {
			e = e.AddFloat(refOffset)
		}
		p.Energies[i] = e
	}
	return p, nil
}

// PeroxidePath builds the two-electron branch terminating in H2O2:
//
//	[bulk + O2RefOffset, ooh, PeroxideEnergy]
//
// The table must resolve exactly one bulk and one ooh row; anything
// else fails with *H2O2PathLengthError. Element order is fixed by the
// states, not by row order in the table.
func PeroxidePath(t EnergyTable) (ReactionPath, error) {
	matching := t.CountState(StateBulk) + t.CountState(StateOOH)
	if t.CountState(StateBulk) != 1 || t.CountState(StateOOH) != 1 {
		return ReactionPath{}, &H2O2PathLengthError{Got: matching}
	}
	bulk, err := t.Lookup(StateBulk)
	if err != nil {
		return ReactionPath{}, err
	}
	ooh, err := t.Lookup(StateOOH)
	if err != nil {
		return ReactionPath{}, err
	}
	return ReactionPath{
		States:   []string{StateBulk, StateOOH, StateH2O2},
		Energies: []dataset.Energy{bulk.AddFloat(O2RefOffset), ooh, dataset.EV(PeroxideEnergy)},
	}, nil
}
