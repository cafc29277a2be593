package orr

import (
	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

// ApplyBias shifts every state by the applied potential times the
// number of electrons still to transfer:
//
//	path[i] - (len-1-i) * bias
//
// Each step of the mechanism transfers one electron, so the count
// falls monotonically to zero at the final product state. Pure:
// returns a new path, unknown entries pass through unchanged.
func ApplyBias(p ReactionPath, bias float64) ReactionPath {
	out := ReactionPath{
		States:   append([]string(nil), p.States...),
		Energies: make([]dataset.Energy, len(p.Energies)),
	}
	n := len(p.Energies)
	for i, e := range p.Energies {
		electronsLeft := float64(n - 1 - i)
		out.Energies[i] = e.AddFloat(-electronsLeft * bias)
	}
	return out
}

// ApplyBiasToLevels is ApplyBias over a plain level list, for
// reference series that have no table behind them.
func ApplyBiasToLevels(levels []float64, bias float64) []float64 {
	out := make([]float64, len(levels))
	n := len(levels)
	for i, v := range levels {
		out[i] = v - float64(n-1-i)*bias
	}
	return out
}
