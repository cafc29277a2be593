// Package fedplot turns reaction paths into renderable plot series:
// step-function geometry, per-series styling with format rules, and
// the figure layout handed to the chart renderer.
package fedplot

import (
	"fmt"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

// Default step geometry: each state is a flat top of DefaultStepSize
// with DefaultSpacing of gap before the next state.
const (
	DefaultSpacing  = 0.5
	DefaultStepSize = 1.0
)

// PlotMode selects which of a diagram's three series are emitted.
type PlotMode int

const (
	// ModeAll draws thick step segments, the thin connecting line,
	// and the hover markers.
	ModeAll PlotMode = iota
	// ModeStatesOnly drops the connecting line, leaving disconnected
	// flat tops. Used for site-scatter overlays.
	ModeStatesOnly
	// ModeFullLines drops the thick segments, leaving the thin
	// continuous line. Used for reference series like the ideal
	// catalyst.
	ModeFullLines
)

func (m PlotMode) String() string {
	switch m {
	case ModeStatesOnly:
		return "states_only"
	case ModeFullLines:
		return "full_lines"
	}
	return "all"
}

// ParsePlotMode maps the mode names used in configuration and flags.
func ParsePlotMode(s string) (PlotMode, error) {
	switch s {
	case "all", "":
		return ModeAll, nil
	case "states_only":
		return ModeStatesOnly, nil
	case "full_lines":
		return ModeFullLines, nil
	}
	return ModeAll, fmt.Errorf("unknown plot mode %q (want all, states_only or full_lines)", s)
}

// Geometry is the step-function expansion of one energy path.
//
// X/Y hold each energy doubled into a flat top, with one extra break
// point after every state but the last: the break duplicates the x of
// the segment end and carries an unknown y, which tells the renderer
// not to connect across the gap. MidX/MidY hold one point per state,
// centered in its flat segment, for hover markers and tick positions.
type Geometry struct {
	X    []float64
	Y    []dataset.Energy
	MidX []float64
	MidY []dataset.Energy
}

// Expand builds the plot geometry for an energy sequence. State i's
// flat top spans [i*(stepSize+spacing), i*(stepSize+spacing)+stepSize].
// Unknown energies expand like any other value: their segment points
// carry unknown y and simply do not render.
func Expand(energies []dataset.Energy, spacing, stepSize float64) Geometry {
	n := len(energies)
	points := 0
	if n > 0 {
		points = 3*n - 1
	}
	g := Geometry{
		X:    make([]float64, 0, points),
		Y:    make([]dataset.Energy, 0, points),
		MidX: make([]float64, n),
		MidY: make([]dataset.Energy, n),
	}
	for i, e := range energies {
		left := float64(i) * (stepSize + spacing)
		right := left + stepSize
		g.X = append(g.X, left, right)
		g.Y = append(g.Y, e, e)
		if i < n-1 {
			// Break: repeated x, unknown y.
			g.X = append(g.X, right)
			g.Y = append(g.Y, dataset.Unknown())
		}
		g.MidX[i] = left + 0.5*stepSize
		g.MidY[i] = e
	}
	return g
}

// MidTickValues returns the flat-segment centers for n states, which
// double as the x-axis tick positions.
func MidTickValues(n int, spacing, stepSize float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)*(stepSize+spacing) + 0.5*stepSize
	}
	return out
}
