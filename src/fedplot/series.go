package fedplot

import (
	"math"
	"strconv"
	"strings"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/orr"
)

// SeriesKind tells the renderer how to draw one series.
type SeriesKind int

const (
	// KindStepSegments draws thick flat tops with no connection
	// across the gaps (breaks split the line).
	KindStepSegments SeriesKind = iota
	// KindConnectedLine draws one thin line through every state,
	// skipping break points.
	KindConnectedLine
	// KindMarkers places invisible hover markers at segment
	// midpoints; they carry the hover text and never draw.
	KindMarkers
)

// Line widths and marker size in rendered units.
const (
	StepLineWidth      = 6.0
	ConnectedLineWidth = 1.0
	MarkerSize         = 14.0
)

// Series is one renderable data series plus its style.
type Series struct {
	Name        string
	LegendGroup string
	ShowLegend  bool
	Kind        SeriesKind
	X           []float64
	Y           []dataset.Energy
	// HoverText aligns with the states of the underlying path, one
	// entry per marker. Empty entries show nothing.
	HoverText []string
	Color     string
	Dash      string
	Width     float64
}

// BuildSeries emits the mode-selected subset of a geometry's three
// series. The override's color applies to the lines only: the hover
// markers keep the base color, they are invisible either way.
func BuildSeries(g Geometry, mode PlotMode, name, color string, override StyleOverride, hover []string) []Series {
	lineColor := color
	if override.Color != "" {
		lineColor = override.Color
	}
	thick := Series{
		Name:        name,
		LegendGroup: name,
		ShowLegend:  true,
		Kind:        KindStepSegments,
		X:           g.X,
		Y:           g.Y,
		Color:       lineColor,
		Dash:        override.Dash,
		Width:       StepLineWidth,
	}
	thin := Series{
		Name:        name,
		LegendGroup: name,
		ShowLegend:  mode == ModeFullLines,
		Kind:        KindConnectedLine,
		X:           g.X,
		Y:           g.Y,
		Color:       lineColor,
		Width:       ConnectedLineWidth,
	}
	markers := Series{
		Name:        name,
		LegendGroup: name,
		ShowLegend:  false,
		Kind:        KindMarkers,
		X:           g.MidX,
		Y:           g.MidY,
		HoverText:   hover,
		Color:       color,
		Width:       MarkerSize,
	}
	switch mode {
	case ModeStatesOnly:
		return []Series{thick, markers}
	case ModeFullLines:
		return []Series{thin, markers}
	}
	return []Series{thick, thin, markers}
}

// SeriesName composes the legend label "optName: key (OP: v)" with the
// overpotential rounded to two decimals. Diagrams whose overpotential
// cannot be computed get no OP suffix rather than a placeholder.
func SeriesName(optName, key string, op float64, opKnown bool) string {
	name := key
	if optName != "" {
		name = optName + ": " + key
	}
	if opKnown {
		name += " (OP: " + formatRound2(op) + ")"
	}
	return strings.TrimSpace(name)
}

func formatRound2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'g', -1, 64)
}

// HoverText builds the marker hover entries for a diagram: the named
// columns of the first row per state, joined by " | ". States with no
// values at all collapse to "".
func HoverText(d orr.Diagram, cols []string) []string {
	if len(cols) == 0 {
		return nil
	}
	lists := make([][]string, len(cols))
	for i, col := range cols {
		lists[i] = d.PropertyList(col)
	}
	n := len(lists[0])
	out := make([]string, n)
	for i := 0; i < n; i++ {
		parts := make([]string, len(cols))
		empty := true
		for j := range cols {
			parts[j] = lists[j][i]
			if parts[j] != "" {
				empty = false
			}
		}
		if empty {
			out[i] = ""
			continue
		}
		out[i] = strings.Join(parts, " | ")
	}
	return out
}
