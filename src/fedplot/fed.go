package fedplot

import (
	"fmt"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/orr"
)

// DefaultColor is used when no palette is given.
const DefaultColor = "red"

// DefaultHoverColumns feeds the hover markers when the caller does not
// choose columns.
var DefaultHoverColumns = []string{dataset.ColSite}

// FEDOptions styles the series emission of one diagram.
type FEDOptions struct {
	Bias    float64
	OptName string // label prefix, usually the dataset or run name
	Key     string // group key, becomes the legend label body
	// Colors is the palette; Index selects the group's color by
	// rotation. Empty palette falls back to DefaultColor.
	Colors       []string
	Index        int
	HoverColumns []string
	Mode         PlotMode
	Rules        []FormatRule
}

func colorAt(colors []string, index int) string {
	if len(colors) == 0 {
		return DefaultColor
	}
	return colors[index%len(colors)]
}

// FEDSeries renders one diagram into its plot series: bias applied,
// legend label carrying the overpotential when it is computable,
// format rules folded into the style. An incomplete path renders with
// gaps and an OP-less label instead of failing.
func FEDSeries(d orr.Diagram, opts FEDOptions) []Series {
	path := orr.ApplyBias(d.Path, opts.Bias)

	var op float64
	opKnown := false
	if res, err := d.Overpotential(); err == nil {
		op = res.Value
		opKnown = true
	} else {
		dataset.Debugf("overpotential unavailable for %q: %v", opts.Key, err)
	}
	name := SeriesName(opts.OptName, opts.Key, op, opKnown)

	hoverCols := opts.HoverColumns
	if hoverCols == nil {
		hoverCols = DefaultHoverColumns
	}
	hover := HoverText(d, hoverCols)

	override := ApplyRules(opts.Rules, d.Table.Rows())
	geom := Expand(path.Energies, DefaultSpacing, DefaultStepSize)
	return BuildSeries(geom, opts.Mode, name, colorAt(opts.Colors, opts.Index), override, hover)
}

// IdealSeries builds the ideal-catalyst reference overlay: the levels
// where every step is exactly the equilibrium potential, drawn as a
// thin full line named "Ideal".
func IdealSeries(bias float64, color string) []Series {
	levels := orr.ApplyBiasToLevels(orr.IdealEnergies(), bias)
	energies := make([]dataset.Energy, len(levels))
	for i, v := range levels {
		energies[i] = dataset.EV(v)
	}
	geom := Expand(energies, DefaultSpacing, DefaultStepSize)
	return BuildSeries(geom, ModeFullLines, "Ideal", color, StyleOverride{}, nil)
}

// CollectionOptions configures a multi-group FED build.
type CollectionOptions struct {
	// GroupBy columns split rows into one diagram per value tuple.
	// The adsorbate column is always collapsed; site too for the
	// lowest-energy variant.
	GroupBy []string
	// GroupLabel labels the single group when GroupBy is empty.
	// Defaults to "all".
	GroupLabel string

	Bias         float64
	OptName      string
	Colors       []string
	HoverColumns []string
	Mode         PlotMode
	Rules        []FormatRule

	// IdealSeries overlays the ideal-catalyst reference.
	IdealSeries bool
	// IdealColor overrides the variant's default reference color.
	IdealColor string

	Title string
}

func (o CollectionOptions) groupLabel() string {
	if o.GroupLabel == "" {
		return "all"
	}
	return o.GroupLabel
}

// LowestEnergyFED builds the lowest-energy-pathway figure: per group,
// the minimum-energy row per adsorbate forms one diagram. The ideal
// overlay defaults to the last palette color.
func LowestEnergyFED(rows []dataset.Row, opts CollectionOptions) ([]Series, Layout, error) {
	diagrams, err := orr.LowestEnergyDiagrams(rows, opts.GroupBy, opts.groupLabel())
	if err != nil {
		return nil, Layout{}, fmt.Errorf("build lowest-energy diagrams: %w", err)
	}
	fmt.Printf("[fedplot] lowest-energy FED: %d groups, bias=%.2f V\n", len(diagrams), opts.Bias)
	var series []Series
	for i, gd := range diagrams {
		series = append(series, FEDSeries(gd.Diagram, FEDOptions{
			Bias:         opts.Bias,
			OptName:      opts.OptName,
			Key:          gd.Key,
			Colors:       opts.Colors,
			Index:        i,
			HoverColumns: opts.HoverColumns,
			Mode:         opts.Mode,
			Rules:        opts.Rules,
		})...)
	}
	if opts.IdealSeries {
		color := opts.IdealColor
		if color == "" && len(opts.Colors) > 0 {
			color = opts.Colors[len(opts.Colors)-1]
		}
		if color == "" {
			color = DefaultColor
		}
		series = append(series, IdealSeries(opts.Bias, color)...)
	}
	return series, FEDLayout(opts.Title), nil
}

// AllStatesFED builds the site-scatter figure: every site variant
// keeps its own diagram, drawn as disconnected flat tops. The ideal
// overlay defaults to red.
func AllStatesFED(rows []dataset.Row, opts CollectionOptions) ([]Series, Layout, error) {
	diagrams, err := orr.AllStatesDiagrams(rows, opts.GroupBy, opts.groupLabel())
	if err != nil {
		return nil, Layout{}, fmt.Errorf("build all-states diagrams: %w", err)
	}
	fmt.Printf("[fedplot] all-states FED: %d groups, bias=%.2f V\n", len(diagrams), opts.Bias)
	var series []Series
	for i, gd := range diagrams {
		series = append(series, FEDSeries(gd.Diagram, FEDOptions{
			Bias:         opts.Bias,
			OptName:      opts.OptName,
			Key:          gd.Key,
			Colors:       opts.Colors,
			Index:        i,
			HoverColumns: opts.HoverColumns,
			Mode:         ModeStatesOnly,
			Rules:        opts.Rules,
		})...)
	}
	if opts.IdealSeries {
		color := opts.IdealColor
		if color == "" {
			color = DefaultColor
		}
		series = append(series, IdealSeries(opts.Bias, color)...)
	}
	return series, FEDLayout(opts.Title), nil
}
