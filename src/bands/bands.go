// Package bands turns an electronic band structure along a k-point
// path into renderable series: one thin line per band, a dashed
// Fermi-level line at zero and vertical guides at the special points.
package bands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/fedplot"
)

// DefaultTitle is the standard band-diagram figure title.
const DefaultTitle = "Band diagram"

// Energy window of the plot, in eV relative to the Fermi level.
const (
	EnergyMin = -20.0
	EnergyMax = 20.0
)

// BandColor draws every band line.
const BandColor = "rgb(22, 96, 167)"

// Structure is one band-structure calculation along a k-point path.
// Energies is indexed [kpoint][band], relative to the Fermi level.
// SpinDown, when present, holds the second spin channel with the same
// shape and makes the structure spin polarized.
type Structure struct {
	Symbols       []string    `json:"symbols"`
	SpecialPoints []float64   `json:"special_points"`
	Distances     []float64   `json:"distances"`
	Energies      [][]float64 `json:"energies"`
	SpinDown      [][]float64 `json:"spin_down,omitempty"`
}

// Load reads a band structure from a JSON file and validates it.
func Load(path string) (Structure, error) {
	defer dataset.TimeTrack(time.Now(), "bands.Load")
	raw, err := os.ReadFile(path)
	if err != nil {
		return Structure{}, err
	}
	var s Structure
	if err := json.Unmarshal(raw, &s); err != nil {
		return Structure{}, fmt.Errorf("parse band structure %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Structure{}, fmt.Errorf("band structure %s: %w", path, err)
	}
	fmt.Printf("[bands] loaded %d bands over %d k-points from %s\n", s.Bands(), len(s.Distances), path)
	return s, nil
}

// Bands returns the number of bands per spin channel.
func (s Structure) Bands() int {
	if len(s.Energies) == 0 {
		return 0
	}
	return len(s.Energies[0])
}

// SpinPolarized reports whether a second spin channel is present.
func (s Structure) SpinPolarized() bool { return len(s.SpinDown) > 0 }

// Validate checks the shape invariants the series builder relies on.
func (s Structure) Validate() error {
	if len(s.SpecialPoints) < 2 {
		return fmt.Errorf("need at least 2 special points, got %d", len(s.SpecialPoints))
	}
	if len(s.Symbols) != len(s.SpecialPoints) {
		return fmt.Errorf("%d symbols for %d special points", len(s.Symbols), len(s.SpecialPoints))
	}
	if len(s.Distances) == 0 {
		return fmt.Errorf("no k-points")
	}
	if len(s.Energies) != len(s.Distances) {
		return fmt.Errorf("%d energy rows for %d k-points", len(s.Energies), len(s.Distances))
	}
	nb := len(s.Energies[0])
	for i, row := range s.Energies {
		if len(row) != nb {
			return fmt.Errorf("energy row %d has %d bands, want %d", i, len(row), nb)
		}
	}
	if s.SpinPolarized() {
		if len(s.SpinDown) != len(s.Distances) {
			return fmt.Errorf("%d spin-down rows for %d k-points", len(s.SpinDown), len(s.Distances))
		}
		for i, row := range s.SpinDown {
			if len(row) != nb {
				return fmt.Errorf("spin-down row %d has %d bands, want %d", i, len(row), nb)
			}
		}
	}
	return nil
}

// CleanSymbol rewrites special-point labels for tick display,
// shortening Gamma to G.
func CleanSymbol(sym string) string {
	return strings.ReplaceAll(sym, "Gamma", "G")
}

// TickLabels returns the cleaned special-point labels.
func (s Structure) TickLabels() []string {
	out := make([]string, len(s.Symbols))
	for i, sym := range s.Symbols {
		out[i] = CleanSymbol(sym)
	}
	return out
}

func (s Structure) bandSeries(channel [][]float64, band int, showLegend bool) fedplot.Series {
	y := make([]dataset.Energy, len(channel))
	for i, row := range channel {
		y[i] = dataset.EV(row[band])
	}
	return fedplot.Series{
		Name:        "Bands",
		LegendGroup: "bands_group",
		ShowLegend:  showLegend,
		Kind:        fedplot.KindConnectedLine,
		X:           append([]float64(nil), s.Distances...),
		Y:           y,
		Color:       BandColor,
		Width:       fedplot.ConnectedLineWidth,
	}
}

// Series builds the full trace list: band lines (spin channels
// interleaved per band), then the Fermi line, then one vertical guide
// per special point. Only the first band carries a legend entry.
func (s Structure) Series() []fedplot.Series {
	out := make([]fedplot.Series, 0, 2*s.Bands()+1+len(s.SpecialPoints))
	for n := 0; n < s.Bands(); n++ {
		out = append(out, s.bandSeries(s.Energies, n, n == 0))
		if s.SpinPolarized() {
			out = append(out, s.bandSeries(s.SpinDown, n, n == 0))
		}
	}

	if len(s.SpecialPoints) > 0 {
		first := s.SpecialPoints[0]
		last := s.SpecialPoints[len(s.SpecialPoints)-1]
		out = append(out, fedplot.Series{
			Kind:  fedplot.KindConnectedLine,
			X:     []float64{first, last},
			Y:     []dataset.Energy{dataset.EV(0), dataset.EV(0)},
			Color: "black",
			Dash:  "dash",
			Width: fedplot.ConnectedLineWidth,
		})
	}

	for _, p := range s.SpecialPoints {
		out = append(out, fedplot.Series{
			Kind:  fedplot.KindConnectedLine,
			X:     []float64{p, p},
			Y:     []dataset.Energy{dataset.EV(EnergyMin), dataset.EV(EnergyMax)},
			Color: "red",
			Width: fedplot.ConnectedLineWidth,
		})
	}
	return out
}

// Layout returns the band-diagram figure layout. An empty title
// selects DefaultTitle. Special points become the x ticks and the
// energy window is pinned to [EnergyMin, EnergyMax].
func (s Structure) Layout(title string) fedplot.Layout {
	if title == "" {
		title = DefaultTitle
	}
	var last float64
	if n := len(s.SpecialPoints); n > 0 {
		last = s.SpecialPoints[n-1]
	}
	return fedplot.Layout{
		Title:          title,
		YTitle:         "Energy [eV]",
		TickLabels:     s.TickLabels(),
		TickValues:     append([]float64(nil), s.SpecialPoints...),
		FontFamily:     "Courier New, monospace",
		TitleFontSize:  18,
		AxisFontSize:   18,
		TickFontSize:   16,
		LegendFontSize: 18,
		YMin:           EnergyMin,
		YMax:           EnergyMax,
		XMax:           last,
		HideLegend:     true,
		Width:          800,
		Height:         600,
	}
}
