package fedplot

import (
	"strings"
	"testing"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

func fedRows() []dataset.Row {
	mk := func(ads, site, system string, e float64) dataset.Row {
		return dataset.Row{
			Adsorbate: ads, Site: site, Energy: dataset.EV(e),
			Props: map[string]string{"system": system},
		}
	}
	return []dataset.Row{
		mk("ooh", "ontop", "graphene", 3.4),
		mk("ooh", "bridge", "graphene", 3.2),
		mk("o", "ontop", "graphene", 2.1),
		mk("oh", "ontop", "graphene", 1.1),
		mk("ooh", "ontop", "n_graphene", 3.9),
		mk("o", "ontop", "n_graphene", 2.6),
		mk("oh", "ontop", "n_graphene", 1.6),
	}
}

func TestLowestEnergyFED(t *testing.T) {
	series, layout, err := LowestEnergyFED(fedRows(), CollectionOptions{
		GroupBy:     []string{"system", "site", "adsorbate"},
		Colors:      []string{"blue", "orange"},
		IdealSeries: true,
	})
	if err != nil {
		t.Fatalf("fed: %v", err)
	}
	// Two groups in all mode (3 series each) plus the ideal overlay (2).
	if len(series) != 8 {
		t.Fatalf("series count: %d", len(series))
	}
	if !strings.HasPrefix(series[0].Name, "graphene (OP: ") {
		t.Fatalf("first group name: %q", series[0].Name)
	}
	if !strings.HasPrefix(series[3].Name, "n_graphene (OP: ") {
		t.Fatalf("second group name: %q", series[3].Name)
	}
	if series[0].Color != "blue" || series[3].Color != "orange" {
		t.Fatalf("palette rotation: %q, %q", series[0].Color, series[3].Color)
	}
	// Ideal takes the last palette color by default.
	ideal := series[6]
	if ideal.Name != "Ideal" || ideal.Kind != KindConnectedLine || ideal.Color != "orange" {
		t.Fatalf("ideal series: %+v", ideal)
	}
	if layout.Title != DefaultFEDTitle {
		t.Fatalf("layout title: %q", layout.Title)
	}
}

func TestLowestEnergyFEDPicksMinima(t *testing.T) {
	series, _, err := LowestEnergyFED(fedRows(), CollectionOptions{
		GroupBy: []string{"system"},
	})
	if err != nil {
		t.Fatalf("fed: %v", err)
	}
	// graphene group: ooh minimum is the bridge row at 3.2, so the
	// second flat top must sit at 3.2.
	thick := series[0]
	if v, ok := thick.Y[3].Value(); !ok || v != 3.2 {
		t.Fatalf("ooh flat top: %v ok=%v want 3.2", v, ok)
	}
}

func TestAllStatesFED(t *testing.T) {
	series, _, err := AllStatesFED(fedRows(), CollectionOptions{
		GroupBy:     []string{"system", "site", "adsorbate"},
		Colors:      []string{"blue", "orange", "green"},
		IdealSeries: true,
	})
	if err != nil {
		t.Fatalf("fed: %v", err)
	}
	// Three site groups in states_only mode (2 series each) plus the
	// ideal overlay (2).
	if len(series) != 8 {
		t.Fatalf("series count: %d", len(series))
	}
	if series[0].Kind != KindStepSegments || series[1].Kind != KindMarkers {
		t.Fatalf("states_only kinds: %v %v", series[0].Kind, series[1].Kind)
	}
	// Ideal defaults to red for the all-states figure.
	ideal := series[6]
	if ideal.Name != "Ideal" || ideal.Color != "red" {
		t.Fatalf("ideal series: %+v", ideal)
	}
}

func TestFEDSeriesBias(t *testing.T) {
	series, _, err := LowestEnergyFED(fedRows(), CollectionOptions{
		GroupBy: []string{"system"},
		Bias:    0.5,
	})
	if err != nil {
		t.Fatalf("fed: %v", err)
	}
	// graphene path starts at 4.92 with 4 electrons left: 4.92-4*0.5.
	v, ok := series[0].Y[0].Value()
	if !ok || !almostEqual(v, 4.92-2.0) {
		t.Fatalf("biased opening energy: %v ok=%v", v, ok)
	}
	// The series name still reports the zero-bias overpotential.
	if !strings.Contains(series[0].Name, "(OP: ") {
		t.Fatalf("name should keep OP suffix: %q", series[0].Name)
	}
}

func TestFEDSeriesIncompleteGroupKeepsGaps(t *testing.T) {
	rows := append(fedRows(),
		dataset.Row{Adsorbate: "ooh", Site: "ontop", Props: map[string]string{"system": "fe_slab"}},
		dataset.Row{Adsorbate: "oh", Site: "ontop", Energy: dataset.EV(0.9), Props: map[string]string{"system": "fe_slab"}},
	)
	series, _, err := LowestEnergyFED(rows, CollectionOptions{GroupBy: []string{"system"}})
	if err != nil {
		t.Fatalf("fed: %v", err)
	}
	// Groups sorted: fe_slab first. Its name has no OP suffix and its
	// o state renders unknown.
	first := series[0]
	if first.Name != "fe_slab" {
		t.Fatalf("incomplete group name: %q", first.Name)
	}
	if first.Y[6].Known() || first.Y[7].Known() {
		t.Fatalf("missing o state should stay unknown in geometry")
	}
}

func TestFEDSeriesAppliesRules(t *testing.T) {
	series, _, err := LowestEnergyFED(fedRows(), CollectionOptions{
		GroupBy: []string{"system"},
		Colors:  []string{"blue"},
		Rules: []FormatRule{
			{Match: map[string]string{"system": "n_graphene"}, Style: StyleOverride{Dash: "dot"}},
		},
	})
	if err != nil {
		t.Fatalf("fed: %v", err)
	}
	if series[0].Dash != "" {
		t.Fatalf("graphene should stay solid: %q", series[0].Dash)
	}
	if series[3].Dash != "dot" {
		t.Fatalf("n_graphene should be dotted: %q", series[3].Dash)
	}
}

func TestFEDHoverDefaultsToSite(t *testing.T) {
	series, _, err := LowestEnergyFED(fedRows(), CollectionOptions{GroupBy: []string{"system"}})
	if err != nil {
		t.Fatalf("fed: %v", err)
	}
	markers := series[2]
	if markers.Kind != KindMarkers {
		t.Fatalf("expected markers series, got %v", markers.Kind)
	}
	// graphene minima: ooh from bridge, o and oh from ontop.
	want := []string{"", "bridge", "ontop", "ontop", ""}
	for i, w := range want {
		if markers.HoverText[i] != w {
			t.Fatalf("hover[%d] = %q want %q", i, markers.HoverText[i], w)
		}
	}
}
