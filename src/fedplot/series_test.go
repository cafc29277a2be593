package fedplot

import (
	"testing"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/orr"
)

func testDiagram(t *testing.T) orr.Diagram {
	t.Helper()
	d, err := orr.NewDiagram([]dataset.Row{
		{Adsorbate: "ooh", Site: "ontop", Energy: dataset.EV(3.0)},
		{Adsorbate: "o", Site: "bridge", Energy: dataset.EV(2.0)},
		{Adsorbate: "oh", Site: "ontop", Energy: dataset.EV(1.0)},
	})
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	return d
}

func TestBuildSeriesModeSelection(t *testing.T) {
	g := Expand(knownEnergies(4.92, 3.0, 0.0), DefaultSpacing, DefaultStepSize)

	all := BuildSeries(g, ModeAll, "x", "blue", StyleOverride{}, nil)
	if len(all) != 3 {
		t.Fatalf("all mode: %d series", len(all))
	}
	if all[0].Kind != KindStepSegments || all[1].Kind != KindConnectedLine || all[2].Kind != KindMarkers {
		t.Fatalf("all mode kinds: %v %v %v", all[0].Kind, all[1].Kind, all[2].Kind)
	}

	states := BuildSeries(g, ModeStatesOnly, "x", "blue", StyleOverride{}, nil)
	if len(states) != 2 || states[0].Kind != KindStepSegments || states[1].Kind != KindMarkers {
		t.Fatalf("states_only series: %+v", states)
	}

	lines := BuildSeries(g, ModeFullLines, "x", "blue", StyleOverride{}, nil)
	if len(lines) != 2 || lines[0].Kind != KindConnectedLine || lines[1].Kind != KindMarkers {
		t.Fatalf("full_lines series: %+v", lines)
	}
}

func TestBuildSeriesLegendRules(t *testing.T) {
	g := Expand(knownEnergies(4.92, 0.0), DefaultSpacing, DefaultStepSize)

	all := BuildSeries(g, ModeAll, "x", "blue", StyleOverride{}, nil)
	if !all[0].ShowLegend || all[1].ShowLegend || all[2].ShowLegend {
		t.Fatalf("all mode legend flags: %v %v %v", all[0].ShowLegend, all[1].ShowLegend, all[2].ShowLegend)
	}
	lines := BuildSeries(g, ModeFullLines, "x", "blue", StyleOverride{}, nil)
	if !lines[0].ShowLegend {
		t.Fatalf("full_lines thin line should carry the legend")
	}
	for _, s := range all {
		if s.LegendGroup != "x" {
			t.Fatalf("legend group: %q", s.LegendGroup)
		}
	}
}

func TestBuildSeriesStyleOverrideSparesMarkers(t *testing.T) {
	g := Expand(knownEnergies(4.92, 0.0), DefaultSpacing, DefaultStepSize)
	override := StyleOverride{Color: "green", Dash: "dot"}
	all := BuildSeries(g, ModeAll, "x", "blue", override, nil)
	if all[0].Color != "green" || all[1].Color != "green" {
		t.Fatalf("lines should take override color: %q %q", all[0].Color, all[1].Color)
	}
	if all[0].Dash != "dot" {
		t.Fatalf("thick line should take override dash: %q", all[0].Dash)
	}
	if all[2].Color != "blue" {
		t.Fatalf("markers keep the base color: %q", all[2].Color)
	}
}

func TestBuildSeriesWidths(t *testing.T) {
	g := Expand(knownEnergies(4.92, 0.0), DefaultSpacing, DefaultStepSize)
	all := BuildSeries(g, ModeAll, "x", "blue", StyleOverride{}, nil)
	if all[0].Width != StepLineWidth || all[1].Width != ConnectedLineWidth || all[2].Width != MarkerSize {
		t.Fatalf("widths: %v %v %v", all[0].Width, all[1].Width, all[2].Width)
	}
}

func TestSeriesName(t *testing.T) {
	if got := SeriesName("runA", "graphene", 0.2299999999, true); got != "runA: graphene (OP: 0.23)" {
		t.Fatalf("name with opt: %q", got)
	}
	if got := SeriesName("", "graphene", 1.0, true); got != "graphene (OP: 1)" {
		t.Fatalf("name without opt: %q", got)
	}
	if got := SeriesName("", "graphene", 0, false); got != "graphene" {
		t.Fatalf("name without op: %q", got)
	}
	if got := SeriesName("runA", "", 0.5, true); got != "runA:  (OP: 0.5)" {
		t.Fatalf("name with empty key: %q", got)
	}
}

func TestHoverTextSingleColumn(t *testing.T) {
	d := testDiagram(t)
	hover := HoverText(d, []string{"site"})
	// States in order: bulk, ooh, o, oh, bulk. Bulk rows have no site.
	want := []string{"", "ontop", "bridge", "ontop", ""}
	if len(hover) != len(want) {
		t.Fatalf("hover length: %d", len(hover))
	}
	for i, w := range want {
		if hover[i] != w {
			t.Fatalf("hover[%d] = %q want %q", i, hover[i], w)
		}
	}
}

func TestHoverTextJoinsColumns(t *testing.T) {
	d, err := orr.NewDiagram([]dataset.Row{
		{Adsorbate: "ooh", Site: "ontop", Energy: dataset.EV(3.0), Props: map[string]string{"coverage": "1/4"}},
		{Adsorbate: "o", Site: "bridge", Energy: dataset.EV(2.0)},
		{Adsorbate: "oh", Site: "ontop", Energy: dataset.EV(1.0), Props: map[string]string{"coverage": "1/2"}},
	})
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	hover := HoverText(d, []string{"site", "coverage"})
	if hover[1] != "ontop | 1/4" {
		t.Fatalf("hover[1] = %q", hover[1])
	}
	if hover[2] != "bridge | " {
		t.Fatalf("hover[2] = %q", hover[2])
	}
	// All-empty entries collapse instead of rendering separators.
	if hover[0] != "" || hover[4] != "" {
		t.Fatalf("bulk hover should collapse: %q, %q", hover[0], hover[4])
	}
}

func TestHoverTextNoColumns(t *testing.T) {
	if HoverText(testDiagram(t), nil) != nil {
		t.Fatalf("no columns should produce no hover text")
	}
}
