package orr

import (
	"testing"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

func siteRows() []dataset.Row {
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
		mk("o", "bridge", "graphene", 2.3),
		mk("oh", "ontop", "graphene", 1.1),
		mk("oh", "bridge", "graphene", 1.0),
		mk("ooh", "ontop", "n_graphene", 3.9),
		mk("o", "ontop", "n_graphene", 2.6),
		mk("oh", "ontop", "n_graphene", 1.6),
	}
}

func TestGroupRowsSortsKeys(t *testing.T) {
	groups := GroupRows(siteRows(), []string{"system"}, "all")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups got %d", len(groups))
	}
	if groups[0].Key != "graphene" || groups[1].Key != "n_graphene" {
		t.Fatalf("groups not sorted by key: %q, %q", groups[0].Key, groups[1].Key)
	}
	if len(groups[0].Rows) != 6 || len(groups[1].Rows) != 3 {
		t.Fatalf("group sizes: %d, %d", len(groups[0].Rows), len(groups[1].Rows))
	}
}

func TestGroupRowsFallbackLabel(t *testing.T) {
	groups := GroupRows(siteRows(), nil, "all")
	if len(groups) != 1 || groups[0].Key != "all" {
		t.Fatalf("expected single fallback group, got %+v", groups)
	}
	if len(groups[0].Rows) != 9 {
		t.Fatalf("fallback group should hold all rows, got %d", len(groups[0].Rows))
	}
}

func TestGroupRowsMultiColumnKey(t *testing.T) {
	rows := []dataset.Row{
		{Adsorbate: "oh", Energy: dataset.EV(1.0), Props: map[string]string{"system": "graphene", "spin": "up"}},
		{Adsorbate: "oh", Energy: dataset.EV(1.2), Props: map[string]string{"system": "graphene", "spin": "down"}},
	}
	groups := GroupRows(rows, []string{"system", "spin"}, "all")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups got %d", len(groups))
	}
	if groups[0].Key != "graphene_down" || groups[1].Key != "graphene_up" {
		t.Fatalf("keys: %q, %q", groups[0].Key, groups[1].Key)
	}
}

func TestLowestEnergyRowsPicksMinimum(t *testing.T) {
	rows := []dataset.Row{
		{Adsorbate: "oh", Site: "ontop", Energy: dataset.EV(1.5)},
		{Adsorbate: "oh", Site: "bridge", Energy: dataset.EV(1.0)},
	}
	out := LowestEnergyRows(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 row got %d", len(out))
	}
	if v, _ := out[0].Energy.Value(); v != 1.0 || out[0].Site != "bridge" {
		t.Fatalf("wrong row selected: %+v", out[0])
	}
}

func TestLowestEnergyRowsTieKeepsFirst(t *testing.T) {
	rows := []dataset.Row{
		{Adsorbate: "oh", Site: "a", Energy: dataset.EV(1.0)},
		{Adsorbate: "oh", Site: "b", Energy: dataset.EV(1.0)},
	}
	out := LowestEnergyRows(rows)
	if out[0].Site != "a" {
		t.Fatalf("tie should keep first occurrence, got %q", out[0].Site)
	}
}

func TestLowestEnergyRowsUnknownLosesToKnown(t *testing.T) {
	rows := []dataset.Row{
		{Adsorbate: "oh", Site: "a"},
		{Adsorbate: "oh", Site: "b", Energy: dataset.EV(2.0)},
		{Adsorbate: "o", Site: "a"},
	}
	out := LowestEnergyRows(rows)
	if len(out) != 2 {
		t.Fatalf("expected 2 rows got %d", len(out))
	}
	// Sorted by adsorbate: o first, then oh.
	if out[0].Adsorbate != "o" || out[0].Energy.Known() {
		t.Fatalf("all-unknown adsorbate should keep first row: %+v", out[0])
	}
	if out[1].Site != "b" {
		t.Fatalf("known energy should beat unknown: %+v", out[1])
	}
}

func TestLowestEnergyDiagrams(t *testing.T) {
	// site and adsorbate collapse out of the grouping.
	ds, err := LowestEnergyDiagrams(siteRows(), []string{"system", "site", "adsorbate"}, "all")
	if err != nil {
		t.Fatalf("diagrams: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("expected 2 diagrams got %d", len(ds))
	}
	if ds[0].Key != "graphene" {
		t.Fatalf("first group key: %q", ds[0].Key)
	}
	// graphene minima: ooh 3.2 (bridge), o 2.1 (ontop), oh 1.0 (bridge)
	e, err := ds[0].Diagram.Table.Lookup(StateOOH)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if v, _ := e.Value(); v != 3.2 {
		t.Fatalf("graphene ooh minimum: %v", v)
	}
	res, err := ds[0].Diagram.Overpotential()
	if err != nil {
		t.Fatalf("overpotential: %v", err)
	}
	// steps: 1.23+3.2-4.92=-0.49, 1.23+2.1-3.2=0.13,
	//        1.23+1.0-2.1=0.13, 1.23+0-1.0=0.23
	if !almostEqual(res.Value, 0.23) || res.LimitingStep != [2]string{StateOH, StateBulk} {
		t.Fatalf("graphene result: %+v", res)
	}
}

func TestAllStatesDiagramsKeepSiteGroups(t *testing.T) {
	// Only adsorbate collapses: site stays a grouping column, so each
	// site renders as its own diagram.
	ds, err := AllStatesDiagrams(siteRows(), []string{"system", "site", "adsorbate"}, "all")
	if err != nil {
		t.Fatalf("diagrams: %v", err)
	}
	if len(ds) != 3 {
		t.Fatalf("expected 3 site diagrams got %d", len(ds))
	}
	want := []string{"graphene_bridge", "graphene_ontop", "n_graphene_ontop"}
	for i, w := range want {
		if ds[i].Key != w {
			t.Fatalf("group %d key: %q want %q", i, ds[i].Key, w)
		}
	}
	e, err := ds[0].Diagram.Table.Lookup(StateOOH)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if v, _ := e.Value(); v != 3.2 {
		t.Fatalf("bridge ooh energy: %v", v)
	}
}
