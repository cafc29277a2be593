package orr

import (
	"errors"
	"math"
	"testing"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func sampleRows() []dataset.Row {
	return []dataset.Row{
		{Adsorbate: "ooh", Site: "ontop", Energy: dataset.EV(3.0)},
		{Adsorbate: "o", Site: "bridge", Energy: dataset.EV(2.0)},
		{Adsorbate: "oh", Site: "ontop", Energy: dataset.EV(1.0)},
	}
}

func TestTableFromRowsRejectsMissingStateName(t *testing.T) {
	_, err := TableFromRows([]dataset.Row{{Energy: dataset.EV(1.0)}})
	var se *dataset.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestWithBulkEntryAppends(t *testing.T) {
	tab, err := TableFromRows(sampleRows())
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	withBulk := tab.WithBulkEntry(0.0)
	if tab.Len() != 3 {
		t.Fatalf("original table mutated: len=%d", tab.Len())
	}
	if withBulk.Len() != 4 {
		t.Fatalf("bulk entry not appended: len=%d", withBulk.Len())
	}
	e, err := withBulk.Lookup(StateBulk)
	if err != nil {
		t.Fatalf("lookup bulk: %v", err)
	}
	if v, ok := e.Value(); !ok || v != 0.0 {
		t.Fatalf("bulk energy: %v ok=%v", v, ok)
	}
	// Calling twice duplicates, by contract.
	if withBulk.WithBulkEntry(0.0).CountState(StateBulk) != 2 {
		t.Fatalf("second bulk entry should duplicate")
	}
}

func TestWithMissingStatesFilled(t *testing.T) {
	tab, _ := TableFromRows([]dataset.Row{{Adsorbate: "oh", Energy: dataset.EV(1.0)}})
	filled := tab.WithBulkEntry(0.0).WithMissingStatesFilled(MechanismStates())
	for _, state := range MechanismStates() {
		e, err := filled.Lookup(state)
		if err != nil {
			t.Fatalf("lookup %s after fill: %v", state, err)
		}
		switch state {
		case StateOH, StateBulk:
			if !e.Known() {
				t.Fatalf("%s should stay known", state)
			}
		default:
			if e.Known() {
				t.Fatalf("%s should be filled as unknown", state)
			}
		}
	}
	// bulk and oh already present: only ooh and o inserted.
	if filled.Len() != 4 {
		t.Fatalf("expected 4 rows after fill, got %d", filled.Len())
	}
}

func TestLookupDistinguishesAbsentFromUnknown(t *testing.T) {
	tab, _ := TableFromRows([]dataset.Row{{Adsorbate: "ooh"}})
	e, err := tab.Lookup(StateOOH)
	if err != nil {
		t.Fatalf("present row with unknown energy should not error: %v", err)
	}
	if e.Known() {
		t.Fatalf("energy should be unknown")
	}
	_, err = tab.Lookup(StateO)
	var mse *MissingStateError
	if !errors.As(err, &mse) {
		t.Fatalf("expected MissingStateError, got %v", err)
	}
	if mse.State != StateO {
		t.Fatalf("wrong state in error: %q", mse.State)
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	tab, _ := TableFromRows([]dataset.Row{
		{Adsorbate: "oh", Energy: dataset.EV(1.5)},
		{Adsorbate: "oh", Energy: dataset.EV(1.0)},
	})
	e, err := tab.Lookup(StateOH)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if v, _ := e.Value(); v != 1.5 {
		t.Fatalf("first match should win, got %v", v)
	}
}

func TestBuildPathCanonical(t *testing.T) {
	d, err := NewDiagram(sampleRows())
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	p := d.Path
	if p.Len() != 5 {
		t.Fatalf("path length: %d", p.Len())
	}
	want := []float64{4.92, 3.0, 2.0, 1.0, 0.0}
	for i, w := range want {
		v, ok := p.Energies[i].Value()
		if !ok || !almostEqual(v, w) {
			t.Fatalf("path[%d] = %v ok=%v want %v", i, v, ok, w)
		}
	}
	if p.States[0] != StateBulk || p.States[4] != StateBulk {
		t.Fatalf("path must open and close at bulk: %v", p.States)
	}
}

func TestBuildPathPropagatesUnknown(t *testing.T) {
	// No o row: filled as unknown, path carries the gap.
	rows := []dataset.Row{
		{Adsorbate: "ooh", Energy: dataset.EV(3.0)},
		{Adsorbate: "oh", Energy: dataset.EV(1.0)},
	}
	d, err := NewDiagram(rows)
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	if d.Path.Energies[2].Known() {
		t.Fatalf("missing o state should propagate as unknown")
	}
	if got := d.Path.UnknownStates(); len(got) != 1 || got[0] != StateO {
		t.Fatalf("unknown states: %v", got)
	}
	if d.Path.Complete() {
		t.Fatalf("path with gap should not be complete")
	}
}

func TestBuildPathMissingStateFails(t *testing.T) {
	// Unfilled table: bulk never inserted.
	tab, _ := TableFromRows(sampleRows())
	_, err := BuildPath(tab)
	var mse *MissingStateError
	if !errors.As(err, &mse) {
		t.Fatalf("expected MissingStateError, got %v", err)
	}
}

func TestPathRoundTrip(t *testing.T) {
	d, err := NewDiagram(sampleRows())
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	states := MechanismStates()
	for i := 1; i < len(states); i++ {
		e, err := d.Table.Lookup(states[i])
		if err != nil {
			t.Fatalf("lookup %s: %v", states[i], err)
		}
		ev, _ := e.Value()
		pv, _ := d.Path.Energies[i].Value()
		if ev != pv {
			t.Fatalf("path[%d]=%v disagrees with table %v", i, pv, ev)
		}
	}
	// Opening element carries the reference offset.
	bulk, _ := d.Table.Lookup(StateBulk)
	bv, _ := bulk.Value()
	p0, _ := d.Path.Energies[0].Value()
	if !almostEqual(p0, bv+O2RefOffset) {
		t.Fatalf("path[0]=%v want bulk+%v", p0, O2RefOffset)
	}
}

func TestPeroxidePath(t *testing.T) {
	d, err := NewDiagram(sampleRows())
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	p, err := d.PeroxideBranch()
	if err != nil {
		t.Fatalf("peroxide branch: %v", err)
	}
	if p.Len() != 3 {
		t.Fatalf("peroxide path length: %d", p.Len())
	}
	want := []float64{4.92, 3.0, PeroxideEnergy}
	for i, w := range want {
		v, ok := p.Energies[i].Value()
		if !ok || !almostEqual(v, w) {
			t.Fatalf("peroxide path[%d] = %v ok=%v want %v", i, v, ok, w)
		}
	}
	if p.States[2] != StateH2O2 {
		t.Fatalf("peroxide path should end at h2o2: %v", p.States)
	}
}

func TestPeroxidePathLengthError(t *testing.T) {
	// Two ooh site rows: ambiguous, refuse.
	rows := []dataset.Row{
		{Adsorbate: "ooh", Site: "ontop", Energy: dataset.EV(3.0)},
		{Adsorbate: "ooh", Site: "bridge", Energy: dataset.EV(3.1)},
		{Adsorbate: "o", Energy: dataset.EV(2.0)},
		{Adsorbate: "oh", Energy: dataset.EV(1.0)},
	}
	d, err := NewDiagram(rows)
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	_, err = d.PeroxideBranch()
	var ple *H2O2PathLengthError
	if !errors.As(err, &ple) {
		t.Fatalf("expected H2O2PathLengthError, got %v", err)
	}
	if ple.Got != 3 {
		t.Fatalf("expected 3 matching rows reported, got %d", ple.Got)
	}
}
