package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTemp(t, "rows.csv",
		"adsorbate,site,ads_e,notes\n"+
			"ooh,ontop,3.1,good\n"+
			"o,bridge,2.0,\n"+
			"oh,ontop,,converging\n")
	rows, err := LoadCSV(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows got %d", len(rows))
	}
	if rows[0].Adsorbate != "ooh" || rows[0].Site != "ontop" {
		t.Fatalf("row0 fields: %+v", rows[0])
	}
	if v, ok := rows[0].Energy.Value(); !ok || v != 3.1 {
		t.Fatalf("row0 energy: %v ok=%v", v, ok)
	}
	if rows[2].Energy.Known() {
		t.Fatalf("empty cell should load as unknown")
	}
	if rows[0].Props["notes"] != "good" {
		t.Fatalf("extra column should land in Props: %+v", rows[0].Props)
	}
}

func TestLoadCSVSchemaError(t *testing.T) {
	path := writeTemp(t, "bad.csv", "site,notes\nontop,x\n")
	_, err := LoadCSV(path, LoadOptions{})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(se.Missing) != 2 {
		t.Fatalf("expected both columns reported missing, got %v", se.Missing)
	}
}

func TestLoadCSVEnergyOptional(t *testing.T) {
	path := writeTemp(t, "elec.csv",
		"adsorbate,elec_energy\n"+
			"oh,-120.5\n")
	rows, err := LoadCSV(path, LoadOptions{EnergyOptional: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rows[0].Energy.Known() {
		t.Fatalf("energy should be unknown before adsorption computation")
	}
	if v, ok := rows[0].Electronic.Value(); !ok || v != -120.5 {
		t.Fatalf("electronic energy: %v ok=%v", v, ok)
	}
}

func TestLoadCSVCustomColumns(t *testing.T) {
	path := writeTemp(t, "custom.csv",
		"state,free_energy\n"+
			"oh,1.0\n")
	rows, err := LoadCSV(path, LoadOptions{StateColumn: "state", EnergyColumn: "free_energy"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rows[0].Adsorbate != "oh" {
		t.Fatalf("custom state column not mapped: %+v", rows[0])
	}
	if v, ok := rows[0].Energy.Value(); !ok || v != 1.0 {
		t.Fatalf("custom energy column not mapped: %v ok=%v", v, ok)
	}
	if _, there := rows[0].Props["state"]; there {
		t.Fatalf("mapped column should not duplicate into Props")
	}
}

func TestLoadCSVAtomCountColumns(t *testing.T) {
	path := writeTemp(t, "counts.csv",
		"adsorbate,ads_e,num_O,num_H\n"+
			"custom,1.0,3,2\n")
	rows, err := LoadCSV(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rows[0].Atoms == nil || rows[0].Atoms.O != 3 || rows[0].Atoms.H != 2 {
		t.Fatalf("atom count columns not mapped: %+v", rows[0].Atoms)
	}
}

func TestLoadJSONL(t *testing.T) {
	path := writeTemp(t, "rows.jsonl",
		`{"adsorbate":"ooh","site":"ontop","ads_e":3.1,"coverage":"1/4"}`+"\n"+
			"\n"+
			`{"adsorbate":"oh","site":"bridge","ads_e":null,"atom_counts":{"O":1,"H":1}}`+"\n")
	rows, err := LoadJSONL(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (blank line skipped) got %d", len(rows))
	}
	if v, ok := rows[0].Energy.Value(); !ok || v != 3.1 {
		t.Fatalf("row0 energy: %v ok=%v", v, ok)
	}
	if rows[0].Props["coverage"] != "1/4" {
		t.Fatalf("extra key should land in Props: %+v", rows[0].Props)
	}
	if rows[1].Energy.Known() {
		t.Fatalf("null energy should load as unknown")
	}
	if rows[1].Atoms == nil || rows[1].Atoms.O != 1 || rows[1].Atoms.H != 1 {
		t.Fatalf("atom_counts not mapped: %+v", rows[1].Atoms)
	}
}

func TestLoadJSONLSchemaErrorReportsLine(t *testing.T) {
	path := writeTemp(t, "bad.jsonl",
		`{"adsorbate":"ooh","ads_e":3.1}`+"\n"+
			`{"site":"ontop","ads_e":2.0}`+"\n")
	_, err := LoadJSONL(path, LoadOptions{})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Line != 2 {
		t.Fatalf("expected line 2, got %d", se.Line)
	}
	if len(se.Missing) != 1 || se.Missing[0] != "adsorbate" {
		t.Fatalf("unexpected missing set: %v", se.Missing)
	}
}

func TestLoadJSONLMalformedLineFails(t *testing.T) {
	path := writeTemp(t, "malformed.jsonl", `{"adsorbate":"ooh","ads_e":`+"\n")
	if _, err := LoadJSONL(path, LoadOptions{}); err == nil {
		t.Fatalf("expected parse error for malformed line")
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	csvPath := writeTemp(t, "rows.csv", "adsorbate,ads_e\noh,1.0\n")
	rows, err := Load(csvPath, LoadOptions{})
	if err != nil || len(rows) != 1 {
		t.Fatalf("csv dispatch: rows=%d err=%v", len(rows), err)
	}
	jsonlPath := writeTemp(t, "rows.jsonl", `{"adsorbate":"oh","ads_e":1.0}`+"\n")
	rows, err = Load(jsonlPath, LoadOptions{})
	if err != nil || len(rows) != 1 {
		t.Fatalf("jsonl dispatch: rows=%d err=%v", len(rows), err)
	}
}

func TestRowProp(t *testing.T) {
	r := Row{Adsorbate: "oh", Site: "ontop", Energy: EV(1.25), Props: map[string]string{"coverage": "1/4"}}
	if r.Prop("adsorbate") != "oh" || r.Prop("site") != "ontop" {
		t.Fatalf("field-backed props wrong: %q %q", r.Prop("adsorbate"), r.Prop("site"))
	}
	if r.Prop("ads_e") != "1.25" {
		t.Fatalf("ads_e prop: %q", r.Prop("ads_e"))
	}
	if r.Prop("coverage") != "1/4" {
		t.Fatalf("props lookup: %q", r.Prop("coverage"))
	}
	if (Row{}).Prop("ads_e") != "" {
		t.Fatalf("unknown energy should render empty")
	}
	if r.Prop("nope") != "" {
		t.Fatalf("absent prop should render empty")
	}
}
