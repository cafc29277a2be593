package dataset

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical column names. Loaders map these onto Row fields; any other
// column lands in Row.Props verbatim.
const (
	ColAdsorbate  = "adsorbate"
	ColSite       = "site"
	ColEnergy     = "ads_e"
	ColElectronic = "elec_energy"
	ColCorrection = "gibbs_correction"
	ColAtomCounts = "atom_counts"

	colNumO = "num_O"
	colNumH = "num_H"
)

// AtomCounts gives the number of adsorbate atoms per element for one row.
// Absent elements count as zero.
type AtomCounts struct {
	O int `json:"O"`
	H int `json:"H"`
}

// Row is one relaxed structure from a DFT post-processing table: an
// adsorbate state on a binding site with its energies. The zero value
// of every Energy field is unknown, so partially computed tables load
// without sentinel values.
type Row struct {
	Adsorbate  string // state name: ooh, o, oh, bulk
	Site       string // binding site label, may be empty
	Energy     Energy // adsorption free energy, eV
	Electronic Energy // raw electronic energy, eV
	Correction Energy // free-energy correction (ZPE, entropy, solvation), eV

	// Atoms carries explicit O/H counts when the table provides them;
	// nil means counts derive from the adsorbate name.
	Atoms *AtomCounts

	// Props holds every column the loader did not map to a field,
	// keyed by column name, values as display text.
	Props map[string]string
}

// Prop returns the named column as display text. Field-backed columns
// resolve by their canonical names; unknown energies render as "".
func (r Row) Prop(name string) string {
	switch name {
	case ColAdsorbate:
		return r.Adsorbate
	case ColSite:
		return r.Site
	case ColEnergy:
		return r.Energy.propText()
	case ColElectronic:
		return r.Electronic.propText()
	case ColCorrection:
		return r.Correction.propText()
	}
	return r.Props[name]
}

func (e Energy) propText() string {
	if !e.known {
		return ""
	}
	return strconv.FormatFloat(e.ev, 'g', -1, 64)
}

// rowJSONFields is the set of keys decodeRow maps onto Row fields when
// reading flat JSONL objects.
func decodeRow(m map[string]json.RawMessage, stateKey, energyKey string) (Row, error) {
	var r Row
	for key, raw := range m {
		switch key {
		case stateKey:
			if err := json.Unmarshal(raw, &r.Adsorbate); err != nil {
				return r, fmt.Errorf("column %q: %w", key, err)
			}
		case energyKey:
			if err := r.Energy.UnmarshalJSON(raw); err != nil {
				return r, fmt.Errorf("column %q: %w", key, err)
			}
		case ColSite:
			if err := json.Unmarshal(raw, &r.Site); err != nil {
				return r, fmt.Errorf("column %q: %w", key, err)
			}
		case ColElectronic:
			if err := r.Electronic.UnmarshalJSON(raw); err != nil {
				return r, fmt.Errorf("column %q: %w", key, err)
			}
		case ColCorrection:
			if err := r.Correction.UnmarshalJSON(raw); err != nil {
				return r, fmt.Errorf("column %q: %w", key, err)
			}
		case ColAtomCounts:
			var ac AtomCounts
			if err := json.Unmarshal(raw, &ac); err != nil {
				return r, fmt.Errorf("column %q: %w", key, err)
			}
			r.Atoms = &ac
		default:
			if r.Props == nil {
				r.Props = map[string]string{}
			}
			r.Props[key] = rawToText(raw)
		}
	}
	return r, nil
}

// rawToText renders an arbitrary JSON value as hover/display text.
// Strings lose their quotes, null becomes "", everything else keeps
// its JSON spelling.
func rawToText(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}

// UnmarshalJSON reads one flat JSONL object using canonical column names.
func (r *Row) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	row, err := decodeRow(m, ColAdsorbate, ColEnergy)
	if err != nil {
		return err
	}
	*r = row
	return nil
}

// MarshalJSON writes the row back as a flat object, mirroring the
// loader's input shape. Props keys are emitted in sorted order via the
// intermediate map (encoding/json sorts map keys).
func (r Row) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		ColAdsorbate: r.Adsorbate,
		ColEnergy:    r.Energy,
	}
	if r.Site != "" {
		m[ColSite] = r.Site
	}
	if r.Electronic.Known() {
		m[ColElectronic] = r.Electronic
	}
	if r.Correction.Known() {
		m[ColCorrection] = r.Correction
	}
	if r.Atoms != nil {
		m[ColAtomCounts] = r.Atoms
	}
	for k, v := range r.Props {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// PropNames returns the sorted Props keys, for stable iteration.
func (r Row) PropNames() []string {
	names := make([]string, 0, len(r.Props))
	for k := range r.Props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
