package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Energy is an optional energy value in eV. The zero value is unknown.
// A relaxation that never ran or never converged produces an unknown
// energy; downstream code must decide per call site whether unknown is
// tolerable (plotting skips the point) or fatal (overpotentials refuse
// to compute). Arithmetic on unknown stays unknown.
type Energy struct {
	ev    float64
	known bool
}

// EV wraps a known value in eV.
func EV(v float64) Energy { return Energy{ev: v, known: true} }

// Unknown returns the missing value.
func Unknown() Energy { return Energy{} }

// Known reports whether the value is present.
func (e Energy) Known() bool { return e.known }

// Value returns the value in eV and whether it is known.
func (e Energy) Value() (float64, bool) { return e.ev, e.known }

// Plus returns e+o, unknown if either operand is unknown.
func (e Energy) Plus(o Energy) Energy {
	if !e.known || !o.known {
		return Unknown()
	}
	return EV(e.ev + o.ev)
}

// Minus returns e-o, unknown if either operand is unknown.
func (e Energy) Minus(o Energy) Energy {
	if !e.known || !o.known {
		return Unknown()
	}
	return EV(e.ev - o.ev)
}

// AddFloat returns e+v, unknown if e is unknown.
func (e Energy) AddFloat(v float64) Energy {
	if !e.known {
		return Unknown()
	}
	return EV(e.ev + v)
}

// Float returns the value, or NaN when unknown. This is the rendering
// boundary escape hatch for chart series; calculations use Value and
// handle unknown explicitly.
func (e Energy) Float() float64 {
	if !e.known {
		return math.NaN()
	}
	return e.ev
}

func (e Energy) String() string {
	if !e.known {
		return "?"
	}
	return strconv.FormatFloat(e.ev, 'g', -1, 64)
}

// MarshalJSON encodes unknown as null.
func (e Energy) MarshalJSON() ([]byte, error) {
	if !e.known {
		return []byte("null"), nil
	}
	return json.Marshal(e.ev)
}

// UnmarshalJSON accepts a number, null, or an empty string for unknown.
func (e *Energy) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*e = Unknown()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*e = EV(v)
	return nil
}

// ParseEnergy converts a table cell to an Energy. Empty cells and the
// spellings NaN/nan/None produce unknown rather than an error; anything
// else must parse as a float.
func ParseEnergy(s string) (Energy, error) {
	t := strings.TrimSpace(s)
	switch strings.ToLower(t) {
	case "", "nan", "none", "null":
		return Unknown(), nil
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return Unknown(), err
	}
	if math.IsNaN(v) {
		return Unknown(), nil
	}
	return EV(v), nil
}
