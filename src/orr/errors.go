package orr

import (
	"fmt"
	"strings"
)

// MissingStateError reports a lookup of a state that was never
// inserted into the table. Distinct from a state present with an
// unknown energy, which lookups return as unknown without error.
type MissingStateError struct {
	State string
}

func (e *MissingStateError) Error() string {
	return fmt.Sprintf("state %q not present in energy table", e.State)
}

// IncompletePathError reports an overpotential computation over a path
// with unknown entries. A numeric maximum over unknown values has no
// defined answer, so the computation refuses instead of guessing.
type IncompletePathError struct {
	States []string // states whose energy is unknown
}

func (e *IncompletePathError) Error() string {
	return fmt.Sprintf("path incomplete, unknown energy for states: %s", strings.Join(e.States, ", "))
}

// H2O2PathLengthError reports a peroxide path that does not resolve to
// exactly one bulk and one ooh row.
type H2O2PathLengthError struct {
	Got int // matching rows found
}

func (e *H2O2PathLengthError) Error() string {
	return fmt.Sprintf("peroxide path needs exactly 2 states (bulk, ooh), got %d matching rows", e.Got)
}
