package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LoadOptions selects which columns carry the state name and the free
// energy, for tables whose headers deviate from the canonical names.
type LoadOptions struct {
	StateColumn  string // default "adsorbate"
	EnergyColumn string // default "ads_e"
	// EnergyOptional permits tables without the free-energy column.
	// Used when loading raw electronic energies that still need
	// ComputeAdsorptionColumn; rows load with unknown Energy.
	EnergyOptional bool
}

func (o LoadOptions) stateColumn() string {
	if o.StateColumn == "" {
		return ColAdsorbate
	}
	return o.StateColumn
}

func (o LoadOptions) energyColumn() string {
	if o.EnergyColumn == "" {
		return ColEnergy
	}
	return o.EnergyColumn
}

// SchemaError reports required columns absent from an input table.
// Fatal: a table without the state or energy column cannot feed any
// diagram, so there is no partial recovery.
type SchemaError struct {
	Path    string   // input file, may be empty
	Line    int      // 1-based JSONL line, 0 for a CSV header
	Missing []string // absent column names
}

func (e *SchemaError) Error() string {
	where := e.Path
	if where == "" {
		where = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s line %d: missing required columns: %s", where, e.Line, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: missing required columns: %s", where, strings.Join(e.Missing, ", "))
}

// Load reads a table of adsorbate rows, dispatching on file extension:
// .csv is parsed as CSV with a header line, anything else as JSONL.
func Load(path string, opts LoadOptions) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(path, opts)
	}
	return LoadJSONL(path, opts)
}

// LoadCSV reads a header-first CSV table into rows. The header must
// contain the state column, and the energy column unless
// opts.EnergyOptional is set; otherwise a *SchemaError is returned.
func LoadCSV(path string, opts LoadOptions) ([]Row, error) {
	defer TimeTrack(time.Now(), "load csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fmt.Printf("[dataset] reading rows from %s (format=csv)\n", path)

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Path: path, Missing: []string{opts.stateColumn(), opts.energyColumn()}}
		}
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	var missing []string
	if _, ok := colIndex[opts.stateColumn()]; !ok {
		missing = append(missing, opts.stateColumn())
	}
	if _, ok := colIndex[opts.energyColumn()]; !ok && !opts.EnergyOptional {
		missing = append(missing, opts.energyColumn())
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	var rows []Row
	for lineNo := 2; ; lineNo++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		row, err := rowFromRecord(header, record, opts)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		rows = append(rows, row)
	}
	Debugf("loaded %d rows from %s", len(rows), path)
	return rows, nil
}

func rowFromRecord(header, record []string, opts LoadOptions) (Row, error) {
	var r Row
	var numO, numH int
	var haveCounts bool
	for i, name := range header {
		cell := record[i]
		switch name {
		case opts.stateColumn():
			r.Adsorbate = strings.TrimSpace(cell)
		case opts.energyColumn():
			e, err := ParseEnergy(cell)
			if err != nil {
				return r, fmt.Errorf("column %q: %w", name, err)
			}
			r.Energy = e
		case ColSite:
			r.Site = strings.TrimSpace(cell)
		case ColElectronic:
			e, err := ParseEnergy(cell)
			if err != nil {
				return r, fmt.Errorf("column %q: %w", name, err)
			}
			r.Electronic = e
		case ColCorrection:
			e, err := ParseEnergy(cell)
			if err != nil {
				return r, fmt.Errorf("column %q: %w", name, err)
			}
			r.Correction = e
		case colNumO, colNumH:
			t := strings.TrimSpace(cell)
			if t == "" {
				continue
			}
			n, err := strconv.Atoi(t)
			if err != nil {
				return r, fmt.Errorf("column %q: %w", name, err)
			}
			if name == colNumO {
				numO = n
			} else {
				numH = n
			}
			haveCounts = true
		default:
			if r.Props == nil {
				r.Props = map[string]string{}
			}
			r.Props[name] = cell
		}
	}
	if haveCounts {
		r.Atoms = &AtomCounts{O: numO, H: numH}
	}
	return r, nil
}

// LoadJSONL reads one flat JSON object per line. Every object must
// carry the state column; the energy column as well unless
// opts.EnergyOptional is set. Blank lines are skipped; a malformed
// line is an error, not a skip, since each line is one measured
// structure and dropping it would silently thin the diagram.
func LoadJSONL(path string, opts LoadOptions) ([]Row, error) {
	defer TimeTrack(time.Now(), "load jsonl")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fmt.Printf("[dataset] reading rows from %s (format=jsonl)\n", path)

	// Reads whole lines without Scanner's token cap; a single line is
	// still bounded by MaxLineBytes.
	reader := bufio.NewReader(f)
	const MaxLineBytes = 16 * 1024 * 1024
	var rows []Row
	lineNo := 0
readLoop:
	for {
		var line []byte
		for {
			part, rerr := reader.ReadBytes('\n')
			if len(part) > 0 {
				if len(line)+len(part) > MaxLineBytes {
					return nil, fmt.Errorf("%s line %d: line exceeds %d bytes", path, lineNo+1, MaxLineBytes)
				}
				line = append(line, part...)
			}
			if rerr == nil {
				break
			}
			if errors.Is(rerr, io.EOF) {
				if len(line) == 0 {
					break readLoop
				}
				break
			}
			if errors.Is(rerr, bufio.ErrBufferFull) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, rerr)
		}
		lineNo++
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" {
			continue
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &m); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		var missing []string
		if _, ok := m[opts.stateColumn()]; !ok {
			missing = append(missing, opts.stateColumn())
		}
		if _, ok := m[opts.energyColumn()]; !ok && !opts.EnergyOptional {
			missing = append(missing, opts.energyColumn())
		}
		if len(missing) > 0 {
			return nil, &SchemaError{Path: path, Line: lineNo, Missing: missing}
		}
		row, err := decodeRow(m, opts.stateColumn(), opts.energyColumn())
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		rows = append(rows, row)
	}
	Debugf("loaded %d rows from %s", len(rows), path)
	return rows, nil
}
