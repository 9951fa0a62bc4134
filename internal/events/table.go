// internal/events/table.go
package events

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Row is one event occurrence: a sample offset into the recording and an
// integer event code.
type Row struct {
	Sample int
	Value  int
}

// Table is an ordered events description read from a tab-separated file.
// Immutable once read.
type Table struct {
	Rows []Row
}

// MissingColumnError marks an events file without a required column.
type MissingColumnError struct {
	Column string
	Path   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("events: %s: missing required column %q", e.Path, e.Column)
}

// ReadTable reads a BIDS-style events file: tab-separated with a header
// row. The sample and value columns are required; all others are ignored.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("events: %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	sampleCol, valueCol := -1, -1
	for i, name := range records[0] {
		switch name {
		case "sample":
			sampleCol = i
		case "value":
			valueCol = i
		}
	}
	if sampleCol < 0 {
		return nil, &MissingColumnError{Column: "sample", Path: path}
	}
	if valueCol < 0 {
		return nil, &MissingColumnError{Column: "value", Path: path}
	}

	t := &Table{Rows: make([]Row, 0, len(records)-1)}
	for i, rec := range records[1:] {
		if len(rec) <= sampleCol || len(rec) <= valueCol {
			return nil, fmt.Errorf("events: %s: row %d is too short", path, i+1)
		}
		sample, err := strconv.Atoi(rec[sampleCol])
		if err != nil {
			return nil, fmt.Errorf("events: %s: row %d: bad sample %q", path, i+1, rec[sampleCol])
		}
		value, err := strconv.Atoi(rec[valueCol])
		if err != nil {
			return nil, fmt.Errorf("events: %s: row %d: bad value %q", path, i+1, rec[valueCol])
		}
		t.Rows = append(t.Rows, Row{Sample: sample, Value: value})
	}

	return t, nil
}
