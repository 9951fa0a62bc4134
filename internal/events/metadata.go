// internal/events/metadata.go
package events

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Metadata is a per-epoch metadata table, carried through to the output
// untouched. Cells stay strings; interpretation belongs downstream.
type Metadata struct {
	Columns []string
	Rows    [][]string
}

// LoadMetadata reads a tab-separated metadata file with a header row.
func LoadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("metadata: %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("metadata: %s: empty file", path)
	}

	return &Metadata{Columns: records[0], Rows: records[1:]}, nil
}
