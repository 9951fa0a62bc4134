// internal/recording/channels.go
package recording

import (
	"encoding/csv"
	"fmt"
	"os"
)

// LoadChannelStatus reads a BIDS-style channels file (tab-separated,
// header row with name and status columns) and returns the names whose
// status is "bad". Files without a status column yield no bads.
func LoadChannelStatus(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("channels: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("channels: %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	nameCol, statusCol := -1, -1
	for i, name := range records[0] {
		switch name {
		case "name":
			nameCol = i
		case "status":
			statusCol = i
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("channels: %s: missing name column", path)
	}
	if statusCol < 0 {
		return nil, nil
	}

	var bads []string
	for _, rec := range records[1:] {
		if len(rec) <= nameCol || len(rec) <= statusCol {
			continue
		}
		if rec[statusCol] == "bad" {
			bads = append(bads, rec[nameCol])
		}
	}
	return bads, nil
}
