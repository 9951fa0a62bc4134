// internal/status/encode.go
package status

import (
	"encoding/json"
	"fmt"
	"os"
)

// document is the product.json envelope the platform expects.
type document struct {
	Brainlife []Entry `json:"brainlife"`
}

// Encode serializes the report. No IO. No side effects.
func Encode(r *Report) ([]byte, error) {
	doc := document{Brainlife: r.Entries()}
	if doc.Brainlife == nil {
		doc.Brainlife = []Entry{}
	}
	return json.Marshal(doc)
}

// Save writes the encoded report to path, once, at end of run.
func Save(r *Report, path string) error {
	data, err := Encode(r)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	return nil
}
