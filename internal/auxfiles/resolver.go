// internal/auxfiles/resolver.go
package auxfiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Input names one optional auxiliary file from the configuration.
type Input struct {
	Key      string // configuration key, for messages
	Path     string // configured source path, may be empty
	DestName string // conventional file name inside the output directory
}

// Resolved is the outcome for one input.
type Resolved struct {
	Key    string
	Source string
	Dest   string // populated only when the copy happened
	Exists bool
}

// Resolve checks each configured auxiliary file and copies the existing
// ones into outDir under their conventional names. Unset inputs resolve
// to Exists=false with no message-worthy state; configured-but-missing
// inputs resolve the same way but keep their Source so callers can warn.
func Resolve(outDir string, inputs []Input) ([]Resolved, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("auxfiles: %w", err)
	}

	out := make([]Resolved, 0, len(inputs))
	for _, in := range inputs {
		r := Resolved{Key: in.Key, Source: in.Path}

		if in.Path == "" {
			out = append(out, r)
			continue
		}

		if _, err := os.Stat(in.Path); err != nil {
			out = append(out, r)
			continue
		}

		dest := filepath.Join(outDir, in.DestName)
		if err := copyFile(in.Path, dest); err != nil {
			return nil, fmt.Errorf("auxfiles: %s: %w", in.Key, err)
		}

		r.Exists = true
		r.Dest = dest
		out = append(out, r)
	}

	return out, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
