// internal/recording/annotations.go
package recording

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OpenPSG/edf"
)

// readAnnotations decodes the EDF+ annotations signal at signalIndex.
// Each data record carries NUL-separated timestamped annotation lists:
// "+onset[\x15duration]\x14label\x14". Timekeeping entries with an empty
// label are skipped.
func readAnnotations(r io.ReadSeeker, hdr *edf.Header, signalIndex int) ([]Annotation, error) {
	recordSize := 0
	signalOffset := 0
	for i, sig := range hdr.Signals {
		if i < signalIndex {
			signalOffset += sig.SamplesPerRecord * 2
		}
		recordSize += sig.SamplesPerRecord * 2
	}

	width := hdr.Signals[signalIndex].SamplesPerRecord * 2
	buf := make([]byte, width)

	var anns []Annotation
	for rec := 0; rec < hdr.DataRecords; rec++ {
		pos := int64(hdr.HeaderBytes) + int64(rec)*int64(recordSize) + int64(signalOffset)
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return nil, fmt.Errorf("annotations: %w", err)
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("annotations: %w", err)
		}

		for _, tal := range strings.Split(string(buf), "\x00") {
			if tal == "" {
				continue
			}
			ann, ok, err := parseTAL(tal)
			if err != nil {
				return nil, err
			}
			if ok {
				anns = append(anns, ann...)
			}
		}
	}

	return anns, nil
}

// parseTAL parses one timestamped annotation list. Returns ok=false for
// timekeeping TALs that carry no labels.
func parseTAL(tal string) ([]Annotation, bool, error) {
	parts := strings.Split(tal, "\x14")
	if len(parts) < 2 {
		return nil, false, nil
	}

	onsetStr, durationStr, hasDuration := strings.Cut(parts[0], "\x15")
	onset, err := strconv.ParseFloat(onsetStr, 64)
	if err != nil {
		return nil, false, fmt.Errorf("annotations: bad onset %q", onsetStr)
	}

	duration := 0.0
	if hasDuration {
		if duration, err = strconv.ParseFloat(durationStr, 64); err != nil {
			return nil, false, fmt.Errorf("annotations: bad duration %q", durationStr)
		}
	}

	var anns []Annotation
	for _, label := range parts[1:] {
		if label == "" {
			continue
		}
		anns = append(anns, Annotation{Onset: onset, Duration: duration, Label: label})
	}
	return anns, len(anns) > 0, nil
}
