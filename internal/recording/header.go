// internal/recording/header.go
package recording

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/edf"
)

// readHeader parses the fixed-layout EDF header into the edf package's
// Header type. The edf reader keeps its parsed header private, so the
// metadata the segmenter needs (labels, rates, record geometry) is
// re-read here from the same byte layout.
func readHeader(r io.Reader) (*edf.Header, error) {
	fixed := make([]byte, 256)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	c := cursor{buf: fixed}
	hdr := &edf.Header{}

	hdr.Version = edf.Version(c.str(8))
	hdr.PatientID = c.str(80)
	hdr.RecordingID = c.str(80)

	dateStr := c.str(8)
	timeStr := c.str(8)
	start, err := time.Parse("02.01.06 15.04.05", dateStr+" "+timeStr)
	if err != nil {
		return nil, fmt.Errorf("header: start time: %w", err)
	}
	hdr.StartTime = start

	if hdr.HeaderBytes, err = c.int(8); err != nil {
		return nil, fmt.Errorf("header: header bytes: %w", err)
	}
	c.skip(44) // reserved

	if hdr.DataRecords, err = c.int(8); err != nil {
		return nil, fmt.Errorf("header: record count: %w", err)
	}

	recordSec, err := c.float(8)
	if err != nil {
		return nil, fmt.Errorf("header: record duration: %w", err)
	}
	hdr.DataRecordDuration = time.Duration(recordSec * float64(time.Second))

	if hdr.SignalCount, err = c.int(4); err != nil {
		return nil, fmt.Errorf("header: signal count: %w", err)
	}

	// Signal fields are stored column-wise: all labels, then all
	// transducers, and so on.
	ns := hdr.SignalCount
	variable := make([]byte, ns*256)
	if _, err := io.ReadFull(r, variable); err != nil {
		return nil, fmt.Errorf("header: signal fields: %w", err)
	}

	c = cursor{buf: variable}
	hdr.Signals = make([]edf.SignalHeader, ns)

	col := func(width int, set func(i int, raw string)) {
		for i := 0; i < ns; i++ {
			set(i, c.str(width))
		}
	}

	col(16, func(i int, raw string) { hdr.Signals[i].Label = raw })
	col(80, func(i int, raw string) { hdr.Signals[i].TransducerType = raw })
	col(8, func(i int, raw string) { hdr.Signals[i].PhysicalDimension = raw })
	col(8, func(i int, raw string) { hdr.Signals[i].PhysicalMin = looseFloat(raw) })
	col(8, func(i int, raw string) { hdr.Signals[i].PhysicalMax = looseFloat(raw) })
	col(8, func(i int, raw string) { hdr.Signals[i].DigitalMin = looseInt(raw) })
	col(8, func(i int, raw string) { hdr.Signals[i].DigitalMax = looseInt(raw) })
	col(80, func(i int, raw string) { hdr.Signals[i].Prefiltering = raw })
	col(8, func(i int, raw string) { hdr.Signals[i].SamplesPerRecord = looseInt(raw) })
	col(32, func(i int, raw string) { hdr.Signals[i].Reserved = raw })

	return hdr, nil
}

// cursor walks fixed-width ASCII fields.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) str(n int) string {
	s := strings.TrimSpace(string(c.buf[c.pos : c.pos+n]))
	c.pos += n
	return s
}

func (c *cursor) skip(n int) { c.pos += n }

func (c *cursor) int(n int) (int, error) {
	return strconv.Atoi(c.str(n))
}

func (c *cursor) float(n int) (float64, error) {
	return strconv.ParseFloat(c.str(n), 64)
}

// looseFloat and looseInt mirror the edf package's tolerant field
// parsing: malformed calibration fields degrade to zero.
func looseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func looseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
