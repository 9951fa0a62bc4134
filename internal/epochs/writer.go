// internal/epochs/writer.go
package epochs

import (
	"fmt"
	"os"
	"time"

	"github.com/OpenPSG/edf"
)

// Save writes the segmented data as an EDF file, one data record per
// epoch. Calibration ranges are computed per channel over all epochs.
func Save(path string, res *Result) error {
	hdr := edf.Header{
		Version:            edf.Version0,
		RecordingID:        "Startdate X X X X epochs",
		StartTime:          time.Now().UTC(),
		DataRecordDuration: recordDuration(res),
		SignalCount:        len(res.Channels),
	}

	for c, ch := range res.Channels {
		lo, hi := physicalRange(res, c)
		hdr.Signals = append(hdr.Signals, edf.SignalHeader{
			Label:             ch.Name,
			PhysicalDimension: ch.Unit,
			PhysicalMin:       lo,
			PhysicalMax:       hi,
			DigitalMin:        -32768,
			DigitalMax:        32767,
			SamplesPerRecord:  res.EpochLength,
		})
	}

	if res.EpochLength*len(res.Channels)*2 > 61440 {
		return fmt.Errorf("epochs: record of %d channels x %d samples exceeds the EDF record size, decimate or shorten the window",
			len(res.Channels), res.EpochLength)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("epochs: %w", err)
	}

	if err := writeRecords(f, hdr, res); err != nil {
		f.Close()
		return fmt.Errorf("epochs: %s: %w", path, err)
	}
	return f.Close()
}

func writeRecords(f *os.File, hdr edf.Header, res *Result) error {
	w, err := edf.Create(f, hdr)
	if err != nil {
		return err
	}
	for _, ep := range res.Epochs {
		if err := w.WriteRecord(ep.Data); err != nil {
			return err
		}
	}
	return w.Close()
}

func recordDuration(res *Result) time.Duration {
	if res.SampleRate <= 0 {
		return time.Second
	}
	return time.Duration(float64(res.EpochLength) / res.SampleRate * float64(time.Second))
}

// physicalRange finds channel c's value range across every epoch, padded
// so the digital mapping never degenerates.
func physicalRange(res *Result, c int) (float64, float64) {
	lo, hi := 0.0, 0.0
	first := true
	for _, ep := range res.Epochs {
		for _, v := range ep.Data[c] {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}
