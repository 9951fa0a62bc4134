// internal/recording/recording.go
package recording

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/OpenPSG/edf"
)

// Channel describes one signal of the recording.
type Channel struct {
	Name string
	Type string // eeg, meg, grad, mag, eog, ecg, emg, stim, misc
	Unit string
}

// Annotation is a time-stamped marker carried by the recording.
// Labels starting with "BAD" mark spans the epoching stage may reject.
type Annotation struct {
	Onset    float64 // seconds from recording start
	Duration float64 // seconds, 0 for instantaneous markers
	Label    string
}

// Recording is a continuous multichannel time series held in memory.
// Data is indexed [channel][sample]; all data channels share one rate.
type Recording struct {
	Path        string
	Start       time.Time
	SampleRate  float64
	FirstSample int // absolute index of sample zero (zero for EDF sources)
	Channels    []Channel
	Bads        []string
	Annotations []Annotation
	Data        [][]float64
}

// Load reads an EDF/EDF+ file fully into memory. Signal samples come
// through the edf package; header metadata is parsed here because the
// reader does not expose it. An EDF Annotations signal, when present, is
// decoded into Annotations and excluded from Data.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	defer f.Close()

	hdr, err := readHeader(f)
	if err != nil {
		return nil, fmt.Errorf("recording: %s: %w", path, err)
	}
	if hdr.DataRecords < 0 {
		return nil, fmt.Errorf("recording: %s: unknown record count", path)
	}

	rec := &Recording{
		Path:  path,
		Start: hdr.StartTime,
	}

	recordSec := hdr.DataRecordDuration.Seconds()
	if recordSec <= 0 {
		return nil, fmt.Errorf("recording: %s: bad record duration", path)
	}

	// One shared rate across data channels; mixed-rate files are refused
	// rather than resampled.
	for i, sig := range hdr.Signals {
		if isAnnotationSignal(sig.Label) {
			continue
		}
		rate := float64(sig.SamplesPerRecord) / recordSec
		if rec.SampleRate == 0 {
			rec.SampleRate = rate
		} else if rec.SampleRate != rate {
			return nil, fmt.Errorf("recording: %s: signal %d rate %g differs from %g",
				path, i, rate, rec.SampleRate)
		}
	}
	if rec.SampleRate == 0 {
		return nil, fmt.Errorf("recording: %s: no data signals", path)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	er, err := edf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("recording: %s: %w", path, err)
	}

	for i, sig := range hdr.Signals {
		if isAnnotationSignal(sig.Label) {
			anns, err := readAnnotations(f, hdr, i)
			if err != nil {
				return nil, fmt.Errorf("recording: %s: %w", path, err)
			}
			rec.Annotations = append(rec.Annotations, anns...)
			continue
		}

		sr, err := er.Signal(i)
		if err != nil {
			return nil, fmt.Errorf("recording: %s: %w", path, err)
		}

		data := make([]float64, hdr.DataRecords*sig.SamplesPerRecord)
		n, err := sr.Read(data)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("recording: %s: %w", path, err)
		}
		rec.Data = append(rec.Data, data[:n])
		rec.Channels = append(rec.Channels, Channel{
			Name: sig.Label,
			Type: channelType(sig.Label),
			Unit: sig.PhysicalDimension,
		})
	}

	return rec, nil
}

// SampleCount returns the per-channel sample count.
func (r *Recording) SampleCount() int {
	if len(r.Data) == 0 {
		return 0
	}
	return len(r.Data[0])
}

// ChannelNames returns channel names in signal order.
func (r *Recording) ChannelNames() []string {
	names := make([]string, len(r.Channels))
	for i, ch := range r.Channels {
		names[i] = ch.Name
	}
	return names
}

// IndexOf returns the channel index for a name, or -1.
func (r *Recording) IndexOf(name string) int {
	for i, ch := range r.Channels {
		if ch.Name == name {
			return i
		}
	}
	return -1
}

// DataIndices returns indices of data channels: everything except stim
// and misc channels. This is the default selection when no picks are set.
func (r *Recording) DataIndices() []int {
	var idx []int
	for i, ch := range r.Channels {
		if ch.Type == "stim" || ch.Type == "misc" {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// MarkBad records channels as bad, skipping names already marked and
// names the recording does not carry.
func (r *Recording) MarkBad(names []string) {
	for _, name := range names {
		if r.IndexOf(name) < 0 {
			continue
		}
		dup := false
		for _, b := range r.Bads {
			if b == name {
				dup = true
				break
			}
		}
		if !dup {
			r.Bads = append(r.Bads, name)
		}
	}
}

// IsBad reports whether the named channel is marked bad.
func (r *Recording) IsBad(name string) bool {
	for _, b := range r.Bads {
		if b == name {
			return true
		}
	}
	return false
}

// channelType infers the channel type from an EDF-style label such as
// "EEG Fpz-Cz". Unknown prefixes fall back to misc.
func channelType(label string) string {
	prefix, _, _ := strings.Cut(label, " ")
	switch strings.ToLower(prefix) {
	case "eeg":
		return "eeg"
	case "meg":
		return "meg"
	case "grad":
		return "grad"
	case "mag":
		return "mag"
	case "eog":
		return "eog"
	case "ecg", "ekg":
		return "ecg"
	case "emg":
		return "emg"
	case "sti", "stim", "trig", "marker":
		return "stim"
	default:
		return "misc"
	}
}

func isAnnotationSignal(label string) bool {
	return label == "EDF Annotations"
}
