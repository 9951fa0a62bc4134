// internal/epochs/epochs.go
package epochs

import (
	"fmt"

	"github.com/neurodataflow/epoch-segmenter/internal/config"
	"github.com/neurodataflow/epoch-segmenter/internal/events"
	"github.com/neurodataflow/epoch-segmenter/internal/recording"
)

// Epoch is one fixed-length excerpt anchored at an event.
type Epoch struct {
	Event [3]int
	Data  [][]float64 // [picked channel][sample]
}

// Drop records why an input event produced no epoch.
type Drop struct {
	Index  int // row index into the events matrix
	Reason string
}

// Result is the outcome of one segmentation run.
type Result struct {
	SampleRate  float64 // post-decimation
	Tmin        float64
	EpochLength int // samples per epoch, post-decimation
	Channels    []recording.Channel
	Epochs      []Epoch
	Drops       []Drop
	Warnings    []string
	Metadata    *events.Metadata
}

// Extract segments the recording around the event matrix rows.
// Processing order: pick channels, window, detrend, baseline,
// peak-to-peak rejection, annotation rejection, decimation.
func Extract(rec *recording.Recording, m events.Matrix, p *config.Params) (*Result, error) {
	picked, err := resolvePicks(rec, p.Picks)
	if err != nil {
		return nil, err
	}

	res := &Result{
		SampleRate: rec.SampleRate,
		Tmin:       p.Tmin,
		Metadata:   p.Metadata,
	}
	for _, ci := range picked {
		res.Channels = append(res.Channels, rec.Channels[ci])
	}

	m, err = selectEvents(m, p, res)
	if err != nil {
		return nil, err
	}
	m, err = dedupeEvents(m, p.EventRepeated, res)
	if err != nil {
		return nil, err
	}

	startOff := roundToSample(p.Tmin, rec.SampleRate)
	endOff := roundToSample(p.Tmax, rec.SampleRate)
	length := endOff - startOff + 1
	if length < 1 {
		return nil, fmt.Errorf("epochs: window [%g, %g] spans no samples", p.Tmin, p.Tmax)
	}

	rejStart, rejEnd := rejectWindow(p, startOff, endOff, rec.SampleRate)

	for i, ev := range m {
		first := ev[0] - rec.FirstSample + startOff
		last := ev[0] - rec.FirstSample + endOff

		if first < 0 || last >= rec.SampleCount() {
			res.Drops = append(res.Drops, Drop{Index: i, Reason: "TOO_SHORT"})
			continue
		}

		ep := Epoch{Event: ev, Data: make([][]float64, len(picked))}
		for c, ci := range picked {
			seg := make([]float64, length)
			copy(seg, rec.Data[ci][first:last+1])
			ep.Data[c] = seg
		}

		if p.Detrend != nil {
			for _, seg := range ep.Data {
				detrend(seg, *p.Detrend)
			}
		}
		if p.Baseline != nil {
			applyBaseline(ep.Data, p.Baseline, startOff, rec.SampleRate)
		}

		if reason := rejectPeakToPeak(ep.Data, res.Channels, p, rejStart-startOff, rejEnd-startOff); reason != "" {
			res.Drops = append(res.Drops, Drop{Index: i, Reason: reason})
			continue
		}

		if p.RejectByAnnotation {
			epStart := float64(first) / rec.SampleRate
			epEnd := float64(last+1) / rec.SampleRate
			if label := badAnnotation(rec.Annotations, epStart, epEnd); label != "" {
				res.Drops = append(res.Drops, Drop{Index: i, Reason: label})
				continue
			}
		}

		if p.Decim > 1 {
			for c := range ep.Data {
				ep.Data[c] = decimate(ep.Data[c], p.Decim)
			}
		}

		res.Epochs = append(res.Epochs, ep)
	}

	res.EpochLength = decimatedLength(length, p.Decim)
	if p.Decim > 1 {
		res.SampleRate = rec.SampleRate / float64(p.Decim)
	}

	return res, nil
}

// resolvePicks maps the picks union to channel indices.
// Default selection is every good data channel.
func resolvePicks(rec *recording.Recording, picks config.Picks) ([]int, error) {
	if picks.IsZero() {
		var idx []int
		for _, ci := range rec.DataIndices() {
			if !rec.IsBad(rec.Channels[ci].Name) {
				idx = append(idx, ci)
			}
		}
		if len(idx) == 0 {
			return nil, fmt.Errorf("epochs: no good data channels to pick")
		}
		return idx, nil
	}

	if picks.Names != nil {
		var idx []int
		for _, name := range picks.Names {
			if ci := rec.IndexOf(name); ci >= 0 {
				idx = append(idx, ci)
				continue
			}
			// Not a channel name: try it as a channel type.
			matched := false
			for ci, ch := range rec.Channels {
				if ch.Type == name {
					idx = append(idx, ci)
					matched = true
				}
			}
			if !matched {
				return nil, fmt.Errorf("epochs: no channel matches %q", name)
			}
		}
		return idx, nil
	}

	idx := picks.ChannelIndices()
	for _, ci := range idx {
		if ci < 0 || ci >= len(rec.Channels) {
			return nil, fmt.Errorf("epochs: channel index %d out of range (%d channels)",
				ci, len(rec.Channels))
		}
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("epochs: index selection is empty")
	}
	return idx, nil
}

// selectEvents filters the matrix down to the requested event codes and
// applies the on_missing policy for codes the matrix does not carry.
func selectEvents(m events.Matrix, p *config.Params, res *Result) (events.Matrix, error) {
	if p.EventID == nil {
		return m, nil
	}

	wanted := make(map[int]bool, len(p.EventID))
	for _, id := range p.EventID {
		wanted[id] = true
	}

	present := make(map[int]bool)
	var out events.Matrix
	for _, ev := range m {
		if wanted[ev[2]] {
			present[ev[2]] = true
			out = append(out, ev)
		}
	}

	for _, id := range p.EventID {
		if present[id] {
			continue
		}
		switch p.OnMissing {
		case "raise":
			return nil, fmt.Errorf("epochs: event id %d not found in events", id)
		case "warn":
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("event id %d not found in events", id))
		}
	}

	return out, nil
}

// dedupeEvents applies the event_repeated policy to rows sharing a
// sample index: error refuses, drop keeps the first, merge keeps the
// last occurrence.
func dedupeEvents(m events.Matrix, policy string, res *Result) (events.Matrix, error) {
	seen := make(map[int]int) // sample -> index into out
	var out events.Matrix

	for _, ev := range m {
		at, dup := seen[ev[0]]
		if !dup {
			seen[ev[0]] = len(out)
			out = append(out, ev)
			continue
		}

		switch policy {
		case "error":
			return nil, fmt.Errorf("epochs: repeated event at sample %d", ev[0])
		case "drop":
			// keep the first occurrence
		case "merge":
			out[at] = ev
		}
	}

	if len(out) != len(m) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d repeated events handled with policy %q", len(m)-len(out), policy))
	}
	return out, nil
}

func rejectWindow(p *config.Params, startOff, endOff int, rate float64) (int, int) {
	rs, re := startOff, endOff
	if p.RejectTmin != nil {
		rs = roundToSample(*p.RejectTmin, rate)
	}
	if p.RejectTmax != nil {
		re = roundToSample(*p.RejectTmax, rate)
	}
	if rs < startOff {
		rs = startOff
	}
	if re > endOff {
		re = endOff
	}
	return rs, re
}

func roundToSample(t float64, rate float64) int {
	s := t * rate
	if s >= 0 {
		return int(s + 0.5)
	}
	return -int(-s + 0.5)
}

func decimatedLength(length, decim int) int {
	if decim <= 1 {
		return length
	}
	return (length + decim - 1) / decim
}

func decimate(seg []float64, decim int) []float64 {
	out := make([]float64, 0, decimatedLength(len(seg), decim))
	for i := 0; i < len(seg); i += decim {
		out = append(out, seg[i])
	}
	return out
}
