// internal/epochs/reject.go
package epochs

import (
	"strings"

	"github.com/neurodataflow/epoch-segmenter/internal/config"
	"github.com/neurodataflow/epoch-segmenter/internal/recording"
)

// rejectPeakToPeak checks each channel's peak-to-peak amplitude inside
// the rejection window against the per-type ceilings (reject) and floors
// (flat). Returns the offending channel name, or "" to keep the epoch.
// Window bounds are sample indices relative to the epoch start.
func rejectPeakToPeak(data [][]float64, chans []recording.Channel, p *config.Params, from, to int) string {
	if len(p.Reject) == 0 && len(p.Flat) == 0 {
		return ""
	}
	if len(data) == 0 {
		return ""
	}

	last := len(data[0]) - 1
	if from < 0 {
		from = 0
	}
	if to > last {
		to = last
	}
	if from > to {
		return ""
	}

	for c, seg := range data {
		ceiling, hasCeiling := p.Reject[chans[c].Type]
		floor, hasFloor := p.Flat[chans[c].Type]
		if !hasCeiling && !hasFloor {
			continue
		}

		lo, hi := seg[from], seg[from]
		for i := from + 1; i <= to; i++ {
			if seg[i] < lo {
				lo = seg[i]
			}
			if seg[i] > hi {
				hi = seg[i]
			}
		}
		p2p := hi - lo

		if hasCeiling && p2p > ceiling {
			return chans[c].Name
		}
		if hasFloor && p2p < floor {
			return chans[c].Name
		}
	}

	return ""
}

// badAnnotation returns the label of the first BAD-prefixed annotation
// overlapping the epoch span [epStart, epEnd), or "".
func badAnnotation(anns []recording.Annotation, epStart, epEnd float64) string {
	for _, a := range anns {
		if !strings.HasPrefix(strings.ToUpper(a.Label), "BAD") {
			continue
		}
		annEnd := a.Onset + a.Duration
		if a.Onset < epEnd && annEnd > epStart {
			return a.Label
		}
	}
	return ""
}
