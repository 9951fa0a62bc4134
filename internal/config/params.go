// internal/config/params.go
package config

import "github.com/neurodataflow/epoch-segmenter/internal/events"

// Defaults applied when a parameter is absent from the document.
const (
	DefaultTmin          = -0.2
	DefaultTmax          = 0.5
	DefaultDecim         = 1
	DefaultOnMissing     = "raise"
	DefaultEventRepeated = "error"
)

// Baseline is the baseline-correction interval in seconds relative to the
// event. A nil end is open: A falls back to the epoch start, B to its end.
type Baseline struct {
	A *float64
	B *float64
}

// Slice is a half-open index range start..stop with stride step.
type Slice struct {
	Start int
	Stop  int
	Step  int
}

// Indices materializes the range.
func (s Slice) Indices() []int {
	if s.Step <= 0 || s.Stop <= s.Start {
		return nil
	}
	out := make([]int, 0, (s.Stop-s.Start+s.Step-1)/s.Step)
	for i := s.Start; i < s.Stop; i += s.Step {
		out = append(out, i)
	}
	return out
}

// Picks is the effective channel selection.
// At most one selector is set; all nil means every data channel.
type Picks struct {
	Names   []string // channel names or channel types
	Indices []int
	Slice   *Slice
}

// IsZero reports whether no selector is set.
func (p Picks) IsZero() bool {
	return p.Names == nil && p.Indices == nil && p.Slice == nil
}

// ChannelIndices resolves index-based selectors to concrete indices.
// Returns nil for name-based or empty selections.
func (p Picks) ChannelIndices() []int {
	if p.Slice != nil {
		return p.Slice.Indices()
	}
	return p.Indices
}

// Params is the normalized parameter bundle forwarded to segmentation.
// Built once per invocation; not mutated afterwards.
type Params struct {
	EventID  []int // nil selects every event code
	Tmin     float64
	Tmax     float64
	Baseline *Baseline
	Picks    Picks
	Preload  bool

	Reject map[string]float64 // peak-to-peak ceilings per channel type
	Flat   map[string]float64 // peak-to-peak floors per channel type

	Proj       bool
	Decim      int
	RejectTmin *float64 // nil means tmin
	RejectTmax *float64 // nil means tmax

	Detrend            *int // nil none, 0 constant, 1 linear
	OnMissing          string
	RejectByAnnotation bool
	Metadata           *events.Metadata
	EventRepeated      string
}
