// internal/epochs/epochs_test.go
package epochs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurodataflow/epoch-segmenter/internal/config"
	"github.com/neurodataflow/epoch-segmenter/internal/events"
	"github.com/neurodataflow/epoch-segmenter/internal/recording"
)

// testRecording builds a 100 Hz in-memory recording. Channel 0 ramps
// 0,1,2,... so sample indices are directly readable from the data.
func testRecording(samples int) *recording.Recording {
	ramp := make([]float64, samples)
	flat := make([]float64, samples)
	for i := range ramp {
		ramp[i] = float64(i)
		flat[i] = 1.0
	}

	return &recording.Recording{
		SampleRate: 100,
		Channels: []recording.Channel{
			{Name: "EEG ramp", Type: "eeg"},
			{Name: "EEG flat", Type: "eeg"},
		},
		Data: [][]float64{ramp, flat},
	}
}

func baseParams() *config.Params {
	return &config.Params{
		Tmin:          -0.1,
		Tmax:          0.1,
		Decim:         1,
		OnMissing:     "raise",
		EventRepeated: "error",
	}
}

func TestExtract_WindowGeometry(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	res, err := Extract(rec, m, baseParams())
	require.NoError(t, err)

	require.Len(t, res.Epochs, 1)
	assert.Empty(t, res.Drops)
	assert.Equal(t, 21, res.EpochLength)

	ep := res.Epochs[0]
	require.Len(t, ep.Data, 2)
	assert.Equal(t, 490.0, ep.Data[0][0])
	assert.Equal(t, 510.0, ep.Data[0][20])
	assert.Equal(t, [3]int{500, 0, 1}, ep.Event)
}

func TestExtract_FirstSampleOffset(t *testing.T) {
	rec := testRecording(1000)
	rec.FirstSample = 100

	// Absolute sample 600 is data index 500.
	m := events.Matrix{{600, 0, 1}}

	res, err := Extract(rec, m, baseParams())
	require.NoError(t, err)
	require.Len(t, res.Epochs, 1)
	assert.Equal(t, 490.0, res.Epochs[0].Data[0][0])
}

func TestExtract_OutOfBoundsDropped(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{
		{5, 0, 1},   // window starts before the recording
		{500, 0, 1}, // fine
		{995, 0, 1}, // window ends past the recording
	}

	res, err := Extract(rec, m, baseParams())
	require.NoError(t, err)

	assert.Len(t, res.Epochs, 1)
	require.Len(t, res.Drops, 2)
	assert.Equal(t, Drop{Index: 0, Reason: "TOO_SHORT"}, res.Drops[0])
	assert.Equal(t, Drop{Index: 2, Reason: "TOO_SHORT"}, res.Drops[1])
}

func TestExtract_BaselineCorrection(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	zero := 0.0
	p.Baseline = &config.Baseline{A: nil, B: &zero} // epoch start to t=0

	res, err := Extract(rec, m, p)
	require.NoError(t, err)
	require.Len(t, res.Epochs, 1)

	// Baseline mean over samples 490..500 of the ramp is 495.
	assert.InDelta(t, 490.0-495.0, res.Epochs[0].Data[0][0], 1e-9)
	assert.InDelta(t, 510.0-495.0, res.Epochs[0].Data[0][20], 1e-9)
}

func TestExtract_Detrend(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	linear := 1
	p.Detrend = &linear

	res, err := Extract(rec, m, p)
	require.NoError(t, err)
	require.Len(t, res.Epochs, 1)

	// A pure ramp detrends to zero everywhere.
	for i, v := range res.Epochs[0].Data[0] {
		assert.InDelta(t, 0.0, v, 1e-9, "sample %d", i)
	}
}

func TestExtract_PeakToPeakReject(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	// The ramp spans 20 units inside the window.
	p.Reject = map[string]float64{"eeg": 10}

	res, err := Extract(rec, m, p)
	require.NoError(t, err)

	assert.Empty(t, res.Epochs)
	require.Len(t, res.Drops, 1)
	assert.Equal(t, "EEG ramp", res.Drops[0].Reason)
}

func TestExtract_FlatReject(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	p.Picks.Names = []string{"EEG flat"}
	p.Flat = map[string]float64{"eeg": 0.5} // constant channel has p2p 0

	res, err := Extract(rec, m, p)
	require.NoError(t, err)

	assert.Empty(t, res.Epochs)
	require.Len(t, res.Drops, 1)
	assert.Equal(t, "EEG flat", res.Drops[0].Reason)
}

func TestExtract_RejectWindowNarrowed(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	p.Reject = map[string]float64{"eeg": 10}
	// Shrink the rejection window to a span the ramp passes.
	rtmin, rtmax := 0.0, 0.04
	p.RejectTmin = &rtmin
	p.RejectTmax = &rtmax

	res, err := Extract(rec, m, p)
	require.NoError(t, err)
	assert.Len(t, res.Epochs, 1)
}

func TestExtract_AnnotationReject(t *testing.T) {
	rec := testRecording(1000)
	rec.Annotations = []recording.Annotation{
		{Onset: 4.95, Duration: 0.2, Label: "BAD_movement"},
		{Onset: 2.0, Duration: 0.5, Label: "eyes closed"},
	}
	m := events.Matrix{
		{200, 0, 1}, // overlaps only the non-BAD annotation
		{500, 0, 1}, // overlaps BAD_movement
	}

	p := baseParams()
	p.RejectByAnnotation = true

	res, err := Extract(rec, m, p)
	require.NoError(t, err)

	assert.Len(t, res.Epochs, 1)
	require.Len(t, res.Drops, 1)
	assert.Equal(t, Drop{Index: 1, Reason: "BAD_movement"}, res.Drops[0])

	p.RejectByAnnotation = false
	res, err = Extract(rec, m, p)
	require.NoError(t, err)
	assert.Len(t, res.Epochs, 2)
}

func TestExtract_Decimation(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	p.Decim = 2

	res, err := Extract(rec, m, p)
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.SampleRate)
	assert.Equal(t, 11, res.EpochLength)
	require.Len(t, res.Epochs, 1)
	assert.Equal(t, []float64{490, 492, 494, 496, 498, 500, 502, 504, 506, 508, 510},
		res.Epochs[0].Data[0])
}

func TestExtract_PicksByName(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	p.Picks.Names = []string{"EEG flat"}

	res, err := Extract(rec, m, p)
	require.NoError(t, err)

	require.Len(t, res.Channels, 1)
	assert.Equal(t, "EEG flat", res.Channels[0].Name)
}

func TestExtract_PicksByType(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	p.Picks.Names = []string{"eeg"}

	res, err := Extract(rec, m, p)
	require.NoError(t, err)
	assert.Len(t, res.Channels, 2)
}

func TestExtract_PicksUnknownName(t *testing.T) {
	rec := testRecording(1000)
	p := baseParams()
	p.Picks.Names = []string{"MEG 0111"}

	_, err := Extract(rec, events.Matrix{{500, 0, 1}}, p)
	require.Error(t, err)
}

func TestExtract_PicksIndexOutOfRange(t *testing.T) {
	rec := testRecording(1000)
	p := baseParams()
	p.Picks.Indices = []int{5}

	_, err := Extract(rec, events.Matrix{{500, 0, 1}}, p)
	require.Error(t, err)
}

func TestExtract_DefaultPicksSkipBads(t *testing.T) {
	rec := testRecording(1000)
	rec.MarkBad([]string{"EEG ramp"})
	m := events.Matrix{{500, 0, 1}}

	res, err := Extract(rec, m, baseParams())
	require.NoError(t, err)

	require.Len(t, res.Channels, 1)
	assert.Equal(t, "EEG flat", res.Channels[0].Name)
}

func TestExtract_EventIDSelection(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{300, 0, 1}, {500, 0, 2}, {700, 0, 1}}

	p := baseParams()
	p.EventID = []int{1}

	res, err := Extract(rec, m, p)
	require.NoError(t, err)
	assert.Len(t, res.Epochs, 2)
}

func TestExtract_OnMissing(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}}

	p := baseParams()
	p.EventID = []int{1, 9}

	_, err := Extract(rec, m, p)
	require.Error(t, err)

	p.OnMissing = "warn"
	res, err := Extract(rec, m, p)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "event id 9")

	p.OnMissing = "ignore"
	res, err = Extract(rec, m, p)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestExtract_EventRepeated(t *testing.T) {
	rec := testRecording(1000)
	m := events.Matrix{{500, 0, 1}, {500, 0, 2}}

	p := baseParams()
	_, err := Extract(rec, m, p)
	require.Error(t, err)

	p.EventRepeated = "drop"
	res, err := Extract(rec, m, p)
	require.NoError(t, err)
	require.Len(t, res.Epochs, 1)
	assert.Equal(t, 1, res.Epochs[0].Event[2])

	p.EventRepeated = "merge"
	res, err = Extract(rec, m, p)
	require.NoError(t, err)
	require.Len(t, res.Epochs, 1)
	assert.Equal(t, 2, res.Epochs[0].Event[2])
}
