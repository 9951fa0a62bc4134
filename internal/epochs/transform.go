// internal/epochs/transform.go
package epochs

import "github.com/neurodataflow/epoch-segmenter/internal/config"

// detrend removes the constant (mode 0) or linear (mode 1) trend from a
// segment in place.
func detrend(seg []float64, mode int) {
	n := len(seg)
	if n == 0 {
		return
	}

	if mode == 0 {
		mean := 0.0
		for _, v := range seg {
			mean += v
		}
		mean /= float64(n)
		for i := range seg {
			seg[i] -= mean
		}
		return
	}

	// Least-squares line over sample indices.
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range seg {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return
	}
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn
	for i := range seg {
		seg[i] -= intercept + slope*float64(i)
	}
}

// applyBaseline subtracts the baseline-interval mean from each channel.
// A nil interval end is open: A falls back to the epoch start, B to the
// epoch end. startOff is the epoch's first sample relative to the event.
func applyBaseline(data [][]float64, b *config.Baseline, startOff int, rate float64) {
	if len(data) == 0 || len(data[0]) == 0 {
		return
	}
	last := len(data[0]) - 1

	from := 0
	if b.A != nil {
		from = roundToSample(*b.A, rate) - startOff
	}
	to := last
	if b.B != nil {
		to = roundToSample(*b.B, rate) - startOff
	}

	if from < 0 {
		from = 0
	}
	if to > last {
		to = last
	}
	if from > to {
		return
	}

	for _, seg := range data {
		mean := 0.0
		for i := from; i <= to; i++ {
			mean += seg[i]
		}
		mean /= float64(to - from + 1)
		for i := range seg {
			seg[i] -= mean
		}
	}
}
