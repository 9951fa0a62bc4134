// internal/events/matrix.go
package events

// Matrix is the n-by-3 integer event array the segmentation call expects.
// Column 0 is the absolute sample index, column 1 the reserved previous
// value (always zero here), column 2 the event code.
type Matrix [][3]int

// Build derives the matrix from a table. One row per input row, order
// preserved, no filtering and no monotonicity checks; those belong to
// the segmentation stage.
func Build(firstSample int, t *Table) Matrix {
	m := make(Matrix, len(t.Rows))
	for i, row := range t.Rows {
		m[i] = [3]int{firstSample + row.Sample, 0, row.Value}
	}
	return m
}

// FixedLength synthesizes evenly spaced events over a recording span,
// used when no events file accompanies the recording. Events carry code 1
// and start at firstSample, one every duration seconds.
func FixedLength(firstSample, sampleCount int, sampleRate, duration float64) Matrix {
	if sampleRate <= 0 || duration <= 0 || sampleCount <= 0 {
		return nil
	}

	step := int(duration * sampleRate)
	if step < 1 {
		step = 1
	}

	var m Matrix
	for s := 0; s < sampleCount; s += step {
		m = append(m, [3]int{firstSample + s, 0, 1})
	}
	return m
}

// Codes returns the distinct event codes present, in first-seen order.
func (m Matrix) Codes() []int {
	seen := make(map[int]bool)
	var codes []int
	for _, row := range m {
		if !seen[row[2]] {
			seen[row[2]] = true
			codes = append(codes, row[2])
		}
	}
	return codes
}
