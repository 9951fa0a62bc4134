// internal/config/normalize_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) Value  { return Value{Kind: KindString, Str: s} }
func num(f float64) Value { return Value{Kind: KindNumber, Num: f} }

func TestNormalize_Defaults(t *testing.T) {
	p, err := Normalize(&Document{})
	require.NoError(t, err)

	assert.Nil(t, p.EventID)
	assert.Equal(t, DefaultTmin, p.Tmin)
	assert.Equal(t, DefaultTmax, p.Tmax)
	assert.Nil(t, p.Baseline)
	assert.True(t, p.Picks.IsZero())
	assert.True(t, p.Preload)
	assert.True(t, p.Proj)
	assert.Equal(t, 1, p.Decim)
	assert.Nil(t, p.Detrend)
	assert.Equal(t, "raise", p.OnMissing)
	assert.True(t, p.RejectByAnnotation)
	assert.Equal(t, "error", p.EventRepeated)
}

func TestNormalize_EmptyStringsAreAbsent(t *testing.T) {
	doc := &Document{
		Tmin:           str(""),
		Baseline:       str(""),
		PicksByNames:   str(""),
		PicksByIndices: str(""),
		EventID:        str(""),
		Detrend:        str(""),
	}

	p, err := Normalize(doc)
	require.NoError(t, err)

	assert.Equal(t, DefaultTmin, p.Tmin)
	assert.Nil(t, p.Baseline)
	assert.True(t, p.Picks.IsZero())
	assert.Nil(t, p.EventID)
	assert.Nil(t, p.Detrend)
}

func TestNormalize_BaselineString(t *testing.T) {
	p, err := Normalize(&Document{Baseline: str("None, 0")})
	require.NoError(t, err)
	require.NotNil(t, p.Baseline)

	assert.Nil(t, p.Baseline.A)
	require.NotNil(t, p.Baseline.B)
	assert.Equal(t, 0.0, *p.Baseline.B)
}

func TestNormalize_BaselineNumericString(t *testing.T) {
	p, err := Normalize(&Document{Baseline: str("-0.2, 0.1")})
	require.NoError(t, err)

	require.NotNil(t, p.Baseline.A)
	require.NotNil(t, p.Baseline.B)
	assert.Equal(t, -0.2, *p.Baseline.A)
	assert.Equal(t, 0.1, *p.Baseline.B)
}

func TestNormalize_BaselinePairList(t *testing.T) {
	pair := Value{Kind: KindList, List: []Value{{Kind: KindNull}, num(0.5)}}
	p, err := Normalize(&Document{Baseline: pair})
	require.NoError(t, err)

	assert.Nil(t, p.Baseline.A)
	require.NotNil(t, p.Baseline.B)
	assert.Equal(t, 0.5, *p.Baseline.B)
}

func TestNormalize_BaselineBadArity(t *testing.T) {
	_, err := Normalize(&Document{Baseline: str("1, 2, 3")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "param_baseline", verr.Param)
}

func TestNormalize_ProjString(t *testing.T) {
	p, err := Normalize(&Document{Proj: str("False")})
	require.NoError(t, err)
	assert.False(t, p.Proj)

	p, err = Normalize(&Document{Proj: str("True")})
	require.NoError(t, err)
	assert.True(t, p.Proj)

	p, err = Normalize(&Document{Proj: Value{Kind: KindBool, Bool: false}})
	require.NoError(t, err)
	assert.False(t, p.Proj)
}

func TestNormalize_IndexSliceTwoTokens(t *testing.T) {
	p, err := Normalize(&Document{PicksByIndices: str("0, 10")})
	require.NoError(t, err)

	require.NotNil(t, p.Picks.Slice)
	assert.Equal(t, Slice{Start: 0, Stop: 10, Step: 1}, *p.Picks.Slice)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, p.Picks.Slice.Indices())
}

func TestNormalize_IndexSliceThreeTokens(t *testing.T) {
	p, err := Normalize(&Document{PicksByIndices: str("0, 10, 2")})
	require.NoError(t, err)

	require.NotNil(t, p.Picks.Slice)
	assert.Equal(t, []int{0, 2, 4, 6, 8}, p.Picks.Slice.Indices())
}

func TestNormalize_IndexSliceBadArity(t *testing.T) {
	_, err := Normalize(&Document{PicksByIndices: str("0, 10, 2, 4")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNormalize_IndexList(t *testing.T) {
	p, err := Normalize(&Document{PicksByIndices: str("[1, 2, 5]")})
	require.NoError(t, err)

	assert.Nil(t, p.Picks.Slice)
	assert.Equal(t, []int{1, 2, 5}, p.Picks.Indices)
}

func TestNormalize_SingleIndex(t *testing.T) {
	p, err := Normalize(&Document{PicksByIndices: str("7")})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, p.Picks.Indices)
}

func TestNormalize_NamesBracketed(t *testing.T) {
	p, err := Normalize(&Document{PicksByNames: str("[meg, eeg]")})
	require.NoError(t, err)
	assert.Equal(t, []string{"meg", "eeg"}, p.Picks.Names)
}

func TestNormalize_NamesBare(t *testing.T) {
	p, err := Normalize(&Document{PicksByNames: str("EEG Fpz-Cz")})
	require.NoError(t, err)
	assert.Equal(t, []string{"EEG Fpz-Cz"}, p.Picks.Names)
}

func TestNormalize_PicksConflict(t *testing.T) {
	doc := &Document{
		PicksByIndices: str("0, 5"),
		PicksByNames:   str("[meg]"),
	}

	_, err := Normalize(doc)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNormalize_EventID(t *testing.T) {
	p, err := Normalize(&Document{EventID: str("[1, 2]")})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, p.EventID)

	p, err = Normalize(&Document{EventID: str("3")})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, p.EventID)

	p, err = Normalize(&Document{EventID: num(4)})
	require.NoError(t, err)
	assert.Equal(t, []int{4}, p.EventID)
}

func TestNormalize_Detrend(t *testing.T) {
	p, err := Normalize(&Document{Detrend: str("1")})
	require.NoError(t, err)
	require.NotNil(t, p.Detrend)
	assert.Equal(t, 1, *p.Detrend)

	_, err = Normalize(&Document{Detrend: str("5")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNormalize_Thresholds(t *testing.T) {
	reject := Value{Kind: KindObject, Obj: map[string]Value{
		"eeg": num(100e-6),
		"eog": str("150e-6"),
	}}

	p, err := Normalize(&Document{Reject: reject})
	require.NoError(t, err)
	assert.Equal(t, 100e-6, p.Reject["eeg"])
	assert.Equal(t, 150e-6, p.Reject["eog"])
}

func TestNormalize_EnumPolicies(t *testing.T) {
	_, err := Normalize(&Document{OnMissing: str("explode")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = Normalize(&Document{EventRepeated: str("maybe")})
	require.ErrorAs(t, err, &verr)

	p, err := Normalize(&Document{OnMissing: str("warn"), EventRepeated: str("drop")})
	require.NoError(t, err)
	assert.Equal(t, "warn", p.OnMissing)
	assert.Equal(t, "drop", p.EventRepeated)
}

func TestNormalize_TmaxBeforeTmin(t *testing.T) {
	_, err := Normalize(&Document{Tmin: str("0.5"), Tmax: str("-0.5")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNormalize_MetadataObject(t *testing.T) {
	md := Value{Kind: KindObject, Obj: map[string]Value{
		"subject": str("01"),
		"run":     num(2),
	}}

	p, err := Normalize(&Document{Metadata: md})
	require.NoError(t, err)
	require.NotNil(t, p.Metadata)

	assert.Equal(t, []string{"key", "value"}, p.Metadata.Columns)
	// Keys are sorted for determinism.
	assert.Equal(t, [][]string{{"run", "2"}, {"subject", "01"}}, p.Metadata.Rows)
}
