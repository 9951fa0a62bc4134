// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_TypicalWebFormDocument(t *testing.T) {
	path := writeConfig(t, `{
		"fif": "rec.edf",
		"events": "ev.tsv",
		"param_tmin": "",
		"param_baseline": "None, 0",
		"param_picks_by_channel_indices": "0, 10",
		"param_picks_by_channel_types_or_names": "",
		"param_proj": "True",
		"_app": "abc123",
		"_tid": 42,
		"_inputs": [],
		"_outputs": []
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rec.edf", doc.Recording)
	assert.Equal(t, "ev.tsv", doc.Events)
	assert.Equal(t, KindString, doc.Tmin.Kind)
	assert.Equal(t, "None, 0", doc.Baseline.Str)
	// Reserved platform keys have no field and simply vanish.

	p, err := Normalize(doc)
	require.NoError(t, err)

	assert.Equal(t, DefaultTmin, p.Tmin)
	assert.Nil(t, p.Baseline.A)
	require.NotNil(t, p.Baseline.B)
	assert.Equal(t, 0.0, *p.Baseline.B)
	require.NotNil(t, p.Picks.Slice)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, p.Picks.Slice.Indices())
	assert.True(t, p.Proj)
}

func TestLoad_AlreadyTypedValues(t *testing.T) {
	path := writeConfig(t, `{
		"fif": "rec.edf",
		"param_event_id": [1, 2],
		"param_tmin": -0.1,
		"param_proj": false,
		"param_reject": {"eeg": 0.0001},
		"param_decim": 2
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	p, err := Normalize(doc)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, p.EventID)
	assert.Equal(t, -0.1, p.Tmin)
	assert.False(t, p.Proj)
	assert.Equal(t, 0.0001, p.Reject["eeg"])
	assert.Equal(t, 2, p.Decim)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"fif": `)
	_, err := Load(path)
	require.Error(t, err)
}
