// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the flat Brainlife configuration object.
// Web-form values arrive stringly typed; every param_* key decodes into a
// Value union and is converted by Normalize. Reserved platform keys
// (_app, _tid, _inputs, _outputs) have no field here and are dropped by
// the decoder, so nothing needs stripping afterwards.
type Document struct {
	// ---- INPUT FILES ----

	Recording string `json:"fif"`
	Events    string `json:"events"`

	// Optional auxiliary pipeline files.
	Crosstalk   string `json:"crosstalk"`
	Calibration string `json:"calibration"`
	Destination string `json:"destination"`
	Headshape   string `json:"headshape"`
	Channels    string `json:"channels"`

	// ---- SEGMENTATION PARAMETERS ----

	EventID            Value `json:"param_event_id"`
	Tmin               Value `json:"param_tmin"`
	Tmax               Value `json:"param_tmax"`
	Baseline           Value `json:"param_baseline"`
	PicksByNames       Value `json:"param_picks_by_channel_types_or_names"`
	PicksByIndices     Value `json:"param_picks_by_channel_indices"`
	Preload            Value `json:"param_preload"`
	Reject             Value `json:"param_reject"`
	Flat               Value `json:"param_flat"`
	Proj               Value `json:"param_proj"`
	Decim              Value `json:"param_decim"`
	RejectTmin         Value `json:"param_reject_tmin"`
	RejectTmax         Value `json:"param_reject_tmax"`
	Detrend            Value `json:"param_detrend"`
	OnMissing          Value `json:"param_on_missing"`
	RejectByAnnotation Value `json:"param_reject_by_annotation"`
	Metadata           Value `json:"param_metadata"`
	EventRepeated      Value `json:"param_event_repeated"`
}

// Load reads and decodes a configuration document.
// Decode only: no normalization, no validation.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}

	return &doc, nil
}
