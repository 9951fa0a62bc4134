// internal/config/validate.go
package config

// Validate checks cross-parameter correctness of a normalized bundle.
// It MUST NOT mutate the bundle. Normalize calls it last, after both
// channel selectors have been converted.
func Validate(p *Params) error {
	// ---- CHANNEL SELECTION MUTUAL EXCLUSION ----

	byNames := p.Picks.Names != nil
	byIndices := p.Picks.Indices != nil || p.Picks.Slice != nil

	if byNames && byIndices {
		return validationErrorf("param_picks_by_channel_indices",
			"channels may be selected by names/types or by indices, not both")
	}

	// ---- RANGES AND ENUMS ----

	if p.Tmax < p.Tmin {
		return validationErrorf("param_tmax", "tmax %g is before tmin %g", p.Tmax, p.Tmin)
	}

	if p.Decim < 1 {
		return validationErrorf("param_decim", "decimation factor must be >= 1, got %d", p.Decim)
	}

	if p.Detrend != nil && *p.Detrend != 0 && *p.Detrend != 1 {
		return validationErrorf("param_detrend", "detrend must be 0 or 1, got %d", *p.Detrend)
	}

	switch p.OnMissing {
	case "raise", "warn", "ignore":
	default:
		return validationErrorf("param_on_missing", "unknown policy %q", p.OnMissing)
	}

	switch p.EventRepeated {
	case "error", "drop", "merge":
	default:
		return validationErrorf("param_event_repeated", "unknown policy %q", p.EventRepeated)
	}

	return nil
}
