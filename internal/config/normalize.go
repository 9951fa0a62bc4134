// internal/config/normalize.go
package config

import (
	"sort"
	"strconv"
	"strings"

	"github.com/neurodataflow/epoch-segmenter/internal/events"
)

// Normalize converts the stringly-typed document into a Params bundle.
// Each rule is independent; the picks mutual-exclusion check runs last,
// after both selectors have been converted. The only I/O is the metadata
// table read, everything else is pure.
func Normalize(doc *Document) (*Params, error) {
	p := &Params{
		Tmin:               DefaultTmin,
		Tmax:               DefaultTmax,
		Preload:            true,
		Proj:               true,
		Decim:              DefaultDecim,
		OnMissing:          DefaultOnMissing,
		RejectByAnnotation: true,
		EventRepeated:      DefaultEventRepeated,
	}

	var err error

	if p.EventID, err = eventIDOf(doc.EventID); err != nil {
		return nil, err
	}

	if err = floatInto(&p.Tmin, doc.Tmin, "param_tmin"); err != nil {
		return nil, err
	}
	if err = floatInto(&p.Tmax, doc.Tmax, "param_tmax"); err != nil {
		return nil, err
	}

	if p.Baseline, err = baselineOf(doc.Baseline); err != nil {
		return nil, err
	}

	if p.Picks.Names, err = namesOf(doc.PicksByNames); err != nil {
		return nil, err
	}
	if p.Picks.Indices, p.Picks.Slice, err = indicesOf(doc.PicksByIndices); err != nil {
		return nil, err
	}

	if err = boolInto(&p.Preload, doc.Preload, "param_preload"); err != nil {
		return nil, err
	}
	if err = boolInto(&p.Proj, doc.Proj, "param_proj"); err != nil {
		return nil, err
	}
	if err = boolInto(&p.RejectByAnnotation, doc.RejectByAnnotation, "param_reject_by_annotation"); err != nil {
		return nil, err
	}

	if p.Reject, err = thresholdsOf(doc.Reject, "param_reject"); err != nil {
		return nil, err
	}
	if p.Flat, err = thresholdsOf(doc.Flat, "param_flat"); err != nil {
		return nil, err
	}

	if err = intInto(&p.Decim, doc.Decim, "param_decim"); err != nil {
		return nil, err
	}

	if p.RejectTmin, err = floatOf(doc.RejectTmin, "param_reject_tmin"); err != nil {
		return nil, err
	}
	if p.RejectTmax, err = floatOf(doc.RejectTmax, "param_reject_tmax"); err != nil {
		return nil, err
	}

	if p.Detrend, err = intOf(doc.Detrend, "param_detrend"); err != nil {
		return nil, err
	}

	if err = stringInto(&p.OnMissing, doc.OnMissing, "param_on_missing"); err != nil {
		return nil, err
	}
	if err = stringInto(&p.EventRepeated, doc.EventRepeated, "param_event_repeated"); err != nil {
		return nil, err
	}

	if p.Metadata, err = metadataOf(doc.Metadata); err != nil {
		return nil, err
	}

	if err := Validate(p); err != nil {
		return nil, err
	}

	return p, nil
}

// ---- SCALAR RULES ----

func floatOf(v Value, param string) (*float64, error) {
	switch {
	case v.absent():
		return nil, nil
	case v.Kind == KindNumber:
		f := v.Num
		return &f, nil
	case v.Kind == KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil, validationErrorf(param, "not a number: %q", v.Str)
		}
		return &f, nil
	default:
		return nil, validationErrorf(param, "unexpected value %s", v)
	}
}

func floatInto(dst *float64, v Value, param string) error {
	f, err := floatOf(v, param)
	if err != nil {
		return err
	}
	if f != nil {
		*dst = *f
	}
	return nil
}

func intOf(v Value, param string) (*int, error) {
	switch {
	case v.absent():
		return nil, nil
	case v.Kind == KindNumber:
		n := int(v.Num)
		return &n, nil
	case v.Kind == KindString:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return nil, validationErrorf(param, "not an integer: %q", v.Str)
		}
		return &n, nil
	default:
		return nil, validationErrorf(param, "unexpected value %s", v)
	}
}

func intInto(dst *int, v Value, param string) error {
	n, err := intOf(v, param)
	if err != nil {
		return err
	}
	if n != nil {
		*dst = *n
	}
	return nil
}

// boolInto accepts JSON booleans and the web form's "True"/"False" strings.
func boolInto(dst *bool, v Value, param string) error {
	switch {
	case v.absent():
		return nil
	case v.Kind == KindBool:
		*dst = v.Bool
		return nil
	case v.Kind == KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true":
			*dst = true
		case "false":
			*dst = false
		default:
			return validationErrorf(param, "not a boolean: %q", v.Str)
		}
		return nil
	default:
		return validationErrorf(param, "unexpected value %s", v)
	}
}

func stringInto(dst *string, v Value, param string) error {
	switch {
	case v.absent():
		return nil
	case v.Kind == KindString:
		*dst = strings.TrimSpace(v.Str)
		return nil
	default:
		return validationErrorf(param, "unexpected value %s", v)
	}
}

// ---- BASELINE ----

// baselineOf converts the baseline interval. String form is two
// comma-separated tokens where the literal "None" leaves an end open.
// A two-element list is taken as an already-typed pair.
func baselineOf(v Value) (*Baseline, error) {
	const param = "param_baseline"

	switch {
	case v.absent():
		return nil, nil

	case v.Kind == KindList:
		if len(v.List) != 2 {
			return nil, validationErrorf(param, "expected a pair, got %d elements", len(v.List))
		}
		b := &Baseline{}
		var err error
		if b.A, err = baselineEnd(v.List[0], param); err != nil {
			return nil, err
		}
		if b.B, err = baselineEnd(v.List[1], param); err != nil {
			return nil, err
		}
		return b, nil

	case v.Kind == KindString:
		tokens := splitTokens(v.Str)
		if len(tokens) != 2 {
			return nil, validationErrorf(param, "expected two tokens, got %q", v.Str)
		}
		b := &Baseline{}
		for i, tok := range tokens {
			if tok == "None" {
				continue
			}
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, validationErrorf(param, "not a number: %q", tok)
			}
			if i == 0 {
				b.A = &f
			} else {
				b.B = &f
			}
		}
		return b, nil

	default:
		return nil, validationErrorf(param, "unexpected value %s", v)
	}
}

func baselineEnd(v Value, param string) (*float64, error) {
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindNumber:
		f := v.Num
		return &f, nil
	case KindString:
		if v.Str == "None" || v.Str == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return nil, validationErrorf(param, "not a number: %q", v.Str)
		}
		return &f, nil
	default:
		return nil, validationErrorf(param, "unexpected pair element %s", v)
	}
}

// ---- CHANNEL SELECTION ----

// namesOf converts the name/type selector. A bracketed string becomes a
// list of names; a bare string selects a single name.
func namesOf(v Value) ([]string, error) {
	const param = "param_picks_by_channel_types_or_names"

	switch {
	case v.absent():
		return nil, nil

	case v.Kind == KindString:
		s := strings.TrimSpace(v.Str)
		if strings.HasPrefix(s, "[") {
			return splitTokens(stripBrackets(s)), nil
		}
		return []string{s}, nil

	case v.Kind == KindList:
		names := make([]string, 0, len(v.List))
		for _, e := range v.List {
			if e.Kind != KindString {
				return nil, validationErrorf(param, "unexpected list element %s", e)
			}
			names = append(names, e.Str)
		}
		return names, nil

	default:
		return nil, validationErrorf(param, "unexpected value %s", v)
	}
}

// indicesOf converts the index selector. A comma-separated string without
// brackets encodes a half-open slice (start,stop or start,stop,step); a
// bracketed string is an explicit index list.
func indicesOf(v Value) ([]int, *Slice, error) {
	const param = "param_picks_by_channel_indices"

	switch {
	case v.absent():
		return nil, nil, nil

	case v.Kind == KindString:
		s := strings.TrimSpace(v.Str)

		if strings.HasPrefix(s, "[") {
			idx, err := intTokens(splitTokens(stripBrackets(s)), param)
			if err != nil {
				return nil, nil, err
			}
			return idx, nil, nil
		}

		if strings.Contains(s, ",") {
			nums, err := intTokens(splitTokens(s), param)
			if err != nil {
				return nil, nil, err
			}
			switch len(nums) {
			case 2:
				return nil, &Slice{Start: nums[0], Stop: nums[1], Step: 1}, nil
			case 3:
				return nil, &Slice{Start: nums[0], Stop: nums[1], Step: nums[2]}, nil
			default:
				return nil, nil, validationErrorf(param, "slice takes 2 or 3 numbers, got %d", len(nums))
			}
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, nil, validationErrorf(param, "not an integer: %q", s)
		}
		return []int{n}, nil, nil

	case v.Kind == KindNumber:
		return []int{int(v.Num)}, nil, nil

	case v.Kind == KindList:
		idx := make([]int, 0, len(v.List))
		for _, e := range v.List {
			if e.Kind != KindNumber {
				return nil, nil, validationErrorf(param, "unexpected list element %s", e)
			}
			idx = append(idx, int(e.Num))
		}
		return idx, nil, nil

	default:
		return nil, nil, validationErrorf(param, "unexpected value %s", v)
	}
}

// ---- EVENT ID ----

func eventIDOf(v Value) ([]int, error) {
	const param = "param_event_id"

	switch {
	case v.absent():
		return nil, nil

	case v.Kind == KindNumber:
		return []int{int(v.Num)}, nil

	case v.Kind == KindString:
		s := strings.TrimSpace(v.Str)
		if strings.HasPrefix(s, "[") {
			return intTokens(splitTokens(stripBrackets(s)), param)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, validationErrorf(param, "not an integer: %q", s)
		}
		return []int{n}, nil

	case v.Kind == KindList:
		ids := make([]int, 0, len(v.List))
		for _, e := range v.List {
			if e.Kind != KindNumber {
				return nil, validationErrorf(param, "unexpected list element %s", e)
			}
			ids = append(ids, int(e.Num))
		}
		return ids, nil

	default:
		return nil, validationErrorf(param, "unexpected value %s", v)
	}
}

// ---- REJECTION THRESHOLDS ----

func thresholdsOf(v Value, param string) (map[string]float64, error) {
	switch {
	case v.absent():
		return nil, nil

	case v.Kind == KindObject:
		out := make(map[string]float64, len(v.Obj))
		for k, e := range v.Obj {
			switch e.Kind {
			case KindNumber:
				out[k] = e.Num
			case KindString:
				f, err := strconv.ParseFloat(strings.TrimSpace(e.Str), 64)
				if err != nil {
					return nil, validationErrorf(param, "%s: not a number: %q", k, e.Str)
				}
				out[k] = f
			default:
				return nil, validationErrorf(param, "%s: unexpected value %s", k, e)
			}
		}
		return out, nil

	default:
		return nil, validationErrorf(param, "unexpected value %s", v)
	}
}

// ---- METADATA ----

// metadataOf loads a per-epoch metadata table. A string is a path to a
// tab-separated file; an object becomes a two-column key/value table.
func metadataOf(v Value) (*events.Metadata, error) {
	const param = "param_metadata"

	switch {
	case v.absent():
		return nil, nil

	case v.Kind == KindString:
		md, err := events.LoadMetadata(v.Str)
		if err != nil {
			return nil, validationErrorf(param, "%v", err)
		}
		return md, nil

	case v.Kind == KindObject:
		keys := make([]string, 0, len(v.Obj))
		for k := range v.Obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		md := &events.Metadata{Columns: []string{"key", "value"}}
		for _, k := range keys {
			md.Rows = append(md.Rows, []string{k, v.Obj[k].String()})
		}
		return md, nil

	default:
		return nil, validationErrorf(param, "unexpected value %s", v)
	}
}

// ---- TOKEN HELPERS ----

func stripBrackets(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return s
}

func splitTokens(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func intTokens(tokens []string, param string) ([]int, error) {
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, validationErrorf(param, "not an integer: %q", tok)
		}
		out = append(out, n)
	}
	return out, nil
}
