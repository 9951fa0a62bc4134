// internal/config/value.go
package config

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the Value union.
type Kind int

const (
	KindAbsent Kind = iota // key missing from the document
	KindNull               // explicit JSON null
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

// Value is a configuration value decoded once at the JSON boundary.
// Exactly one of the payload fields is meaningful, selected by Kind.
// Conversion to native parameter types happens in Normalize, per key.
type Value struct {
	Kind Kind

	Bool bool
	Num  float64
	Str  string
	List []Value
	Obj  map[string]Value
}

// UnmarshalJSON decodes any JSON value into the union.
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Value{Kind: KindNull}
	case bool:
		return Value{Kind: KindBool, Bool: t}
	case float64:
		return Value{Kind: KindNumber, Num: t}
	case string:
		return Value{Kind: KindString, Str: t}
	case []any:
		list := make([]Value, 0, len(t))
		for _, e := range t {
			list = append(list, fromAny(e))
		}
		return Value{Kind: KindList, List: list}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = fromAny(e)
		}
		return Value{Kind: KindObject, Obj: obj}
	default:
		// json.Unmarshal into any never produces other types.
		return Value{Kind: KindNull}
	}
}

// absent reports whether the value carries nothing usable.
// Empty strings come from unfilled web-form fields and count as absent.
func (v Value) absent() bool {
	switch v.Kind {
	case KindAbsent, KindNull:
		return true
	case KindString:
		return v.Str == ""
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindAbsent:
		return "<absent>"
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case KindString:
		return v.Str
	case KindList:
		return fmt.Sprintf("list(%d)", len(v.List))
	case KindObject:
		return fmt.Sprintf("object(%d)", len(v.Obj))
	default:
		return "<invalid>"
	}
}
