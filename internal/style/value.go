// internal/style/value.go - Tagged property values with tag-aware equality
package style

import (
	"encoding/json"
	"fmt"
)

// Kind tags the dynamic type of a feature property value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a tagged variant for the loosely-typed property values carried
// by tile payloads. Values compare by tag first; there is no implicit
// coercion between kinds.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// FromAny converts a decoded payload value into a tagged Value. All
// numeric widths collapse into the number kind; unrecognized types map to
// null so they can never satisfy a predicate by accident.
func FromAny(v interface{}) Value {
	switch t := v.(type) {
	case string:
		return Value{Kind: KindString, Str: t}
	case float64:
		return Value{Kind: KindNumber, Num: t}
	case float32:
		return Value{Kind: KindNumber, Num: float64(t)}
	case int:
		return Value{Kind: KindNumber, Num: float64(t)}
	case int64:
		return Value{Kind: KindNumber, Num: float64(t)}
	case uint64:
		return Value{Kind: KindNumber, Num: float64(t)}
	case bool:
		return Value{Kind: KindBool, Bool: t}
	default:
		return Value{Kind: KindNull}
	}
}

// Equal reports tag-aware equality
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	default:
		return true
	}
}

// String renders the value for diagnostics
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	default:
		return "null"
	}
}

// UnmarshalJSON decodes a rule-file literal into a tagged value
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// MarshalJSON renders the tagged value back to its JSON literal
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}
