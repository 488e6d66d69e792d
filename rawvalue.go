package modelv

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RawKind enumerates the variants of an untyped input value.
type RawKind int

const (
	KindNull RawKind = iota
	KindBool
	KindNumber
	KindText
	KindSequence
	KindMapping
)

func (k RawKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// RawValue is the tagged variant over loosely-typed input. Numbers are kept
// as json.Number so integer precision survives until coercion decides the
// target type.
type RawValue struct {
	kind RawKind
	b    bool
	num  json.Number
	text string
	seq  []RawValue
	mp   map[string]RawValue
}

// Null returns the null raw value.
func Null() RawValue { return RawValue{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) RawValue { return RawValue{kind: KindBool, b: b} }

// Number wraps a numeric literal kept in textual form.
func Number(n json.Number) RawValue { return RawValue{kind: KindNumber, num: n} }

// Int64 wraps an integer literal.
func Int64(n int64) RawValue {
	return RawValue{kind: KindNumber, num: json.Number(strconv.FormatInt(n, 10))}
}

// Float64 wraps a floating-point literal.
func Float64(f float64) RawValue {
	return RawValue{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// Text wraps a string.
func Text(s string) RawValue { return RawValue{kind: KindText, text: s} }

// Sequence wraps an ordered list of raw values.
func Sequence(items ...RawValue) RawValue {
	return RawValue{kind: KindSequence, seq: items}
}

// Mapping wraps a string-keyed mapping of raw values.
func Mapping(m map[string]RawValue) RawValue {
	if m == nil {
		m = map[string]RawValue{}
	}
	return RawValue{kind: KindMapping, mp: m}
}

// Kind reports the variant tag.
func (v RawValue) Kind() RawKind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v RawValue) IsNull() bool { return v.kind == KindNull }

// BoolValue returns the wrapped bool; valid only for KindBool.
func (v RawValue) BoolValue() bool { return v.b }

// NumberValue returns the wrapped number; valid only for KindNumber.
func (v RawValue) NumberValue() json.Number { return v.num }

// TextValue returns the wrapped string; valid only for KindText.
func (v RawValue) TextValue() string { return v.text }

// SequenceValue returns the wrapped items; valid only for KindSequence.
func (v RawValue) SequenceValue() []RawValue { return v.seq }

// MappingValue returns the wrapped mapping; valid only for KindMapping.
func (v RawValue) MappingValue() map[string]RawValue { return v.mp }

// FromAny converts a decoded-JSON/YAML style value (json.Number, bool,
// string, float64, ints, []any, map[string]any, nil) into a RawValue.
// time.Time is rendered as RFC3339 text so temporal fields can accept native
// values through the same path as wire input. Unsupported types degrade to
// their fmt representation as text.
func FromAny(v any) RawValue {
	switch t := v.(type) {
	case nil:
		return Null()
	case RawValue:
		return t
	case bool:
		return Bool(t)
	case json.Number:
		return Number(t)
	case string:
		return Text(t)
	case int:
		return Int64(int64(t))
	case int8:
		return Int64(int64(t))
	case int16:
		return Int64(int64(t))
	case int32:
		return Int64(int64(t))
	case int64:
		return Int64(t)
	case uint:
		return Int64(int64(t))
	case uint8:
		return Int64(int64(t))
	case uint16:
		return Int64(int64(t))
	case uint32:
		return Int64(int64(t))
	case uint64:
		return Number(json.Number(strconv.FormatUint(t, 10)))
	case float32:
		return Float64(float64(t))
	case float64:
		return Float64(t)
	case time.Time:
		return Text(t.Format(time.RFC3339Nano))
	case []any:
		items := make([]RawValue, 0, len(t))
		for _, it := range t {
			items = append(items, FromAny(it))
		}
		return Sequence(items...)
	case map[string]any:
		m := make(map[string]RawValue, len(t))
		for k, it := range t {
			m[k] = FromAny(it)
		}
		return Mapping(m)
	case map[any]any:
		// yaml.v3 decodes nested mappings this way for non-string keys.
		m := make(map[string]RawValue, len(t))
		for k, it := range t {
			m[fmt.Sprint(k)] = FromAny(it)
		}
		return Mapping(m)
	default:
		return Text(fmt.Sprint(t))
	}
}

// MappingFromAny builds a raw record from a plain map, the common shape for
// programmatic validate() calls.
func MappingFromAny(m map[string]any) RawValue {
	out := make(map[string]RawValue, len(m))
	for k, v := range m {
		out[k] = FromAny(v)
	}
	return Mapping(out)
}

// cloneMapping shallow-copies a raw mapping so before stages can rewrite keys
// without mutating caller-owned input.
func cloneMapping(m map[string]RawValue) map[string]RawValue {
	out := make(map[string]RawValue, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
