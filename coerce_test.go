package modelv_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	modelv "github.com/modelv/modelv"
)

func coerceOne(t *testing.T, ft modelv.FieldType, raw modelv.RawValue) (any, modelv.Issues) {
	t.Helper()
	return ft.Coerce(context.Background(), raw)
}

func TestCoerce_Int(t *testing.T) {
	cases := []struct {
		name string
		raw  modelv.RawValue
		want int64
		fail bool
	}{
		{"number", modelv.Int64(42), 42, false},
		{"numeric text", modelv.Text("42"), 42, false},
		{"padded text", modelv.Text(" 42 "), 42, false},
		{"negative text", modelv.Text("-7"), -7, false},
		{"float literal", modelv.Float64(3.5), 0, true},
		{"trailing junk", modelv.Text("42abc"), 0, true},
		{"decimal text", modelv.Text("42.0"), 0, true},
		{"bool", modelv.Bool(true), 0, true},
		{"null", modelv.Null(), 0, true},
	}
	for _, tc := range cases {
		v, iss := coerceOne(t, modelv.Int(), tc.raw)
		if tc.fail {
			if len(iss) == 0 {
				t.Fatalf("%s: expected coercion failure, got %v", tc.name, v)
			}
			if iss[0].Code != modelv.CodeCoercion {
				t.Fatalf("%s: code = %s", tc.name, iss[0].Code)
			}
			continue
		}
		if len(iss) > 0 {
			t.Fatalf("%s: unexpected issues %v", tc.name, iss)
		}
		if v.(int64) != tc.want {
			t.Fatalf("%s: got %v, want %d", tc.name, v, tc.want)
		}
	}
}

func TestCoerce_Float(t *testing.T) {
	if v, iss := coerceOne(t, modelv.Float(), modelv.Text("2.25")); len(iss) > 0 || v.(float64) != 2.25 {
		t.Fatalf("float text: %v %v", v, iss)
	}
	if v, iss := coerceOne(t, modelv.Float(), modelv.Number(json.Number("7"))); len(iss) > 0 || v.(float64) != 7 {
		t.Fatalf("float number: %v %v", v, iss)
	}
	if _, iss := coerceOne(t, modelv.Float(), modelv.Text("NaN")); len(iss) == 0 {
		t.Fatalf("NaN should be rejected")
	}
	if _, iss := coerceOne(t, modelv.Float(), modelv.Bool(false)); len(iss) == 0 {
		t.Fatalf("bool should be rejected")
	}
}

func TestCoerce_Bool(t *testing.T) {
	if v, iss := coerceOne(t, modelv.Boolean(), modelv.Bool(true)); len(iss) > 0 || v != true {
		t.Fatalf("bool literal: %v %v", v, iss)
	}
	if v, iss := coerceOne(t, modelv.Boolean(), modelv.Text("false")); len(iss) > 0 || v != false {
		t.Fatalf("canonical text: %v %v", v, iss)
	}
	if _, iss := coerceOne(t, modelv.Boolean(), modelv.Text("yes")); len(iss) == 0 {
		t.Fatalf("non-canonical text should be rejected")
	}
	if _, iss := coerceOne(t, modelv.Boolean(), modelv.Int64(1)); len(iss) == 0 {
		t.Fatalf("number should be rejected")
	}
}

func TestCoerce_StringPolicies(t *testing.T) {
	cases := []struct {
		name string
		ft   modelv.FieldType
		in   string
		want string
	}{
		{"plain", modelv.String(), " A b ", " A b "},
		{"trim", modelv.String().Trim(), " A b ", "A b"},
		{"trim+lower", modelv.String().Trim().Lower(), "  MiXeD ", "mixed"},
		{"upper", modelv.String().Upper(), "up", "UP"},
		{"fold", modelv.String().Fold(), "Straße", "strasse"},
		{"title", modelv.String().Title(), "john doe", "John Doe"},
	}
	for _, tc := range cases {
		v, iss := coerceOne(t, tc.ft, modelv.Text(tc.in))
		if len(iss) > 0 {
			t.Fatalf("%s: unexpected issues %v", tc.name, iss)
		}
		if v.(string) != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, v, tc.want)
		}
	}
	if _, iss := coerceOne(t, modelv.String(), modelv.Int64(5)); len(iss) == 0 {
		t.Fatalf("number should not coerce into string")
	}
}

func TestCoerce_Time(t *testing.T) {
	ok := []string{
		"2026-08-26T10:30:00Z",
		"2026-08-26T10:30:00.123Z",
		"2026-08-26T10:30:00+09:00",
		"2026-08-26T10:30:00",
		"2026-08-26 10:30:00",
		"2026-08-26",
	}
	for _, in := range ok {
		v, iss := coerceOne(t, modelv.Time(), modelv.Text(in))
		if len(iss) > 0 {
			t.Fatalf("%s: unexpected issues %v", in, iss)
		}
		if _, isTime := v.(time.Time); !isTime {
			t.Fatalf("%s: got %T", in, v)
		}
	}
	for _, in := range []string{"yesterday", "26/08/2026", ""} {
		if _, iss := coerceOne(t, modelv.Time(), modelv.Text(in)); len(iss) == 0 {
			t.Fatalf("%q should not parse", in)
		}
	}
	// native temporal values round-trip through FromAny as RFC3339 text
	now := time.Now().UTC().Truncate(time.Second)
	v, iss := coerceOne(t, modelv.Time(), modelv.FromAny(now))
	if len(iss) > 0 || !v.(time.Time).Equal(now) {
		t.Fatalf("native time: %v %v", v, iss)
	}
}

func TestCoerce_Secret(t *testing.T) {
	v, iss := coerceOne(t, modelv.SecretString(), modelv.Text("pw"))
	if len(iss) > 0 {
		t.Fatalf("unexpected issues %v", iss)
	}
	sec := v.(modelv.Secret)
	if sec.Reveal() != "pw" || sec.String() == "pw" {
		t.Fatalf("secret not opaque: %v", sec)
	}
	if _, iss := coerceOne(t, modelv.SecretString(), modelv.Int64(1)); len(iss) == 0 {
		t.Fatalf("number should not coerce into secret")
	}
}

func TestCoerce_OptionalNull(t *testing.T) {
	v, iss := coerceOne(t, modelv.Optional(modelv.Int()), modelv.Null())
	if len(iss) > 0 || v != nil {
		t.Fatalf("optional null: %v %v", v, iss)
	}
	v, iss = coerceOne(t, modelv.Optional(modelv.Int()), modelv.Int64(3))
	if len(iss) > 0 || v.(int64) != 3 {
		t.Fatalf("optional value: %v %v", v, iss)
	}
	if _, iss := coerceOne(t, modelv.Int(), modelv.Null()); len(iss) == 0 {
		t.Fatalf("plain int should reject null")
	}
}

func TestCoerce_SequenceAggregatesElementErrors(t *testing.T) {
	_, iss := coerceOne(t, modelv.SequenceOf(modelv.Int()),
		modelv.Sequence(modelv.Int64(1), modelv.Text("x"), modelv.Int64(3), modelv.Bool(true)))
	if len(iss) != 2 {
		t.Fatalf("expected 2 element issues, got %v", iss)
	}
	if iss[0].Path != "/1" || iss[1].Path != "/3" {
		t.Fatalf("element paths = %s, %s", iss[0].Path, iss[1].Path)
	}
}

func TestCoerce_MappingDeterministicOrder(t *testing.T) {
	raw := modelv.Mapping(map[string]modelv.RawValue{
		"b": modelv.Text("x"),
		"a": modelv.Text("y"),
		"c": modelv.Int64(1),
	})
	_, iss := coerceOne(t, modelv.MappingOf(modelv.Int()), raw)
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %v", iss)
	}
	// keys visited in sorted order
	if iss[0].Path != "/a" || iss[1].Path != "/b" {
		t.Fatalf("paths = %s, %s", iss[0].Path, iss[1].Path)
	}
}

func TestFromAny_Variants(t *testing.T) {
	rv := modelv.FromAny(map[string]any{
		"s":    "text",
		"n":    json.Number("12"),
		"f":    1.5,
		"b":    true,
		"nul":  nil,
		"list": []any{1, "two"},
	})
	if rv.Kind() != modelv.KindMapping {
		t.Fatalf("kind = %v", rv.Kind())
	}
	m := rv.MappingValue()
	if m["s"].Kind() != modelv.KindText || m["n"].Kind() != modelv.KindNumber {
		t.Fatalf("scalar kinds wrong: %v %v", m["s"].Kind(), m["n"].Kind())
	}
	if !m["nul"].IsNull() {
		t.Fatalf("nil should map to null")
	}
	if m["list"].Kind() != modelv.KindSequence || len(m["list"].SequenceValue()) != 2 {
		t.Fatalf("sequence mapping wrong")
	}
	if m["b"].BoolValue() != true {
		t.Fatalf("bool mapping wrong")
	}
}
