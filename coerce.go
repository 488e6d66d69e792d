package modelv

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	js "github.com/modelv/modelv/jsonschema"
)

// FieldType directs coercion of a raw value into a field's declared type and
// contributes the field's structural description.
type FieldType interface {
	// TypeName is the short name used in coercion error messages.
	TypeName() string
	// Coerce converts raw input into the declared type or reports issues at
	// paths relative to the value's own root.
	Coerce(ctx context.Context, v RawValue) (any, Issues)
	// JSONSchema projects the type into the description model.
	JSONSchema() *js.Schema
}

func coercionIssue(ft FieldType, v RawValue, hint string) Issues {
	return Issues{{
		Path:    "/",
		Code:    CodeCoercion,
		Message: "cannot coerce " + v.Kind().String() + " into " + ft.TypeName(),
		Hint:    hint,
		Params:  map[string]any{"expected": ft.TypeName(), "got": v.Kind().String()},
	}}
}

// ---------------- scalars ----------------

type intType struct{}

// Int declares a 64-bit integer field. Numeric literals must be integral and
// numeric-looking text must parse exactly; lossy or trailing-junk conversions
// are rejected.
func Int() FieldType { return intType{} }

func (intType) TypeName() string { return "integer" }

func (t intType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	switch v.Kind() {
	case KindNumber:
		n, err := v.NumberValue().Int64()
		if err != nil {
			return nil, coercionIssue(t, v, "number is not an integer")
		}
		return n, nil
	case KindText:
		n, err := strconv.ParseInt(strings.TrimSpace(v.TextValue()), 10, 64)
		if err != nil {
			return nil, coercionIssue(t, v, "text is not a canonical integer")
		}
		return n, nil
	default:
		return nil, coercionIssue(t, v, "")
	}
}

func (intType) JSONSchema() *js.Schema { return &js.Schema{Type: "integer"} }

type floatType struct{}

// Float declares a 64-bit floating point field.
func Float() FieldType { return floatType{} }

func (floatType) TypeName() string { return "number" }

func (t floatType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	var f float64
	var err error
	switch v.Kind() {
	case KindNumber:
		f, err = v.NumberValue().Float64()
	case KindText:
		f, err = strconv.ParseFloat(strings.TrimSpace(v.TextValue()), 64)
	default:
		return nil, coercionIssue(t, v, "")
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, coercionIssue(t, v, "not a finite number")
	}
	return f, nil
}

func (floatType) JSONSchema() *js.Schema { return &js.Schema{Type: "number"} }

type boolType struct{}

// Boolean declares a boolean field. Only boolean literals and the canonical
// true/false texts are accepted.
func Boolean() FieldType { return boolType{} }

func (boolType) TypeName() string { return "boolean" }

func (t boolType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	switch v.Kind() {
	case KindBool:
		return v.BoolValue(), nil
	case KindText:
		switch strings.TrimSpace(v.TextValue()) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, coercionIssue(t, v, "")
}

func (boolType) JSONSchema() *js.Schema { return &js.Schema{Type: "boolean"} }

// stringType applies declared string policies before constraint checking.
type stringType struct {
	trim  bool
	lower bool
	upper bool
	fold  bool
	title bool
}

// String declares a string field. Policies chain: g := modelv.String().Trim().Lower().
func String() stringType { return stringType{} }

// Trim strips leading and trailing whitespace after coercion.
func (t stringType) Trim() stringType { t.trim = true; return t }

// Lower lowercases the value.
func (t stringType) Lower() stringType { t.lower = true; return t }

// Upper uppercases the value.
func (t stringType) Upper() stringType { t.upper = true; return t }

// Fold applies Unicode case folding, the canonical form for caseless
// comparison.
func (t stringType) Fold() stringType { t.fold = true; return t }

// Title applies Unicode title casing.
func (t stringType) Title() stringType { t.title = true; return t }

func (stringType) TypeName() string { return "string" }

func (t stringType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	if v.Kind() != KindText {
		return nil, coercionIssue(t, v, "")
	}
	s := v.TextValue()
	if t.trim {
		s = strings.TrimSpace(s)
	}
	switch {
	case t.fold:
		s = cases.Fold().String(s)
	case t.lower:
		s = strings.ToLower(s)
	case t.upper:
		s = strings.ToUpper(s)
	case t.title:
		s = cases.Title(language.Und).String(s)
	}
	return s, nil
}

func (stringType) JSONSchema() *js.Schema { return &js.Schema{Type: "string"} }

type timeType struct{}

// Time declares a temporal field accepting ISO-8601-compatible text. Native
// time.Time values arrive through FromAny as RFC3339 text.
func Time() FieldType { return timeType{} }

func (timeType) TypeName() string { return "time" }

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t timeType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	if v.Kind() != KindText {
		return nil, coercionIssue(t, v, "expected ISO-8601 text")
	}
	s := strings.TrimSpace(v.TextValue())
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return nil, Issues{{
		Path:    "/",
		Code:    CodeCoercion,
		Message: "cannot parse " + strconv.Quote(s) + " as ISO-8601 time",
		Params:  map[string]any{"expected": "time", "got": s},
	}}
}

func (timeType) JSONSchema() *js.Schema { return &js.Schema{Type: "string", Format: "date-time"} }

type secretType struct{}

// SecretString declares a sensitive field coerced into an opaque Secret
// holder whose printable form is a fixed mask.
func SecretString() FieldType { return secretType{} }

func (secretType) TypeName() string { return "secret" }

func (t secretType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	if v.Kind() != KindText {
		return nil, coercionIssue(t, v, "")
	}
	return NewSecret(v.TextValue()), nil
}

func (secretType) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "password"}
}

// ---------------- composites ----------------

type optionalType struct{ elem FieldType }

// Optional declares a field that accepts explicit null, stored as nil.
// Optional fields need neither a required flag nor a default.
func Optional(elem FieldType) FieldType { return optionalType{elem: elem} }

func (t optionalType) TypeName() string { return t.elem.TypeName() + "?" }

func (t optionalType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	if v.IsNull() {
		return nil, nil
	}
	return t.elem.Coerce(ctx, v)
}

func (t optionalType) JSONSchema() *js.Schema {
	s := t.elem.JSONSchema()
	s.Nullable = true
	return s
}

type sequenceType struct{ elem FieldType }

// SequenceOf declares an ordered list whose elements coerce through elem.
// Element failures are reported at their index and aggregated; valid siblings
// do not mask invalid ones.
func SequenceOf(elem FieldType) FieldType { return sequenceType{elem: elem} }

func (t sequenceType) TypeName() string { return "sequence" }

func (t sequenceType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	if v.Kind() != KindSequence {
		return nil, coercionIssue(t, v, "")
	}
	items := v.SequenceValue()
	out := make([]any, 0, len(items))
	var iss Issues
	for i, item := range items {
		ev, i2 := t.elem.Coerce(ctx, item)
		if len(i2) > 0 {
			iss = AppendIssues(iss, RebaseIssues("/"+strconv.Itoa(i), i2)...)
			continue
		}
		out = append(out, ev)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (t sequenceType) JSONSchema() *js.Schema {
	return &js.Schema{Type: "array", Items: t.elem.JSONSchema()}
}

type mappingType struct{ elem FieldType }

// MappingOf declares a free-form string-keyed mapping whose values coerce
// through elem. Keys are visited in sorted order for deterministic
// aggregation.
func MappingOf(elem FieldType) FieldType { return mappingType{elem: elem} }

func (t mappingType) TypeName() string { return "mapping" }

func (t mappingType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	if v.Kind() != KindMapping {
		return nil, coercionIssue(t, v, "")
	}
	src := v.MappingValue()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(src))
	var iss Issues
	for _, k := range keys {
		ev, i2 := t.elem.Coerce(ctx, src[k])
		if len(i2) > 0 {
			iss = AppendIssues(iss, RebaseIssues(fieldPath(k), i2)...)
			continue
		}
		out[k] = ev
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (t mappingType) JSONSchema() *js.Schema {
	return &js.Schema{Type: "object", AdditionalProperties: t.elem.JSONSchema()}
}

type objectType struct{ schema *ModelSchema }

// Object declares a nested record validated by its own schema. The nested
// validate() runs in full and its aggregated issues surface at the parent
// field's extended path.
func Object(schema *ModelSchema) FieldType { return objectType{schema: schema} }

func (t objectType) TypeName() string {
	if t.schema == nil {
		return "object"
	}
	return "object(" + t.schema.Name() + ")"
}

func (t objectType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	if v.Kind() != KindMapping {
		return nil, coercionIssue(t, v, "")
	}
	inst, err := Validate(ctx, t.schema, v)
	if err != nil {
		iss, _ := AsIssues(err)
		return nil, iss
	}
	return inst, nil
}

func (t objectType) JSONSchema() *js.Schema {
	if t.schema == nil {
		return &js.Schema{Type: "object"}
	}
	return Describe(t.schema, ModeInput)
}

type unionType struct {
	discriminator string
	variants      map[string]*ModelSchema
}

// Union declares a tagged union of schemas selected by a discriminator key in
// the raw mapping.
func Union(discriminator string, variants map[string]*ModelSchema) FieldType {
	return unionType{discriminator: discriminator, variants: variants}
}

func (t unionType) TypeName() string { return "union" }

func (t unionType) Coerce(ctx context.Context, v RawValue) (any, Issues) {
	if v.Kind() != KindMapping {
		return nil, coercionIssue(t, v, "")
	}
	tagRaw, ok := v.MappingValue()[t.discriminator]
	if !ok || tagRaw.Kind() != KindText || tagRaw.TextValue() == "" {
		return nil, Issues{{
			Path:    fieldPath(t.discriminator),
			Code:    CodeDiscriminatorMissing,
			Message: "discriminator missing",
			Hint:    "expected key " + strconv.Quote(t.discriminator),
		}}
	}
	tag := tagRaw.TextValue()
	sub, ok := t.variants[tag]
	if !ok {
		return nil, Issues{{
			Path:    fieldPath(t.discriminator),
			Code:    CodeDiscriminatorUnknown,
			Message: "unknown variant " + strconv.Quote(tag),
			Params:  map[string]any{"tag": tag},
		}}
	}
	inst, err := Validate(ctx, sub, v)
	if err != nil {
		iss, _ := AsIssues(err)
		return nil, iss
	}
	return inst, nil
}

func (t unionType) JSONSchema() *js.Schema {
	out := &js.Schema{}
	tags := make([]string, 0, len(t.variants))
	for tag := range t.variants {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		out.OneOf = append(out.OneOf, Describe(t.variants[tag], ModeInput))
	}
	return out
}
