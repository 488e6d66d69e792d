package modelv

// FieldSpec is the immutable description of one declared field: its type,
// how a value is obtained when input is missing, its constraint checkers, and
// its validator chain. Specs are built through the schema builder and never
// change after Build.
type FieldSpec struct {
	name           string
	ftype          FieldType
	required       bool
	hasDefault     bool
	defaultValue   any
	defaultFactory func() any
	constraints    []Constraint
	validators     []FieldValidator
	description    string
	example        any
}

// Name returns the field name, unique within its schema.
func (f *FieldSpec) Name() string { return f.name }

// Type returns the declared field type.
func (f *FieldSpec) Type() FieldType { return f.ftype }

// Required reports whether input must supply the field.
func (f *FieldSpec) Required() bool { return f.required }

// HasDefault reports whether a literal or factory default is declared.
func (f *FieldSpec) HasDefault() bool { return f.hasDefault }

// Description returns the introspection description, possibly empty.
func (f *FieldSpec) Description() string { return f.description }

// Example returns the introspection example, possibly nil.
func (f *FieldSpec) Example() any { return f.example }

// defaultFor materializes the declared default. Factory defaults are invoked
// per instance.
func (f *FieldSpec) defaultFor() any {
	if f.defaultFactory != nil {
		return f.defaultFactory()
	}
	return f.defaultValue
}

// ComputedFieldSpec describes a derived, read-only field evaluated on the
// success path only.
type ComputedFieldSpec struct {
	name   string
	ftype  FieldType // optional, for description only
	derive Derivation
}

// Name returns the computed field name.
func (c *ComputedFieldSpec) Name() string { return c.name }

// ModelSchema is the precompiled description of a record type: field specs in
// declaration order, stage validators per kind, computed fields, and the
// unknown-key policy. A schema is built once, registered, and read-only
// thereafter; concurrent Validate calls need no synchronization.
type ModelSchema struct {
	name       string
	fields     []FieldSpec
	fieldIndex map[string]int
	before     []BeforeStage
	wraps      []WrapStage
	afters     []AfterStage
	computed   []ComputedFieldSpec
	unknown    UnknownPolicy
}

// Name returns the record type identity used by the registry.
func (s *ModelSchema) Name() string { return s.name }

// FieldNames returns field names in declaration order.
func (s *ModelSchema) FieldNames() []string {
	out := make([]string, len(s.fields))
	for i := range s.fields {
		out[i] = s.fields[i].name
	}
	return out
}

// Field looks up a field spec by name.
func (s *ModelSchema) Field(name string) (*FieldSpec, bool) {
	i, ok := s.fieldIndex[name]
	if !ok {
		return nil, false
	}
	return &s.fields[i], true
}

// ComputedNames returns computed field names in declaration order.
func (s *ModelSchema) ComputedNames() []string {
	out := make([]string, len(s.computed))
	for i := range s.computed {
		out[i] = s.computed[i].name
	}
	return out
}

// Unknown reports the schema's unknown-key policy.
func (s *ModelSchema) Unknown() UnknownPolicy { return s.unknown }
