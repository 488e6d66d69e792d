package modelv

// Builder collects field specs, stage validators and computed fields, then
// seals them into an immutable ModelSchema. Declaration order is significant:
// it is both constructor order and error-aggregation order.
type Builder struct {
	name     string
	fields   []FieldSpec
	index    map[string]int
	before   []BeforeStage
	wraps    []WrapStage
	afters   []AfterStage
	computed []ComputedFieldSpec
	unknown  UnknownPolicy
	defect   *SchemaError // first defect wins; surfaced at Build
}

// NewModel starts a schema definition with safe defaults (UnknownForbid).
func NewModel(name string) *Builder {
	return &Builder{
		name:    name,
		index:   map[string]int{},
		unknown: UnknownForbid,
	}
}

func (b *Builder) fail(format string, args ...any) {
	if b.defect == nil {
		b.defect = schemaErrorf(b.name, format, args...)
	}
}

// FieldStep scopes chained options to the field just declared, forwarding
// builder-level methods so declarations read as one chain.
type FieldStep struct {
	b   *Builder
	idx int
}

func (f *FieldStep) spec() *FieldSpec { return &f.b.fields[f.idx] }

// Field declares a field with its type and constraint checkers, in order.
func (b *Builder) Field(name string, t FieldType, cs ...Constraint) *FieldStep {
	if _, dup := b.index[name]; dup {
		b.fail("field %q declared twice", name)
	}
	if t == nil {
		b.fail("field %q has no type", name)
		t = String()
	}
	for _, c := range cs {
		if c.Check == nil {
			b.fail("field %q: constraint %q has no check", name, c.Name)
		}
	}
	b.fields = append(b.fields, FieldSpec{name: name, ftype: t, constraints: cs})
	b.index[name] = len(b.fields) - 1
	return &FieldStep{b: b, idx: len(b.fields) - 1}
}

// Required marks the field as mandatory input.
func (f *FieldStep) Required() *FieldStep {
	f.spec().required = true
	return f
}

// Default declares a literal default applied when input omits the field. The
// literal bypasses coercion; it must already have the field's Go type.
func (f *FieldStep) Default(v any) *FieldStep {
	s := f.spec()
	s.hasDefault = true
	s.defaultValue = v
	return f
}

// DefaultFactory declares a per-instance default computed at validation time.
func (f *FieldStep) DefaultFactory(fn func() any) *FieldStep {
	if fn == nil {
		f.b.fail("field %q: nil default factory", f.spec().name)
		return f
	}
	s := f.spec()
	s.hasDefault = true
	s.defaultFactory = fn
	return f
}

// Validate appends user checks to the field's chain, run in declaration order
// after coercion and constraints. Each may transform or reject the value.
func (f *FieldStep) Validate(fns ...FieldValidator) *FieldStep {
	s := f.spec()
	for _, fn := range fns {
		if fn == nil {
			f.b.fail("field %q: nil field validator", s.name)
			continue
		}
		s.validators = append(s.validators, fn)
	}
	return f
}

// Describe attaches an introspection description.
func (f *FieldStep) Describe(d string) *FieldStep {
	f.spec().description = d
	return f
}

// Example attaches an introspection example.
func (f *FieldStep) Example(v any) *FieldStep {
	f.spec().example = v
	return f
}

// Forwarders so multi-field declarations stay a single chain.
func (f *FieldStep) Field(name string, t FieldType, cs ...Constraint) *FieldStep {
	return f.b.Field(name, t, cs...)
}
func (f *FieldStep) Before(fns ...BeforeStage) *Builder   { return f.b.Before(fns...) }
func (f *FieldStep) Wrap(fns ...WrapStage) *Builder       { return f.b.Wrap(fns...) }
func (f *FieldStep) After(fns ...AfterStage) *Builder     { return f.b.After(fns...) }
func (f *FieldStep) Unknown(p UnknownPolicy) *Builder     { return f.b.Unknown(p) }
func (f *FieldStep) Computed(n string, d Derivation) *Builder {
	return f.b.Computed(n, d)
}
func (f *FieldStep) ComputedAs(n string, t FieldType, d Derivation) *Builder {
	return f.b.ComputedAs(n, t, d)
}
func (f *FieldStep) Build() (*ModelSchema, error) { return f.b.Build() }
func (f *FieldStep) MustBuild() *ModelSchema      { return f.b.MustBuild() }

// Before appends stage validators over the raw, not-yet-coerced mapping.
func (b *Builder) Before(fns ...BeforeStage) *Builder {
	for _, fn := range fns {
		if fn == nil {
			b.fail("nil before stage")
			continue
		}
		b.before = append(b.before, fn)
	}
	return b
}

// Wrap appends middleware stage validators. The first declared wrap is the
// outermost: its pre-continuation work runs first and its post-continuation
// work runs last.
func (b *Builder) Wrap(fns ...WrapStage) *Builder {
	for _, fn := range fns {
		if fn == nil {
			b.fail("nil wrap stage")
			continue
		}
		b.wraps = append(b.wraps, fn)
	}
	return b
}

// After appends stage validators over the fully constructed instance. They
// run only when per-field aggregation produced zero issues.
func (b *Builder) After(fns ...AfterStage) *Builder {
	for _, fn := range fns {
		if fn == nil {
			b.fail("nil after stage")
			continue
		}
		b.afters = append(b.afters, fn)
	}
	return b
}

// Unknown sets the unknown-key policy.
func (b *Builder) Unknown(p UnknownPolicy) *Builder {
	b.unknown = p
	return b
}

// Computed declares a derived read-only field evaluated on the success path.
func (b *Builder) Computed(name string, derive Derivation) *Builder {
	return b.ComputedAs(name, nil, derive)
}

// ComputedAs is Computed with a declared type for schema descriptions.
func (b *Builder) ComputedAs(name string, t FieldType, derive Derivation) *Builder {
	if derive == nil {
		b.fail("computed field %q has no derivation", name)
		return b
	}
	for i := range b.computed {
		if b.computed[i].name == name {
			b.fail("computed field %q declared twice", name)
			return b
		}
	}
	b.computed = append(b.computed, ComputedFieldSpec{name: name, ftype: t, derive: derive})
	return b
}

// Build seals the definition into an immutable ModelSchema, verifying that
// every field has a way to obtain a value and that computed fields do not
// collide with declared ones.
func (b *Builder) Build() (*ModelSchema, error) {
	if b.name == "" {
		b.fail("schema name is empty")
	}
	for i := range b.fields {
		f := &b.fields[i]
		if f.required && f.hasDefault {
			b.fail("field %q is required and has a default; pick one", f.name)
		}
		if !f.required && !f.hasDefault && !isOptionalType(f.ftype) {
			b.fail("field %q has no way to obtain a value: mark it required, give it a default, or make its type Optional", f.name)
		}
	}
	for i := range b.computed {
		if _, clash := b.index[b.computed[i].name]; clash {
			b.fail("computed field %q collides with a declared field", b.computed[i].name)
		}
	}
	if b.defect != nil {
		return nil, b.defect
	}
	fields := make([]FieldSpec, len(b.fields))
	copy(fields, b.fields)
	index := make(map[string]int, len(b.index))
	for k, v := range b.index {
		index[k] = v
	}
	return &ModelSchema{
		name:       b.name,
		fields:     fields,
		fieldIndex: index,
		before:     append([]BeforeStage(nil), b.before...),
		wraps:      append([]WrapStage(nil), b.wraps...),
		afters:     append([]AfterStage(nil), b.afters...),
		computed:   append([]ComputedFieldSpec(nil), b.computed...),
		unknown:    b.unknown,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *ModelSchema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func isOptionalType(t FieldType) bool {
	_, ok := t.(optionalType)
	return ok
}
