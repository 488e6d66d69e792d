package modelv

import "context"

// Instance is a validated, immutable record: declared field values, evaluated
// computed fields, and any preserved unknown keys. An Instance never exists
// with a missing required field, a constraint violation, or an unresolved
// computed field. To change a field, use Set, which re-validates and returns
// a new Instance.
type Instance struct {
	schema   *ModelSchema
	values   map[string]any
	computed map[string]any
	extras   map[string]any
}

// Model returns the schema the instance was validated against.
func (in *Instance) Model() *ModelSchema { return in.schema }

// Get returns a declared or computed field value.
func (in *Instance) Get(name string) (any, bool) {
	if v, ok := in.values[name]; ok {
		return v, true
	}
	v, ok := in.computed[name]
	return v, ok
}

// Value is Get without the presence flag; absent fields yield nil.
func (in *Instance) Value(name string) any {
	v, _ := in.Get(name)
	return v
}

// Extra returns a preserved unknown key (UnknownPreserve policy only).
func (in *Instance) Extra(name string) (any, bool) {
	v, ok := in.extras[name]
	return v, ok
}

// Extras returns a copy of the preserved unknown keys.
func (in *Instance) Extras() map[string]any {
	out := make(map[string]any, len(in.extras))
	for k, v := range in.extras {
		out[k] = v
	}
	return out
}

// FieldNames returns declared field names in declaration order.
func (in *Instance) FieldNames() []string { return in.schema.FieldNames() }

// AsMap renders declared and computed values as a plain map. Secrets stay
// wrapped; rendering them is the caller's deliberate choice.
func (in *Instance) AsMap() map[string]any {
	out := make(map[string]any, len(in.values)+len(in.computed))
	for k, v := range in.values {
		out[k] = v
	}
	for k, v := range in.computed {
		out[k] = v
	}
	return out
}

// Set re-validates a single field with a new value and returns a new
// Instance: the field's coercion, constraints and validator chain run again,
// then every after stage, then the computed fields. The receiver is never
// mutated.
func (in *Instance) Set(ctx context.Context, name string, value any) (*Instance, error) {
	spec, ok := in.schema.Field(name)
	if !ok {
		return nil, Issues{{
			Path:    fieldPath(name),
			Code:    CodeExtraForbidden,
			Message: "no such field",
		}}
	}
	coerced, iss := coerceField(ctx, spec, FromAny(value))
	if len(iss) > 0 {
		return nil, RebaseIssues(fieldPath(name), iss)
	}
	values := make(map[string]any, len(in.values))
	for k, v := range in.values {
		values[k] = v
	}
	values[name] = coerced
	next := &Instance{schema: in.schema, values: values, extras: in.extras}
	for _, stage := range in.schema.afters {
		if err := stage(ctx, next); err != nil {
			return nil, &StageAbortError{Stage: StageAfter, Issue: abortIssue(StageAfter, err)}
		}
	}
	evaluateComputed(next)
	return next, nil
}
