package modelv

import (
	"context"
	"errors"
)

// Validate is the sole data-plane entry point. It turns raw input into a
// fully validated Instance or an error: Issues for aggregated field failures,
// *StageAbortError for before/wrap/after failures. Validation is a pure
// computation over the immutable schema; any number of calls may run
// concurrently against the same ModelSchema.
func Validate(ctx context.Context, s *ModelSchema, raw RawValue) (*Instance, error) {
	if s == nil {
		return nil, Issues{{Path: "/", Code: CodeCoercion, Message: "nil schema"}}
	}
	if raw.Kind() != KindMapping {
		return nil, Issues{{
			Path:    "/",
			Code:    CodeCoercion,
			Message: "cannot coerce " + raw.Kind().String() + " into record " + s.Name(),
			Params:  map[string]any{"expected": "mapping", "got": raw.Kind().String()},
		}}
	}

	// Before stages see a copy so caller-owned input is never mutated.
	m := cloneMapping(raw.MappingValue())
	for _, stage := range s.before {
		next, err := stage(ctx, m)
		if err != nil {
			return nil, &StageAbortError{Stage: StageBefore, Issue: abortIssue(StageBefore, err)}
		}
		if next != nil {
			m = next
		}
	}

	// Unknown-key handling happens before any coercion so a forbidden key
	// aborts without running a single field validator.
	extras, abort := applyUnknownPolicy(s, m)
	if abort != nil {
		return nil, abort
	}

	pipeline := composeWraps(s, func(ctx context.Context, raw map[string]RawValue) (*Instance, error) {
		return runCore(ctx, s, raw, extras)
	})

	inst, err := pipeline(ctx, m)
	if err != nil {
		return nil, classifyWrapError(err)
	}
	return inst, nil
}

// ValidateAny is Validate over plain decoded data (map[string]any and
// friends), converting through FromAny first.
func ValidateAny(ctx context.Context, s *ModelSchema, v any) (*Instance, error) {
	return Validate(ctx, s, FromAny(v))
}

// applyUnknownPolicy scans keys the schema does not declare. Forbid aborts
// wholesale; ignore drops; preserve collects into the extras bag.
func applyUnknownPolicy(s *ModelSchema, m map[string]RawValue) (map[string]any, *StageAbortError) {
	var extras map[string]any
	for k, v := range m {
		if _, known := s.fieldIndex[k]; known {
			continue
		}
		switch s.unknown {
		case UnknownForbid:
			return nil, &StageAbortError{
				Stage: StageBefore,
				Issue: Issue{
					Path:    fieldPath(k),
					Code:    CodeExtraForbidden,
					Message: "unknown key not permitted",
					Params:  map[string]any{"key": k, "stage": StageBefore.String()},
				},
			}
		case UnknownIgnore:
			delete(m, k)
		case UnknownPreserve:
			if extras == nil {
				extras = map[string]any{}
			}
			extras[k] = rawToPlain(v)
			delete(m, k)
		}
	}
	return extras, nil
}

// composeWraps folds the declared wrap stages right-to-left so the first
// declared wrap is outermost, classic middleware order.
func composeWraps(s *ModelSchema, core Next) Next {
	pipeline := core
	for i := len(s.wraps) - 1; i >= 0; i-- {
		stage := s.wraps[i]
		inner := pipeline
		pipeline = func(ctx context.Context, raw map[string]RawValue) (*Instance, error) {
			return stage(ctx, raw, inner)
		}
	}
	return pipeline
}

// classifyWrapError keeps field aggregations and inner stage aborts intact;
// anything else raised by a wrap stage becomes a wrap-stage abort.
func classifyWrapError(err error) error {
	var iss Issues
	if errors.As(err, &iss) {
		return iss
	}
	var sa *StageAbortError
	if errors.As(err, &sa) {
		return sa
	}
	return &StageAbortError{Stage: StageWrap, Issue: abortIssue(StageWrap, err)}
}

// runCore is the continuation handed to wrap stages: per-field coercion and
// validation with exhaustive aggregation, then after stages, then computed
// fields.
func runCore(ctx context.Context, s *ModelSchema, m map[string]RawValue, extras map[string]any) (*Instance, error) {
	values := make(map[string]any, len(s.fields))
	var iss Issues
	for i := range s.fields {
		spec := &s.fields[i]
		rv, present := m[spec.name]
		if !present {
			switch {
			case spec.hasDefault:
				values[spec.name] = spec.defaultFor()
			case spec.required:
				iss = AppendIssues(iss, Issue{
					Path:    fieldPath(spec.name),
					Code:    CodeMissingRequired,
					Message: "required field missing",
				})
			default:
				// optional-typed field: simply absent
			}
			continue
		}
		v, fieldIss := coerceField(ctx, spec, rv)
		if len(fieldIss) > 0 {
			iss = AppendIssues(iss, RebaseIssues(fieldPath(spec.name), fieldIss)...)
			continue
		}
		values[spec.name] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}

	inst := &Instance{schema: s, values: values, extras: extras}
	for _, stage := range s.afters {
		if err := stage(ctx, inst); err != nil {
			return nil, &StageAbortError{Stage: StageAfter, Issue: abortIssue(StageAfter, err)}
		}
	}
	evaluateComputed(inst)
	return inst, nil
}

// coerceField runs coercion, then the declared constraint checkers in order
// (first failure wins), then the field validator chain (each link may
// transform the value; first failure stops the chain). Issues are relative to
// the field's own root.
func coerceField(ctx context.Context, spec *FieldSpec, rv RawValue) (any, Issues) {
	v, iss := spec.ftype.Coerce(ctx, rv)
	if len(iss) > 0 {
		return nil, iss
	}
	if v == nil && isOptionalType(spec.ftype) {
		// explicit null: constraints and the chain do not apply
		return nil, nil
	}
	for _, c := range spec.constraints {
		if it := c.Check(v); it != nil {
			out := *it
			if out.Code == "" {
				out.Code = CodeConstraint
			}
			if out.Params == nil {
				out.Params = map[string]any{}
			}
			if c.Name != "" {
				out.Params["constraint"] = c.Name
			}
			return nil, Issues{out}
		}
	}
	for _, fn := range spec.validators {
		next, err := fn(ctx, v)
		if err != nil {
			if child, ok := AsIssues(err); ok {
				return nil, child
			}
			return nil, Issues{{
				Path:    "/",
				Code:    CodeCustomField,
				Message: err.Error(),
				Cause:   err,
			}}
		}
		v = next
	}
	return v, nil
}

// evaluateComputed derives read-only fields in declaration order. Derivations
// read already-validated fields (including earlier computed ones) and cannot
// fail; a panic here is a schema defect, not a validation error.
func evaluateComputed(inst *Instance) {
	if len(inst.schema.computed) == 0 {
		return
	}
	inst.computed = make(map[string]any, len(inst.schema.computed))
	for i := range inst.schema.computed {
		c := &inst.schema.computed[i]
		inst.computed[c.name] = c.derive(inst)
	}
}

// rawToPlain converts a RawValue back to plain Go data for the extras bag.
func rawToPlain(v RawValue) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.BoolValue()
	case KindNumber:
		return v.NumberValue()
	case KindText:
		return v.TextValue()
	case KindSequence:
		items := v.SequenceValue()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = rawToPlain(it)
		}
		return out
	case KindMapping:
		src := v.MappingValue()
		out := make(map[string]any, len(src))
		for k, it := range src {
			out[k] = rawToPlain(it)
		}
		return out
	default:
		return nil
	}
}
