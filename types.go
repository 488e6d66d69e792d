package modelv

import "context"

// UnknownPolicy controls how unrecognized input keys are handled.
type UnknownPolicy int

const (
	UnknownForbid   UnknownPolicy = iota // Abort validation before any field coercion.
	UnknownIgnore                        // Drop unknown keys silently.
	UnknownPreserve                      // Carry unknown keys into the instance's extras bag.
)

// StageKind identifies a model-level validation stage.
type StageKind int

const (
	StageBefore StageKind = iota // Runs on the raw, not-yet-coerced mapping.
	StageWrap                    // Wraps the remaining pipeline as middleware.
	StageAfter                   // Runs on the fully constructed instance.
)

func (k StageKind) String() string {
	switch k {
	case StageBefore:
		return "before"
	case StageWrap:
		return "wrap"
	case StageAfter:
		return "after"
	default:
		return "unknown"
	}
}

// Constraint is a pure predicate over a single coerced value. Check returns
// nil on success or an issue describing the violation; the engine anchors the
// issue at the field's path. Annotate optionally decorates the field's
// description for Describe and may be nil.
type Constraint struct {
	Name     string
	Check    func(v any) *Issue
	Annotate func(an *Annotations)
}

// Annotations collects constraint metadata for schema descriptions without
// coupling constraint checkers to the description model.
type Annotations struct {
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MinLength        *int
	MaxLength        *int
	Pattern          string
	Enum             []any
	Format           string
}

// FieldValidator is one link of a per-field chain run after successful
// coercion. It may transform the value or reject it with a domain error.
type FieldValidator func(ctx context.Context, v any) (any, error)

// BeforeStage operates on the raw input mapping prior to any coercion,
// typically renaming or normalizing keys. Returning an error aborts the call.
type BeforeStage func(ctx context.Context, raw map[string]RawValue) (map[string]RawValue, error)

// Next is the continuation handed to a wrap stage: the rest of the pipeline
// (field coercion, field validation, after stages and computed fields) as a
// callable.
type Next func(ctx context.Context, raw map[string]RawValue) (*Instance, error)

// WrapStage receives the raw input and the remaining pipeline. It may inspect
// or alter the input before invoking next, post-process the produced
// instance, translate errors, or short-circuit by not invoking next at all.
type WrapStage func(ctx context.Context, raw map[string]RawValue, next Next) (*Instance, error)

// AfterStage runs cross-field invariants over a fully field-validated
// instance. Returning an error aborts the call; after stages never run while
// any field issue is outstanding.
type AfterStage func(ctx context.Context, inst *Instance) error

// Derivation computes a read-only field from an already-validated instance.
// It must not fail; a derivation that cannot be computed is a schema defect,
// not a validation error.
type Derivation func(inst *Instance) any
