// Package modelv turns untrusted, loosely-typed input into fully validated,
// strongly-typed instances:
//
// - Declarative schemas built once (NewModel builder) and read-many
// - Staged model validation: before (raw input), wrap (middleware over the
//   remaining pipeline), after (cross-field invariants)
// - Type-directed coercion with constraint checking and per-field validator
//   chains, aggregating every field failure with its JSON Pointer location
// - Computed (derived, read-only) fields on the success path
// - A stable error model via Issues (path, code, message)
//
// Design policy:
// - Keep the engine pure: no I/O, no logging, no global mutable state during
//   a Validate call. Input drivers live under source/, stage helpers under
//   stages/, the checker library under constraint/.
// - Field failures aggregate across the record; stage failures abort
//   wholesale as *StageAbortError.
//
// Typical usage:
//
//	order := modelv.NewModel("order").
//		Field("id", modelv.Int(), constraint.Min(1)).Required().
//		Field("quantity", modelv.Int(), constraint.GreaterThan(0)).Required().
//		MustBuild()
//
//	inst, err := modelv.Validate(ctx, order, modelv.MappingFromAny(input))
package modelv
