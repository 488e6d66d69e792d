// Package stages provides reusable model-level validators: before stages for
// key renaming, normalization and rejection, and wrap stages for observing
// the pipeline. The engine itself stays pure; anything that logs lives here.
package stages

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	modelv "github.com/modelv/modelv"
)

// ForbidKeys rejects the record wholesale when any of the given keys appears
// in the raw input, before any field work happens.
func ForbidKeys(keys ...string) modelv.BeforeStage {
	return func(ctx context.Context, raw map[string]modelv.RawValue) (map[string]modelv.RawValue, error) {
		for _, k := range keys {
			if _, ok := raw[k]; ok {
				return nil, modelv.Issues{{
					Path:    "/" + k,
					Code:    modelv.CodeExtraForbidden,
					Message: fmt.Sprintf("%q should not be included", k),
					Params:  map[string]any{"key": k},
				}}
			}
		}
		return raw, nil
	}
}

// RenameKey moves a value from one key to another. When the destination key
// is already occupied the source key is left in place, never silently
// dropped; the schema's unknown-key policy then decides its fate.
func RenameKey(from, to string) modelv.BeforeStage {
	return func(ctx context.Context, raw map[string]modelv.RawValue) (map[string]modelv.RawValue, error) {
		v, ok := raw[from]
		if !ok {
			return raw, nil
		}
		if _, taken := raw[to]; taken {
			return raw, nil
		}
		raw[to] = v
		delete(raw, from)
		return raw, nil
	}
}

// transformText rewrites text values under the given keys; non-text values
// are left for the coercer to reject with a precise path.
func transformText(fields []string, fn func(string) string) modelv.BeforeStage {
	return func(ctx context.Context, raw map[string]modelv.RawValue) (map[string]modelv.RawValue, error) {
		for _, k := range fields {
			v, ok := raw[k]
			if !ok || v.Kind() != modelv.KindText {
				continue
			}
			raw[k] = modelv.Text(fn(v.TextValue()))
		}
		return raw, nil
	}
}

// TrimText strips surrounding whitespace from the given raw text fields.
func TrimText(fields ...string) modelv.BeforeStage {
	return transformText(fields, strings.TrimSpace)
}

// LowercaseText lowercases the given raw text fields.
func LowercaseText(fields ...string) modelv.BeforeStage {
	return transformText(fields, strings.ToLower)
}

// TitleText trims and title-cases the given raw text fields, the usual
// display normalization for person names. The caser is built per call:
// cases.Caser is stateful and a stage must stay safe under concurrent
// Validate calls.
func TitleText(fields ...string) modelv.BeforeStage {
	return transformText(fields, func(s string) string {
		return cases.Title(language.Und).String(strings.TrimSpace(s))
	})
}
