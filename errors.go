package modelv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeCoercion        = "coercion_error"
	CodeConstraint      = "constraint_violation"
	CodeCustomField     = "custom_field_error"
	CodeMissingRequired = "missing_required_field"
	CodeExtraForbidden  = "extra_field_forbidden"
	CodeStageAbort      = "stage_abort"
	// Structural sub-codes surfaced as coercion-level failures.
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":0})
	// for rendering and observability.
	Params map[string]any
}

// Location splits the JSON Pointer path into root-to-leaf segments, parsing
// sequence indices into ints. This is the stable consumer-facing location
// shape; Path remains the internal representation.
func (it Issue) Location() []any {
	if it.Path == "" || it.Path == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(it.Path, "/"), "/")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		p = strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~")
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
			continue
		}
		out = append(out, p)
	}
	return out
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. constraint_violation at /quantity
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally. Stage
// abort errors are rendered as their single underlying issue so consumers
// always see the flat ordered list shape.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var sa *StageAbortError
	if errors.As(err, &sa) {
		return Issues{sa.Issue}, true
	}
	return nil, false
}

// RebaseIssues re-anchors child issues under the given base pointer. Nested
// schemas report paths relative to their own root; the parent extends them.
func RebaseIssues(base string, iss Issues) Issues {
	if len(iss) == 0 {
		return nil
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// escapePointer escapes a key per RFC 6901 ('~' -> '~0', '/' -> '~1').
func escapePointer(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
}

// fieldPath renders a top-level field pointer.
func fieldPath(name string) string { return "/" + escapePointer(name) }

// StageAbortError is returned when a before/wrap/after stage rejects the
// record wholesale. Stage failures are never aggregated with field issues;
// they indicate the input cannot be meaningfully interpreted at all.
type StageAbortError struct {
	Stage StageKind
	Issue Issue
}

func (e *StageAbortError) Error() string {
	return fmt.Sprintf("%s stage aborted: %s at %s", e.Stage, e.Issue.Code, e.Issue.Path)
}

func (e *StageAbortError) Unwrap() error { return e.Issue.Cause }

// abortIssue builds the canonical issue for a stage failure. Errors that are
// already Issues keep their first entry's path and message.
func abortIssue(stage StageKind, err error) Issue {
	if iss, ok := AsIssues(err); ok && len(iss) > 0 {
		it := iss[0]
		if it.Code == "" {
			it.Code = CodeStageAbort
		}
		if it.Params == nil {
			it.Params = map[string]any{}
		}
		it.Params["stage"] = stage.String()
		return it
	}
	return Issue{
		Path:    "/",
		Code:    CodeStageAbort,
		Message: err.Error(),
		Cause:   err,
		Params:  map[string]any{"stage": stage.String()},
	}
}

// SchemaError reports a schema definition defect. It is raised only while
// building or registering a schema and is fatal to startup, never per-call.
type SchemaError struct {
	Model  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("modelv: schema %q: %s", e.Model, e.Reason)
}

func schemaErrorf(model, format string, args ...any) *SchemaError {
	return &SchemaError{Model: model, Reason: fmt.Sprintf(format, args...)}
}

// NotRegisteredError reports a registry lookup miss.
type NotRegisteredError struct {
	Name string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("modelv: schema %q is not registered", e.Name)
}
