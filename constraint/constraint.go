// Package constraint is the library of declarative checkers attached to
// field specs. Each checker is a pure predicate over a single coerced value;
// the engine runs them in declaration order and reports the first failure per
// field. Checkers also annotate schema descriptions.
package constraint

import (
	"fmt"
	"regexp"
	"strings"

	modelv "github.com/modelv/modelv"
)

func violation(msg string, params map[string]any) *modelv.Issue {
	return &modelv.Issue{
		Path:    "/",
		Code:    modelv.CodeConstraint,
		Message: msg,
		Params:  params,
	}
}

// asFloat widens the numeric types the coercer produces.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Min requires a numeric value >= n (inclusive).
func Min(n float64) modelv.Constraint {
	return modelv.Constraint{
		Name: "min",
		Check: func(v any) *modelv.Issue {
			f, ok := asFloat(v)
			if !ok || f >= n {
				return nil
			}
			return violation(fmt.Sprintf("must be at least %v", n), map[string]any{"min": n, "got": v})
		},
		Annotate: func(an *modelv.Annotations) { an.Minimum = &n },
	}
}

// Max requires a numeric value <= n (inclusive).
func Max(n float64) modelv.Constraint {
	return modelv.Constraint{
		Name: "max",
		Check: func(v any) *modelv.Issue {
			f, ok := asFloat(v)
			if !ok || f <= n {
				return nil
			}
			return violation(fmt.Sprintf("must be at most %v", n), map[string]any{"max": n, "got": v})
		},
		Annotate: func(an *modelv.Annotations) { an.Maximum = &n },
	}
}

// GreaterThan requires a numeric value strictly greater than n.
func GreaterThan(n float64) modelv.Constraint {
	return modelv.Constraint{
		Name: "gt",
		Check: func(v any) *modelv.Issue {
			f, ok := asFloat(v)
			if !ok || f > n {
				return nil
			}
			return violation(fmt.Sprintf("must be greater than %v", n), map[string]any{"gt": n, "got": v})
		},
		Annotate: func(an *modelv.Annotations) { an.ExclusiveMinimum = &n },
	}
}

// LessThan requires a numeric value strictly less than n.
func LessThan(n float64) modelv.Constraint {
	return modelv.Constraint{
		Name: "lt",
		Check: func(v any) *modelv.Issue {
			f, ok := asFloat(v)
			if !ok || f < n {
				return nil
			}
			return violation(fmt.Sprintf("must be less than %v", n), map[string]any{"lt": n, "got": v})
		},
		Annotate: func(an *modelv.Annotations) { an.ExclusiveMaximum = &n },
	}
}

// length measures strings by runes and sequences by element count.
func length(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len([]rune(t)), true
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	default:
		return 0, false
	}
}

// MinLen requires a string/sequence/mapping length >= n.
func MinLen(n int) modelv.Constraint {
	return modelv.Constraint{
		Name: "min_len",
		Check: func(v any) *modelv.Issue {
			l, ok := length(v)
			if !ok || l >= n {
				return nil
			}
			return violation(fmt.Sprintf("must have at least %d elements", n), map[string]any{"min": n, "got": l})
		},
		Annotate: func(an *modelv.Annotations) { an.MinLength = &n },
	}
}

// MaxLen requires a string/sequence/mapping length <= n.
func MaxLen(n int) modelv.Constraint {
	return modelv.Constraint{
		Name: "max_len",
		Check: func(v any) *modelv.Issue {
			l, ok := length(v)
			if !ok || l <= n {
				return nil
			}
			return violation(fmt.Sprintf("must have at most %d elements", n), map[string]any{"max": n, "got": l})
		},
		Annotate: func(an *modelv.Annotations) { an.MaxLength = &n },
	}
}

// NonEmpty requires a string that is not blank after trimming whitespace.
// The annotation mirrors that exactly: at least one non-whitespace character,
// which a bare minLength would not express.
func NonEmpty() modelv.Constraint {
	one := 1
	return modelv.Constraint{
		Name: "non_empty",
		Check: func(v any) *modelv.Issue {
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) != "" {
				return nil
			}
			return violation("must not be empty", nil)
		},
		Annotate: func(an *modelv.Annotations) {
			an.MinLength = &one
			an.Pattern = `\S`
		},
	}
}

// Pattern requires a string matching the anchored regular expression. The
// pattern is compiled once at schema declaration time; a bad pattern panics
// there, not per call.
func Pattern(expr string) modelv.Constraint {
	re := regexp.MustCompile(expr)
	return modelv.Constraint{
		Name: "pattern",
		Check: func(v any) *modelv.Issue {
			s, ok := v.(string)
			if !ok || re.MatchString(s) {
				return nil
			}
			return violation("must match pattern "+expr, map[string]any{"pattern": expr, "got": s})
		},
		Annotate: func(an *modelv.Annotations) { an.Pattern = expr },
	}
}

// OneOf requires the value to be a member of the allowed set.
func OneOf[T comparable](allowed ...T) modelv.Constraint {
	set := make(map[T]struct{}, len(allowed))
	enum := make([]any, 0, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
		enum = append(enum, a)
	}
	return modelv.Constraint{
		Name: "one_of",
		Check: func(v any) *modelv.Issue {
			tv, ok := v.(T)
			if !ok {
				return violation("unexpected value type for membership check", map[string]any{"got": v})
			}
			if _, member := set[tv]; member {
				return nil
			}
			return violation(fmt.Sprintf("must be one of %v", allowed), map[string]any{"allowed": enum, "got": v})
		},
		Annotate: func(an *modelv.Annotations) { an.Enum = enum },
	}
}
