package constraint

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/google/uuid"

	modelv "github.com/modelv/modelv"
)

// Email requires an RFC 5322 address with a dotted domain, the shape typical
// web systems expect.
func Email() modelv.Constraint {
	return modelv.Constraint{
		Name: "email",
		Check: func(v any) *modelv.Issue {
			s, ok := v.(string)
			if !ok {
				return violation("expected a string email address", nil)
			}
			addr, err := mail.ParseAddress(s)
			if err != nil || addr.Address != s {
				return violation("must be a valid email address", map[string]any{"got": s})
			}
			at := strings.LastIndex(s, "@")
			if at < 0 || !strings.Contains(s[at+1:], ".") {
				return violation("must be a valid email address", map[string]any{"got": s})
			}
			return nil
		},
		Annotate: func(an *modelv.Annotations) { an.Format = "email" },
	}
}

// URL requires an absolute URL with a scheme and host.
func URL() modelv.Constraint {
	return modelv.Constraint{
		Name: "url",
		Check: func(v any) *modelv.Issue {
			s, ok := v.(string)
			if !ok {
				return violation("expected a string URL", nil)
			}
			u, err := url.Parse(s)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return violation("must be an absolute URL", map[string]any{"got": s})
			}
			return nil
		},
		Annotate: func(an *modelv.Annotations) { an.Format = "uri" },
	}
}

// UUID requires a canonical, non-nil UUID.
func UUID() modelv.Constraint {
	return modelv.Constraint{
		Name: "uuid",
		Check: func(v any) *modelv.Issue {
			s, ok := v.(string)
			if !ok {
				return violation("expected a string UUID", nil)
			}
			id, err := uuid.Parse(s)
			if err != nil || id == uuid.Nil {
				return violation("must be a valid UUID", map[string]any{"got": s})
			}
			return nil
		},
		Annotate: func(an *modelv.Annotations) { an.Format = "uuid" },
	}
}
