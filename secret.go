package modelv

// secretMask is the fixed printable form of any secret, regardless of length.
const secretMask = "**********"

// Secret is an opaque holder for sensitive string values. Its printable and
// JSON forms are always the fixed mask; the underlying value is reachable
// only through Reveal. Comparisons for validation purposes must use Equal (or
// compare revealed values deliberately), never the masked form.
type Secret struct {
	value string
}

// NewSecret wraps a sensitive value.
func NewSecret(v string) Secret { return Secret{value: v} }

// Reveal returns the underlying value.
func (s Secret) Reveal() string { return s.value }

// Equal compares underlying values.
func (s Secret) Equal(other Secret) bool { return s.value == other.value }

// String returns the fixed mask, or the empty string for an empty secret.
func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return secretMask
}

// GoString keeps %#v output masked as well.
func (s Secret) GoString() string { return "modelv.Secret(" + s.String() + ")" }

// MarshalJSON emits the mask, never the underlying value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
