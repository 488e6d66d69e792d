package modelv

import "sync"

// Registry is the process-wide table of registered schemas. Registration is a
// startup-time phase; callers must finish registering a schema before issuing
// Validate calls against it. Lookup is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*ModelSchema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*ModelSchema{}}
}

// Register adds a schema under its name. Re-registering the same schema is
// idempotent; a different schema under an existing name is a SchemaError.
func (r *Registry) Register(s *ModelSchema) error {
	if s == nil {
		return schemaErrorf("", "nil schema")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byName[s.name]; ok {
		if prev == s {
			return nil
		}
		return schemaErrorf(s.name, "a different schema is already registered under this name")
	}
	r.byName[s.name] = s
	return nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*ModelSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	if !ok {
		return nil, &NotRegisteredError{Name: name}
	}
	return s, nil
}

// defaultRegistry backs the package-level helpers.
var defaultRegistry = NewRegistry()

// Register adds a schema to the default registry.
func Register(s *ModelSchema) error { return defaultRegistry.Register(s) }

// MustRegister is Register but panics on error.
func MustRegister(s *ModelSchema) *ModelSchema {
	if err := defaultRegistry.Register(s); err != nil {
		panic(err)
	}
	return s
}

// Lookup resolves a schema from the default registry.
func Lookup(name string) (*ModelSchema, error) { return defaultRegistry.Lookup(name) }
