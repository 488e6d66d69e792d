package modelv

import (
	js "github.com/modelv/modelv/jsonschema"
)

// DescribeMode selects the perspective of a schema description.
type DescribeMode string

const (
	// ModeInput describes what callers may supply: declared fields only.
	ModeInput DescribeMode = "input"
	// ModeOutput describes what instances expose: declared fields plus
	// computed fields marked read-only.
	ModeOutput DescribeMode = "output"
)

// Describe projects structural metadata for downstream document generation.
// It performs no validation.
func Describe(s *ModelSchema, mode DescribeMode) *js.Schema {
	props := make(map[string]*js.Schema, len(s.fields))
	var required []string
	for i := range s.fields {
		f := &s.fields[i]
		ps := f.ftype.JSONSchema()
		if f.description != "" {
			ps.Description = f.description
		}
		if f.example != nil {
			ps.Example = f.example
		}
		if f.hasDefault && f.defaultFactory == nil {
			ps.Default = f.defaultValue
		}
		applyAnnotations(ps, f.constraints)
		props[f.name] = ps
		if f.required {
			required = append(required, f.name)
		}
	}
	if mode == ModeOutput {
		for i := range s.computed {
			c := &s.computed[i]
			var ps *js.Schema
			if c.ftype != nil {
				ps = c.ftype.JSONSchema()
			} else {
				ps = &js.Schema{}
			}
			ps.ReadOnly = true
			props[c.name] = ps
		}
	}
	var additional any
	switch s.unknown {
	case UnknownForbid:
		additional = false
	default:
		// ignore and preserve both accept unknown keys on the wire
		additional = true
	}
	return &js.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: additional,
	}
}

func applyAnnotations(ps *js.Schema, cs []Constraint) {
	if len(cs) == 0 {
		return
	}
	var an Annotations
	for _, c := range cs {
		if c.Annotate != nil {
			c.Annotate(&an)
		}
	}
	if an.Minimum != nil {
		ps.Minimum = an.Minimum
	}
	if an.Maximum != nil {
		ps.Maximum = an.Maximum
	}
	if an.ExclusiveMinimum != nil {
		ps.ExclusiveMinimum = an.ExclusiveMinimum
	}
	if an.ExclusiveMaximum != nil {
		ps.ExclusiveMaximum = an.ExclusiveMaximum
	}
	if an.MinLength != nil {
		ps.MinLength = an.MinLength
	}
	if an.MaxLength != nil {
		ps.MaxLength = an.MaxLength
	}
	if an.Pattern != "" {
		ps.Pattern = an.Pattern
	}
	if len(an.Enum) > 0 {
		ps.Enum = an.Enum
	}
	if an.Format != "" {
		ps.Format = an.Format
	}
}
