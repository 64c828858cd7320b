// Package schema builds JSON Schemas in Go and validates decoded documents against them.
//
// It is used to validate configuration files before they are applied:
//
//	s := schema.MustCompile(schema.Object(map[string]*schema.Property{
//	    "model":          schema.String("Model name").MinLength(1),
//	    "max_iterations": schema.Integer("Iteration limit").Min(1).Default(10),
//	}, "model"))
//
//	var doc any
//	_ = yaml.Unmarshal(data, &doc)
//	if err := s.Validate(doc); err != nil {
//	    // err is a *ValidationError
//	}
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema pairs a raw JSON Schema document with its compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the schema document, e.g. for printing it as JSON.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate checks data against the schema. A nil Schema accepts everything.
//
// data may be any value that encodes to JSON, such as the result of yaml.Unmarshal into
// an any. It is normalized through JSON first so YAML integers and JSON numbers validate
// the same way.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	doc, err := normalize(data)
	if err != nil {
		return &ValidationError{Err: err}
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError wraps a JSON Schema validation error with a cleaner message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema document. A nil document yields a nil Schema.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	doc, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{raw: raw, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error.
// Use this for schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// -----------------------------------------------------------------------------
// Builders
// -----------------------------------------------------------------------------

// Object creates an object schema. Names passed in required must be present.
// Unknown properties are rejected so typos in config files surface as errors.
func Object(properties map[string]*Property, required ...string) map[string]any {
	schema := map[string]any{
		"type":                 "object",
		"properties":           buildProperties(properties),
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func buildProperties(properties map[string]*Property) map[string]any {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}
	return props
}

// Property is a single property in an object schema. Builder methods return the
// property for chaining.
type Property struct {
	typ         string
	description string
	enum        []any
	format      string
	minimum     *float64
	maximum     *float64
	minLength   *int
	pattern     string
	items       map[string]any
	properties  map[string]any
	required    []string
	def         any
}

func (p *Property) build() map[string]any {
	m := map[string]any{}

	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if len(p.enum) > 0 {
		m["enum"] = p.enum
	}
	if p.format != "" {
		m["format"] = p.format
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.maximum != nil {
		m["maximum"] = *p.maximum
	}
	if p.minLength != nil {
		m["minLength"] = *p.minLength
	}
	if p.pattern != "" {
		m["pattern"] = p.pattern
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.properties != nil {
		m["properties"] = p.properties
		m["additionalProperties"] = false
	}
	if len(p.required) > 0 {
		m["required"] = p.required
	}
	if p.def != nil {
		m["default"] = p.def
	}

	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a number property.
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Boolean creates a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Array creates an array property whose elements match items.
//
//	schema.Array("Enabled tools", schema.String("").Enum("calculate", "get_cost").Schema())
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// Nested creates an object-valued property.
func Nested(description string, properties map[string]*Property, required ...string) *Property {
	return &Property{
		typ:         "object",
		description: description,
		properties:  buildProperties(properties),
		required:    required,
	}
}

// Enum sets the allowed values.
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Format sets a string format annotation such as "uri" or "duration".
func (p *Property) Format(format string) *Property {
	p.format = format
	return p
}

// Min sets the inclusive minimum for number and integer properties.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// Max sets the inclusive maximum for number and integer properties.
func (p *Property) Max(max float64) *Property {
	p.maximum = &max
	return p
}

// MinLength sets the minimum length for string properties.
func (p *Property) MinLength(min int) *Property {
	p.minLength = &min
	return p
}

// Pattern sets a regular expression string properties must match.
//
//	schema.String("Timeout").Pattern(`^[0-9]+(ms|s|m)$`)
func (p *Property) Pattern(pattern string) *Property {
	p.pattern = pattern
	return p
}

// Default records the default value. It is informational; validation does not apply it.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}

// Schema returns the property as a standalone schema document, e.g. for Array items.
func (p *Property) Schema() map[string]any {
	return p.build()
}
