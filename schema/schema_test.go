package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCompile(t *testing.T) {
	t.Run("nil schema returns nil", func(t *testing.T) {
		s, err := Compile(nil)
		assert.NoError(t, err)
		assert.Nil(t, s)
		assert.Nil(t, s.Raw())
		assert.NoError(t, s.Validate(map[string]any{"anything": 1}))
	})

	t.Run("valid schema compiles", func(t *testing.T) {
		raw := Object(map[string]*Property{"name": String("Name")})
		s, err := Compile(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, s.Raw())
	})

	t.Run("invalid schema fails", func(t *testing.T) {
		_, err := Compile(map[string]any{"type": 42})
		assert.ErrorContains(t, err, "failed to compile schema")
	})

	t.Run("MustCompile panics", func(t *testing.T) {
		assert.Panics(t, func() { MustCompile(map[string]any{"minimum": "zero"}) })
	})
}

func TestSchema_Validate(t *testing.T) {
	type input struct {
		yaml string
	}

	type expected struct {
		valid bool
	}

	s := MustCompile(Object(map[string]*Property{
		"provider":    String("Model provider").Enum("openai", "github", "scripted"),
		"model":       String("Model name").MinLength(1),
		"temperature": Number("Sampling temperature").Min(0).Max(2),
		"iterations":  Integer("Iteration limit").Min(1).Default(10),
		"offline":     Boolean("Use the scripted model"),
		"timeout":     String("HTTP timeout").Pattern(`^[0-9]+(ms|s|m)$`),
		"tools":       Array("Enabled tools", String("").Enum("calculate", "get_cost").Schema()),
		"retry": Nested("Retry policy", map[string]*Property{
			"attempts": Integer("Attempts").Min(1),
		}, "attempts"),
	}, "model"))

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "minimal",
			input:    input{yaml: "model: gpt-4o-mini\n"},
			expected: expected{valid: true},
		},
		{
			name: "everything",
			input: input{yaml: "provider: github\nmodel: openai/gpt-4.1\ntemperature: 0.5\n" +
				"iterations: 3\noffline: false\ntimeout: 10s\ntools: [calculate]\nretry:\n  attempts: 2\n"},
			expected: expected{valid: true},
		},
		{
			name:     "missing required",
			input:    input{yaml: "provider: openai\n"},
			expected: expected{valid: false},
		},
		{
			name:     "unknown key",
			input:    input{yaml: "model: m\nmodle: m\n"},
			expected: expected{valid: false},
		},
		{
			name:     "enum violation",
			input:    input{yaml: "model: m\nprovider: anthropic\n"},
			expected: expected{valid: false},
		},
		{
			name:     "integer as float",
			input:    input{yaml: "model: m\niterations: 2.5\n"},
			expected: expected{valid: false},
		},
		{
			name:     "below minimum",
			input:    input{yaml: "model: m\niterations: 0\n"},
			expected: expected{valid: false},
		},
		{
			name:     "above maximum",
			input:    input{yaml: "model: m\ntemperature: 3\n"},
			expected: expected{valid: false},
		},
		{
			name:     "pattern mismatch",
			input:    input{yaml: "model: m\ntimeout: soon\n"},
			expected: expected{valid: false},
		},
		{
			name:     "bad array item",
			input:    input{yaml: "model: m\ntools: [shell]\n"},
			expected: expected{valid: false},
		},
		{
			name:     "nested required",
			input:    input{yaml: "model: m\nretry: {}\n"},
			expected: expected{valid: false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var doc any
			require.NoError(t, yaml.Unmarshal([]byte(tc.input.yaml), &doc))

			err := s.Validate(doc)
			if tc.expected.valid {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
			assert.Contains(t, err.Error(), "schema validation failed")
			assert.NotNil(t, ve.Unwrap())
		})
	}
}

func TestProperty_Build(t *testing.T) {
	got := Integer("Iteration limit").Min(1).Max(100).Default(10).Schema()
	assert.Equal(t, map[string]any{
		"type":        "integer",
		"description": "Iteration limit",
		"minimum":     float64(1),
		"maximum":     float64(100),
		"default":     10,
	}, got)

	got = String("Base URL").Format("uri").Schema()
	assert.Equal(t, map[string]any{
		"type":        "string",
		"description": "Base URL",
		"format":      "uri",
	}, got)
}
