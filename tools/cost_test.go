package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCost(t *testing.T) {
	tests := []struct {
		arg      string
		expected string
	}{
		{"pen", "A pen costs $5"},
		{"a blue Pen", "A pen costs $5"},
		{"book", "A book costs $20"},
		{"stapler", "A stapler costs $10"},
		{"pencil", "A pen costs $5"},
		{"notebook", "A book costs $20"},
		{"eraser", "A random thing for writing costs $12."},
		{"", "A random thing for writing costs $12."},
	}

	tool := NewGetCost()
	assert.Equal(t, "book", tool.Example())
	for _, tc := range tests {
		t.Run(tc.arg, func(t *testing.T) {
			out, err := tool.Call(context.Background(), tc.arg)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}
