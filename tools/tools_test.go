package tools_test

import (
	"context"
	"testing"
	"time"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/toolchain"
	"github.com/rickchristie/reagent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Register(t *testing.T) {
	clock := reagent.NewFixedClock(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))
	reg, err := toolchain.NewRegistry(tools.Defaults(nil, clock)...)
	require.NoError(t, err)

	assert.Equal(t, []string{
		tools.CalculateName,
		tools.GetCostName,
		tools.WikipediaName,
		tools.GetTimeName,
		tools.GetWeatherName,
	}, reg.Names())

	prompt := reg.AvailableToolsPrompt()
	assert.Contains(t, prompt, "calculate:\ne.g., calculate: 4 * 7 / 3\n")
	assert.Contains(t, prompt, "get_cost:\ne.g., get_cost: book\nreturns the cost of a book\n")
	assert.Contains(t, prompt, "wikipedia:\ne.g., wikipedia: Django\n")

	out, err := reg.Invoke(context.Background(), nil, "calculate", "1879 * 5")
	require.NoError(t, err)
	assert.Equal(t, "9395", out)

	out, err = reg.Invoke(context.Background(), nil, "get_time", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-15 00:00:00", out)

	_, err = reg.Invoke(context.Background(), nil, "calculate", "1 / 0")
	assert.ErrorIs(t, err, reagent.ErrToolExecution)
	assert.ErrorIs(t, err, tools.ErrDivisionByZero)
}
