// Package testutil provides shared infrastructure for integration tests that run the
// agent against a live model.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/agents/react"
	"github.com/rickchristie/reagent/executor"
	"github.com/rickchristie/reagent/loggers"
	"github.com/rickchristie/reagent/models"
	"github.com/rickchristie/reagent/policy/retry"
	"github.com/rickchristie/reagent/toolchain"
	"github.com/rickchristie/reagent/tools"
	"github.com/tmc/langchaingo/llms"
)

// Environment variables read by CreateModel. GitHub Models is tried first.
const (
	EnvGitHubToken = "REAGENT_TEST_GITHUB_TOKEN"
	EnvOpenAIKey   = "REAGENT_TEST_OPENAI_KEY"
	EnvModel       = "REAGENT_TEST_MODEL"
)

// Available reports whether a live model is configured. Tests call t.Skip otherwise.
func Available() bool {
	return os.Getenv(EnvGitHubToken) != "" || os.Getenv(EnvOpenAIKey) != ""
}

// CreateModel creates a live model at temperature 0, wrapped with retries for rate
// limits.
func CreateModel() (reagent.Model, error) {
	name := os.Getenv(EnvModel)

	var model *models.LCGWrapper
	var err error
	switch {
	case os.Getenv(EnvGitHubToken) != "":
		if name == "" {
			name = models.ModelGitHubGPT41Mini
		}
		model, err = models.NewGitHubModel(name, os.Getenv(EnvGitHubToken))
	case os.Getenv(EnvOpenAIKey) != "":
		model, err = models.NewOpenAI(models.OpenAIConfig{
			APIKey: os.Getenv(EnvOpenAIKey),
			Model:  name,
		})
	default:
		return nil, fmt.Errorf("neither %s nor %s is set", EnvGitHubToken, EnvOpenAIKey)
	}
	if err != nil {
		return nil, err
	}
	model.WithCallOptions(llms.WithTemperature(0))

	return retry.WrapModel(model, retry.Config{
		MaxAttempts:     3,
		InitialInterval: 2 * time.Second,
	}), nil
}

// PrintHeader prints a header line.
func PrintHeader(w io.Writer, title string) {
	line := strings.Repeat("=", 80)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, line)
}

// ContainsIgnoreCase checks if s contains substr, case-insensitive.
func ContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// -------------------------------------------------------------------------
// Scenario + RunScenario
// -------------------------------------------------------------------------

// Scenario defines one question asked of the live model.
type Scenario struct {
	Name          string
	Question      string
	MaxIterations int

	// Tools defaults to tools.Defaults.
	Tools []reagent.Tool
}

// RunScenario asks the scenario's question and prints the transcript and debug logs to
// w. The returned context holds the outcome.
func RunScenario(ctx context.Context, w io.Writer, scenario Scenario) (*reagent.ExecutionContext, error) {
	model, err := CreateModel()
	if err != nil {
		return nil, err
	}

	toolset := scenario.Tools
	if toolset == nil {
		toolset = tools.Defaults(nil, nil)
	}
	registry, err := toolchain.NewRegistry(toolset...)
	if err != nil {
		return nil, err
	}

	maxIter := scenario.MaxIterations
	if maxIter == 0 {
		maxIter = reagent.DefaultMaxIterations
	}

	agent := react.NewAgent(model, registry).WithClock(reagent.SystemClock{})
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	exec := executor.New(agent, executor.Config{
		Name:   scenario.Name,
		Limits: []reagent.Limit{reagent.MaxIterations(maxIter)},
	}).RegisterHook(loggers.NewSlogHook(logger))

	PrintHeader(w, scenario.Name+": "+scenario.Question)
	execCtx := exec.NewExecutionContext(ctx, reagent.NewConversation(reagent.UserTurn(scenario.Question)))
	exec.Execute(execCtx)

	fmt.Fprintln(w)
	PrintHeader(w, "TRANSCRIPT")
	if err := loggers.WriteTranscript(w, execCtx); err != nil {
		return execCtx, err
	}
	return execCtx, nil
}
