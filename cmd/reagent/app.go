package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/agents/react"
	"github.com/rickchristie/reagent/executor"
	"github.com/rickchristie/reagent/internal/config"
	"github.com/rickchristie/reagent/loggers"
	"github.com/rickchristie/reagent/models"
	"github.com/rickchristie/reagent/policy/retry"
	"github.com/rickchristie/reagent/toolchain"
	"github.com/rickchristie/reagent/tools"
	"github.com/tmc/langchaingo/llms"
)

type appIO struct {
	stdout     io.Writer
	stderr     io.Writer
	transcript string
}

// app wires one configuration into an agent and an executor. Runs share both; each run
// gets its own ExecutionContext.
type app struct {
	cfg      config.Config
	io       appIO
	logger   *slog.Logger
	registry *toolchain.Registry
	exec     *executor.Executor
	clock    reagent.Clock
	runs     int
}

func newApp(cfg config.Config, aio appIO) (*app, error) {
	logger, err := newLogger(aio.stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, io: aio, logger: logger, clock: reagent.SystemClock{}}

	a.registry, err = a.buildRegistry()
	if err != nil {
		return nil, err
	}
	return a, nil
}

// offline reports whether the scripted demo model and canned network tools are in use.
func (a *app) offline() bool {
	return a.cfg.Provider == config.ProviderScripted
}

// ensureExecutor builds the model on first use, so commands that only list tools work
// without credentials.
func (a *app) ensureExecutor() error {
	if a.exec != nil {
		return nil
	}
	model, err := a.buildModel()
	if err != nil {
		return err
	}

	agent := react.NewAgent(model, a.registry).
		WithBehaviorAndContext(a.cfg.Behavior).
		WithClock(a.clock)

	a.exec = executor.New(agent, executor.Config{
		Name:   "cli",
		Limits: []reagent.Limit{reagent.MaxIterations(a.cfg.MaxIterations)},
		Clock:  a.clock,
	}).
		RegisterHook(loggers.NewSlogHook(a.logger)).
		RegisterHook(newProgressHook(a.io.stdout))
	return nil
}

func (a *app) buildModel() (reagent.Model, error) {
	var model reagent.Model
	switch a.cfg.Provider {
	case config.ProviderOpenAI:
		m, err := models.NewOpenAI(models.OpenAIConfig{
			APIKey:      a.cfg.APIKey(),
			Model:       a.cfg.ModelName(),
			BaseURL:     a.cfg.BaseURL,
			Temperature: a.cfg.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set %s)", err, a.cfg.KeyEnv())
		}
		model = m
	case config.ProviderGitHub:
		m, err := models.NewGitHubModel(a.cfg.ModelName(), a.cfg.APIKey())
		if err != nil {
			return nil, fmt.Errorf("%w (set %s)", err, a.cfg.KeyEnv())
		}
		if a.cfg.Temperature != nil {
			m.WithCallOptions(llms.WithTemperature(*a.cfg.Temperature))
		}
		model = m
	case config.ProviderScripted:
		model = newDemoModel(demoScenarios)
	default:
		return nil, fmt.Errorf("unknown provider %q", a.cfg.Provider)
	}

	if a.cfg.Retry.Attempts > 1 {
		model = retry.WrapModel(model, retry.Config{
			MaxAttempts:     a.cfg.Retry.Attempts,
			InitialInterval: a.cfg.Retry.InitialInterval,
			OnRetry: func(attempt int, err error, wait time.Duration) {
				a.logger.Warn("retrying model call",
					slog.Int("attempt", attempt),
					slog.Duration("wait", wait),
					slog.Any("error", err))
			},
		})
	}
	return model, nil
}

// buildRegistry registers the enabled tools in catalog order.
func (a *app) buildRegistry() (*toolchain.Registry, error) {
	var all []reagent.Tool
	if a.offline() {
		all = offlineTools(a.clock)
	} else {
		all = tools.Defaults(&http.Client{Timeout: a.cfg.HTTPTimeout}, a.clock)
	}
	if len(a.cfg.Tools) == 0 {
		return toolchain.NewRegistry(all...)
	}

	enabled := make(map[string]bool, len(a.cfg.Tools))
	for _, name := range a.cfg.Tools {
		enabled[name] = true
	}
	var selected []reagent.Tool
	for _, t := range all {
		if enabled[t.Name()] {
			selected = append(selected, t)
		}
	}
	return toolchain.NewRegistry(selected...)
}

// ask runs one question and prints the answer. The transcript is written for failed runs
// too.
func (a *app) ask(ctx context.Context, question string) error {
	if err := a.ensureExecutor(); err != nil {
		return err
	}

	execCtx := a.exec.NewExecutionContext(ctx, reagent.NewConversation(reagent.UserTurn(question)))
	a.exec.Execute(execCtx)
	a.runs++

	if a.io.transcript != "" {
		path := transcriptPath(a.io.transcript, a.runs)
		if err := loggers.WriteTranscriptFile(path, execCtx); err != nil {
			a.logger.Error("write transcript", slog.String("path", path), slog.Any("error", err))
		}
	}

	if err := execCtx.Error(); err != nil {
		return err
	}
	fmt.Fprintf(a.io.stdout, "%s %s\n", color.GreenString("Answer:"), execCtx.FinalAnswer())
	return nil
}

// transcriptPath numbers every run after the first: run.yaml, run-2.yaml, run-3.yaml.
func transcriptPath(path string, run int) string {
	if run <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + strconv.Itoa(run) + ext
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
		NoColor:    color.NoColor,
	})), nil
}
