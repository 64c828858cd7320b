package main

import (
	"io"

	"github.com/rickchristie/reagent/internal/config"
	"github.com/spf13/cobra"
)

// options holds the persistent flags.
type options struct {
	configPath    string
	envFile       string
	offline       bool
	provider      string
	model         string
	maxIterations int
	logLevel      string
	transcript    string

	lookupEnv func(string) (string, bool)
}

// newRootCmd builds the command tree. lookupEnv reads environment variables.
func newRootCmd(stdout, stderr io.Writer, lookupEnv func(string) (string, bool)) *cobra.Command {
	opts := &options{lookupEnv: lookupEnv}

	root := &cobra.Command{
		Use:   "reagent",
		Short: "Answer questions with a ReAct agent",
		Long: `reagent runs a Thought / Action / Observation loop against a language model.
The model may call the built-in tools (calculate, get_cost, wikipedia, get_time,
get_weather) before it gives an Answer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML config file")
	pf.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file, ignored when missing")
	pf.BoolVar(&opts.offline, "offline", false, "use the scripted demo model and canned network tools")
	pf.StringVar(&opts.provider, "provider", "", "model provider: openai, github or scripted")
	pf.StringVar(&opts.model, "model", "", "model name")
	pf.IntVar(&opts.maxIterations, "max-iterations", 0, "maximum model calls per question")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&opts.transcript, "transcript", "", "write a YAML transcript of each run to this file")

	root.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newToolsCmd(opts),
		newDemoCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// load resolves the configuration with flags applied on top.
func (o *options) load() (config.Config, error) {
	return config.Load(config.LoadOptions{
		Path:      o.configPath,
		EnvFile:   o.envFile,
		LookupEnv: o.lookupEnv,
		Override:  o.apply,
	})
}

func (o *options) apply(cfg *config.Config) {
	switch {
	case o.offline:
		cfg.Provider = config.ProviderScripted
	case o.provider != "":
		cfg.Provider = o.provider
	}
	if o.model != "" {
		cfg.Model = o.model
	}
	if o.maxIterations != 0 {
		cfg.MaxIterations = o.maxIterations
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

// setup loads the configuration and builds the app writing to cmd's streams.
func (o *options) setup(cmd *cobra.Command) (*app, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, appIO{
		stdout:     cmd.OutOrStdout(),
		stderr:     cmd.ErrOrStderr(),
		transcript: o.transcript,
	})
}
