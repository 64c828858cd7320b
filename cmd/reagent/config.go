package main

import (
	"encoding/json"

	"github.com/rickchristie/reagent/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(newShownConfig(cfg)); err != nil {
				return err
			}
			return enc.Close()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for config files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(config.FileSchema.Raw())
		},
	})
	return cmd
}

// shownConfig mirrors the config file layout. Credentials are reported as set or not.
type shownConfig struct {
	Provider      string   `yaml:"provider"`
	Model         string   `yaml:"model,omitempty"`
	BaseURL       string   `yaml:"base_url,omitempty"`
	Temperature   *float64 `yaml:"temperature,omitempty"`
	MaxIterations int      `yaml:"max_iterations"`
	Retry         struct {
		Attempts        int    `yaml:"attempts"`
		InitialInterval string `yaml:"initial_interval"`
	} `yaml:"retry"`
	LogLevel    string   `yaml:"log_level"`
	HTTPTimeout string   `yaml:"http_timeout"`
	Behavior    string   `yaml:"behavior,omitempty"`
	Tools       []string `yaml:"tools,omitempty"`
	Credentials string   `yaml:"credentials"`
}

func newShownConfig(cfg config.Config) shownConfig {
	s := shownConfig{
		Provider:      cfg.Provider,
		Model:         cfg.ModelName(),
		BaseURL:       cfg.BaseURL,
		Temperature:   cfg.Temperature,
		MaxIterations: cfg.MaxIterations,
		LogLevel:      cfg.LogLevel,
		HTTPTimeout:   cfg.HTTPTimeout.String(),
		Behavior:      cfg.Behavior,
		Tools:         cfg.Tools,
	}
	s.Retry.Attempts = cfg.Retry.Attempts
	s.Retry.InitialInterval = cfg.Retry.InitialInterval.String()

	switch {
	case cfg.Provider == config.ProviderScripted:
		s.Credentials = "not needed"
	case cfg.APIKey() != "":
		s.Credentials = cfg.KeyEnv() + " is set"
	default:
		s.Credentials = cfg.KeyEnv() + " is not set"
	}
	return s
}
