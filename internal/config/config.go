// Package config loads CLI configuration from defaults, an optional YAML file, a .env
// file and environment variables, in that order of increasing precedence. Command-line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rickchristie/reagent/models"
	"github.com/rickchristie/reagent/tools"
	"gopkg.in/yaml.v3"
)

// Providers.
const (
	ProviderOpenAI   = "openai"
	ProviderGitHub   = "github"
	ProviderScripted = "scripted"
)

// Defaults.
const (
	DefaultProvider        = ProviderOpenAI
	DefaultMaxIterations   = 10
	DefaultRetryAttempts   = 1
	DefaultRetryInterval   = 500 * time.Millisecond
	DefaultLogLevel        = "info"
	DefaultEnvFile         = ".env"
	DefaultGitHubModelName = models.ModelGitHubGPT41
)

// Environment variables.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGitHubToken   = "GITHUB_TOKEN"
	EnvProvider      = "REAGENT_PROVIDER"
	EnvModel         = "REAGENT_MODEL"
	EnvBaseURL       = "REAGENT_BASE_URL"
	EnvTemperature   = "REAGENT_TEMPERATURE"
	EnvMaxIterations = "REAGENT_MAX_ITERATIONS"
	EnvRetryAttempts = "REAGENT_RETRY_ATTEMPTS"
	EnvLogLevel      = "REAGENT_LOG_LEVEL"
	EnvHTTPTimeout   = "REAGENT_HTTP_TIMEOUT"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the resolved configuration.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	Temperature *float64

	// Credentials are only read from the environment. See APIKey.
	OpenAIAPIKey string
	GitHubToken  string

	MaxIterations int
	Retry         Retry

	LogLevel    string
	HTTPTimeout time.Duration

	// Behavior is placed at the top of the system prompt.
	Behavior string

	// Tools lists the enabled tools. Empty enables all of them.
	Tools []string
}

// Retry configures host-side retries of failed model calls.
type Retry struct {
	Attempts        int
	InitialInterval time.Duration
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Provider:      DefaultProvider,
		MaxIterations: DefaultMaxIterations,
		Retry: Retry{
			Attempts:        DefaultRetryAttempts,
			InitialInterval: DefaultRetryInterval,
		},
		LogLevel:    DefaultLogLevel,
		HTTPTimeout: tools.DefaultHTTPTimeout,
	}
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// Path is a YAML config file. Empty skips the file; a missing file is an error.
	Path string

	// EnvFile is a dotenv file. Empty means DefaultEnvFile; a missing file is ignored.
	EnvFile string

	// LookupEnv reads process environment variables (default os.LookupEnv). Process
	// variables win over the dotenv file.
	LookupEnv func(string) (string, bool)

	// Override is applied last, before validation. The CLI uses it for flags.
	Override func(*Config)
}

// Load resolves the configuration and validates it.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.Path != "" {
		if err := cfg.applyFile(opts.Path); err != nil {
			return Config{}, err
		}
	}

	lookup, err := envLookup(opts)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if opts.Override != nil {
		opts.Override(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fileConfig mirrors the YAML file layout.
type fileConfig struct {
	Provider      string   `yaml:"provider"`
	Model         string   `yaml:"model"`
	BaseURL       string   `yaml:"base_url"`
	Temperature   *float64 `yaml:"temperature"`
	MaxIterations int      `yaml:"max_iterations"`
	Retry         struct {
		Attempts        int    `yaml:"attempts"`
		InitialInterval string `yaml:"initial_interval"`
	} `yaml:"retry"`
	LogLevel    string   `yaml:"log_level"`
	HTTPTimeout string   `yaml:"http_timeout"`
	Behavior    string   `yaml:"behavior"`
	Tools       []string `yaml:"tools"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return c.applyYAML(data)
}

func (c *Config) applyYAML(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		return nil
	}
	if err := FileSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&c.Provider, fc.Provider)
	setString(&c.Model, fc.Model)
	setString(&c.BaseURL, fc.BaseURL)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.Behavior, fc.Behavior)
	if fc.Temperature != nil {
		c.Temperature = fc.Temperature
	}
	if fc.MaxIterations > 0 {
		c.MaxIterations = fc.MaxIterations
	}
	if fc.Retry.Attempts > 0 {
		c.Retry.Attempts = fc.Retry.Attempts
	}
	if fc.Retry.InitialInterval != "" {
		d, err := time.ParseDuration(fc.Retry.InitialInterval)
		if err != nil {
			return fmt.Errorf("%w: retry.initial_interval: %w", ErrInvalid, err)
		}
		c.Retry.InitialInterval = d
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("%w: http_timeout: %w", ErrInvalid, err)
		}
		c.HTTPTimeout = d
	}
	if len(fc.Tools) > 0 {
		c.Tools = fc.Tools
	}
	return nil
}

func envLookup(opts LoadOptions) (func(string) (string, bool), error) {
	processEnv := opts.LookupEnv
	if processEnv == nil {
		processEnv = os.LookupEnv
	}

	path := opts.EnvFile
	if path == "" {
		path = DefaultEnvFile
	}
	dotenv, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		dotenv = nil
	}

	return func(key string) (string, bool) {
		if v, ok := processEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	setString(&c.Provider, get(EnvProvider))
	setString(&c.Model, get(EnvModel))
	setString(&c.BaseURL, get(EnvBaseURL))
	setString(&c.LogLevel, get(EnvLogLevel))

	if v := get(EnvTemperature); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: parse %s: %w", ErrInvalid, EnvTemperature, err)
		}
		c.Temperature = &f
	}
	if v := get(EnvMaxIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: parse %s: %w", ErrInvalid, EnvMaxIterations, err)
		}
		c.MaxIterations = n
	}
	if v := get(EnvRetryAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: parse %s: %w", ErrInvalid, EnvRetryAttempts, err)
		}
		c.Retry.Attempts = n
	}
	if v := get(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: parse %s: %w", ErrInvalid, EnvHTTPTimeout, err)
		}
		c.HTTPTimeout = d
	}
	setString(&c.OpenAIAPIKey, get(EnvOpenAIKey))
	setString(&c.GitHubToken, get(EnvGitHubToken))
	return nil
}

// Validate checks the resolved values. A missing API key is not an error here: commands
// that never call the model do not need one, and the model constructors reject it.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGitHub, ProviderScripted:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be >= 1, got %d", ErrInvalid, c.MaxIterations)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("%w: retry attempts must be >= 1, got %d", ErrInvalid, c.Retry.Attempts)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("%w: temperature must be within [0, 2], got %g", ErrInvalid, *c.Temperature)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http_timeout must be > 0", ErrInvalid)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ModelName returns the configured model or the provider's default.
func (c Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderGitHub {
		return DefaultGitHubModelName
	}
	return ""
}

// APIKey returns the credential for the configured provider.
func (c Config) APIKey() string {
	if c.Provider == ProviderGitHub {
		return c.GitHubToken
	}
	return c.OpenAIAPIKey
}

// KeyEnv names the environment variable holding the provider's credential.
func (c Config) KeyEnv() string {
	if c.Provider == ProviderGitHub {
		return EnvGitHubToken
	}
	return EnvOpenAIKey
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
