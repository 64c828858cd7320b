package models

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// GitHubModelsBaseURL is the base URL for the GitHub Models API.
	// The OpenAI-compatible chat completions endpoint is at
	// {baseURL}/chat/completions.
	GitHubModelsBaseURL = "https://models.github.ai/inference"

	// DefaultOpenAIModel is used when OpenAIConfig.Model is empty.
	DefaultOpenAIModel = ModelOpenAIGPT4oMini
)

// ErrMissingAPIKey is returned when a provider is built without credentials.
var ErrMissingAPIKey = errors.New("api key is required")

// OpenAIConfig configures an OpenAI-compatible chat model.
type OpenAIConfig struct {
	// APIKey is required.
	APIKey string

	// Model defaults to DefaultOpenAIModel.
	Model string

	// BaseURL overrides the API endpoint, e.g. for a local OpenAI-compatible server.
	BaseURL string

	// Temperature is passed on every call. Nil leaves the provider default.
	Temperature *float64

	// HTTPClient overrides the client used for requests.
	HTTPClient interface {
		Do(req *http.Request) (*http.Response, error)
	}
}

// NewOpenAI creates a Model backed by the OpenAI chat completions API.
//
// Example:
//
//	temp := 0.0
//	model, err := models.NewOpenAI(models.OpenAIConfig{
//	    APIKey:      os.Getenv("OPENAI_API_KEY"),
//	    Temperature: &temp,
//	})
func NewOpenAI(cfg OpenAIConfig) (*LCGWrapper, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(cfg.HTTPClient))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	model := NewLCGWrapper(llm).WithModelName(cfg.Model)
	if cfg.Temperature != nil {
		model.WithCallOptions(llms.WithTemperature(*cfg.Temperature))
	}
	return model, nil
}

// githubHeaderTransport wraps an http.RoundTripper and injects
// GitHub-specific headers into every request.
type githubHeaderTransport struct {
	base http.RoundTripper
}

func (t *githubHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(req)
}

// NewGitHubModel creates a Model backed by the GitHub Models API.
//
// The token must be a GitHub Personal Access Token (fine-grained)
// with the models:read permission. Model names use the publisher/model
// format, for example "openai/gpt-4.1" or "meta/llama-4-scout".
//
// Additional openai.Option values are applied after the defaults, so they
// can override them (e.g. openai.WithHTTPClient).
func NewGitHubModel(model string, token string, opts ...openai.Option) (*LCGWrapper, error) {
	if token == "" {
		return nil, fmt.Errorf(
			"github: %w: create a fine-grained PAT with models:read "+
				"at https://github.com/settings/personal-access-tokens/new",
			ErrMissingAPIKey,
		)
	}

	baseOpts := []openai.Option{
		openai.WithBaseURL(GitHubModelsBaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithHTTPClient(&githubHeaderTransport{base: http.DefaultTransport}),
	}

	llm, err := openai.New(append(baseOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Models client: %w", err)
	}
	return NewLCGWrapper(llm).WithModelName(model), nil
}
