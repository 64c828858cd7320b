package models

// =============================================================================
// OpenAI Models
// https://platform.openai.com/docs/models/
// =============================================================================

const (
	// GPT-4.1 Series
	ModelOpenAIGPT41     = "gpt-4.1"
	ModelOpenAIGPT41Mini = "gpt-4.1-mini"
	ModelOpenAIGPT41Nano = "gpt-4.1-nano"

	// GPT-4o Series
	ModelOpenAIGPT4o     = "gpt-4o"
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
)

// =============================================================================
// GitHub Models
// https://github.com/marketplace?type=models
//
// Names use the publisher/model form expected by NewGitHubModel.
// =============================================================================

const (
	ModelGitHubGPT41     = "openai/" + ModelOpenAIGPT41
	ModelGitHubGPT41Mini = "openai/" + ModelOpenAIGPT41Mini
	ModelGitHubGPT4oMini = "openai/" + ModelOpenAIGPT4oMini

	ModelGitHubLlama4Scout  = "meta/llama-4-scout-17b-16e-instruct"
	ModelGitHubMistralSmall = "mistral-ai/mistral-small-2503"
)
