package models

import (
	"context"
	"errors"
	"time"

	"github.com/rickchristie/reagent"
	"github.com/tmc/langchaingo/llms"
)

// DefaultObservationPrefix is prepended to observation turns sent to chat models, which
// have no observation role of their own.
const DefaultObservationPrefix = "Observation: "

// LCGWrapper wraps an llms.Model and implements reagent.Model.
// It maps turns onto chat messages, normalizes token usage across providers and publishes
// model call events when an ExecutionContext is provided.
//
// Role mapping:
//   - system -> llms.ChatMessageTypeSystem
//   - user -> llms.ChatMessageTypeHuman
//   - model -> llms.ChatMessageTypeAI
//   - observation -> llms.ChatMessageTypeHuman, text prefixed with "Observation: "
//
// Example usage:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	model := models.NewLCGWrapper(llm).WithModelName("gpt-4o-mini")
//
//	// With ExecutionContext (events and stats)
//	response, err := model.GenerateTurn(ctx, execCtx, turns)
//
//	// Without ExecutionContext
//	response, err := model.GenerateTurn(ctx, nil, turns)
type LCGWrapper struct {
	model             llms.Model
	modelName         string
	callOptions       []llms.CallOption
	observationPrefix string
}

// NewLCGWrapper creates a new LCGWrapper wrapping the given llms.Model.
func NewLCGWrapper(model llms.Model) *LCGWrapper {
	return &LCGWrapper{
		model:             model,
		observationPrefix: DefaultObservationPrefix,
	}
}

// WithModelName sets the model name used in events.
// Returns the model for chaining.
func (m *LCGWrapper) WithModelName(name string) *LCGWrapper {
	m.modelName = name
	return m
}

// WithCallOptions sets options passed on every call, e.g. llms.WithTemperature(0).
func (m *LCGWrapper) WithCallOptions(opts ...llms.CallOption) *LCGWrapper {
	m.callOptions = append(m.callOptions, opts...)
	return m
}

// WithObservationPrefix replaces the prefix put in front of observation turns.
func (m *LCGWrapper) WithObservationPrefix(prefix string) *LCGWrapper {
	m.observationPrefix = prefix
	return m
}

// ModelName returns the configured model name.
func (m *LCGWrapper) ModelName() string {
	return m.modelName
}

// Unwrap returns the underlying llms.Model.
func (m *LCGWrapper) Unwrap() llms.Model {
	return m.model
}

// GenerateTurn implements reagent.Model.
// Every failure is returned wrapped as reagent.ErrModelUnavailable.
func (m *LCGWrapper) GenerateTurn(
	ctx context.Context,
	execCtx *reagent.ExecutionContext,
	turns []reagent.Turn,
) (*reagent.ModelResponse, error) {
	if execCtx != nil {
		execCtx.PublishBeforeModelCall(m.modelName, turns)
	}

	startTime := time.Now()
	lcgResponse, err := m.model.GenerateContent(ctx, m.toMessages(turns), m.callOptions...)
	duration := time.Since(startTime)

	var response *reagent.ModelResponse
	switch {
	case err != nil:
		err = reagent.ModelUnavailable(err)
	case lcgResponse == nil || len(lcgResponse.Choices) == 0:
		err = reagent.ModelUnavailable(errors.New("response has no choices"))
	default:
		response = convertLCGResponse(lcgResponse, duration)
	}

	if execCtx != nil {
		execCtx.PublishAfterModelCall(m.modelName, turns, response, duration, err)
	}
	return response, err
}

// toMessages maps turns onto chat messages in order.
func (m *LCGWrapper) toMessages(turns []reagent.Turn) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case reagent.RoleSystem:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, t.Text))
		case reagent.RoleModel:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, t.Text))
		case reagent.RoleObservation:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, m.observationPrefix+t.Text))
		default:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, t.Text))
		}
	}
	return messages
}

// convertLCGResponse converts the first choice of an llms.ContentResponse into a model turn
// with normalized token counts.
func convertLCGResponse(lcgResponse *llms.ContentResponse, duration time.Duration) *reagent.ModelResponse {
	choice := lcgResponse.Choices[0]
	response := &reagent.ModelResponse{
		Turn: reagent.ModelTurn(choice.Content),
		Info: &reagent.GenerationInfo{Duration: duration},
	}
	if rawInfo := choice.GenerationInfo; rawInfo != nil {
		response.Info.InputTokens = extractInputTokens(rawInfo)
		response.Info.OutputTokens = extractOutputTokens(rawInfo)
		response.Info.TotalTokens = extractTotalTokens(
			rawInfo,
			response.Info.InputTokens,
			response.Info.OutputTokens,
		)
	}
	return response
}

// extractInputTokens extracts input/prompt token count from GenerationInfo.
// Handles different key names used by different providers.
func extractInputTokens(info map[string]any) int {
	// OpenAI / Ollama / Google (compat)
	if v := getIntFromMap(info, "PromptTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "InputTokens"); v > 0 {
		return v
	}
	// Bedrock
	return getIntFromMap(info, "input_tokens")
}

// extractOutputTokens extracts output/completion token count from GenerationInfo.
func extractOutputTokens(info map[string]any) int {
	if v := getIntFromMap(info, "CompletionTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "OutputTokens"); v > 0 {
		return v
	}
	return getIntFromMap(info, "output_tokens")
}

// extractTotalTokens extracts total token count or computes it.
func extractTotalTokens(info map[string]any, input, output int) int {
	if v := getIntFromMap(info, "TotalTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "total_tokens"); v > 0 {
		return v
	}
	return input + output
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// Compile-time check that LCGWrapper implements reagent.Model.
var _ reagent.Model = (*LCGWrapper)(nil)
