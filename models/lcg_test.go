package models

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tmc/langchaingo/llms"
)

// fakeLLM records the messages it receives and replies with a canned response.
type fakeLLM struct {
	response *llms.ContentResponse
	err      error
	messages []llms.MessageContent
	options  []llms.CallOption
}

func (f *fakeLLM) GenerateContent(
	_ context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	f.messages = messages
	f.options = options
	return f.response, f.err
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func textResponse(text string, info map[string]any) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text, GenerationInfo: info}},
	}
}

func TestLCGWrapper_GenerateTurn_MapsRoles(t *testing.T) {
	llm := &fakeLLM{response: textResponse("Answer: 5", nil)}
	model := NewLCGWrapper(llm)

	turns := []reagent.Turn{
		reagent.SystemTurn("sys"),
		reagent.UserTurn("How much is a pen?"),
		reagent.ModelTurn("Action: get_cost: pen\nPAUSE"),
		reagent.ObservationTurn("$5"),
	}
	resp, err := model.GenerateTurn(context.Background(), nil, turns)
	require.NoError(t, err)
	assert.Equal(t, reagent.ModelTurn("Answer: 5"), resp.Turn)

	require.Len(t, llm.messages, 4)
	expected := []struct {
		role llms.ChatMessageType
		text string
	}{
		{llms.ChatMessageTypeSystem, "sys"},
		{llms.ChatMessageTypeHuman, "How much is a pen?"},
		{llms.ChatMessageTypeAI, "Action: get_cost: pen\nPAUSE"},
		{llms.ChatMessageTypeHuman, "Observation: $5"},
	}
	for i, want := range expected {
		assert.Equal(t, want.role, llm.messages[i].Role, "message %d", i)
		require.Len(t, llm.messages[i].Parts, 1)
		assert.Equal(t, llms.TextContent{Text: want.text}, llm.messages[i].Parts[0], "message %d", i)
	}
}

func TestLCGWrapper_WithObservationPrefix(t *testing.T) {
	llm := &fakeLLM{response: textResponse("ok", nil)}
	model := NewLCGWrapper(llm).WithObservationPrefix("Tool said: ")

	_, err := model.GenerateTurn(context.Background(), nil, []reagent.Turn{reagent.ObservationTurn("42")})
	require.NoError(t, err)
	assert.Equal(t, llms.TextContent{Text: "Tool said: 42"}, llm.messages[0].Parts[0])
}

func TestLCGWrapper_WithCallOptions(t *testing.T) {
	llm := &fakeLLM{response: textResponse("ok", nil)}
	model := NewLCGWrapper(llm).WithCallOptions(llms.WithTemperature(0), llms.WithMaxTokens(64))

	_, err := model.GenerateTurn(context.Background(), nil, []reagent.Turn{reagent.UserTurn("q")})
	require.NoError(t, err)

	var opts llms.CallOptions
	for _, o := range llm.options {
		o(&opts)
	}
	assert.Equal(t, float64(0), opts.Temperature)
	assert.Equal(t, 64, opts.MaxTokens)
}

func TestLCGWrapper_GenerateTurn_TokenExtraction(t *testing.T) {
	tests := []struct {
		name   string
		info   map[string]any
		input  int
		output int
		total  int
	}{
		{
			name:   "openai keys",
			info:   map[string]any{"PromptTokens": 10, "CompletionTokens": 5, "TotalTokens": 15},
			input:  10,
			output: 5,
			total:  15,
		},
		{
			name:   "anthropic keys, computed total",
			info:   map[string]any{"InputTokens": int64(7), "OutputTokens": int32(3)},
			input:  7,
			output: 3,
			total:  10,
		},
		{
			name:   "bedrock keys as floats",
			info:   map[string]any{"input_tokens": float64(4), "output_tokens": float32(2), "total_tokens": 6},
			input:  4,
			output: 2,
			total:  6,
		},
		{
			name: "unknown value types ignored",
			info: map[string]any{"PromptTokens": "ten"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model := NewLCGWrapper(&fakeLLM{response: textResponse("ok", tc.info)})
			resp, err := model.GenerateTurn(context.Background(), nil, nil)
			require.NoError(t, err)
			require.NotNil(t, resp.Info)
			assert.Equal(t, tc.input, resp.Info.InputTokens)
			assert.Equal(t, tc.output, resp.Info.OutputTokens)
			assert.Equal(t, tc.total, resp.Info.TotalTokens)
		})
	}
}

func TestLCGWrapper_GenerateTurn_Errors(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		llm  *fakeLLM
	}{
		{name: "provider error", llm: &fakeLLM{err: cause}},
		{name: "nil response", llm: &fakeLLM{}},
		{name: "no choices", llm: &fakeLLM{response: &llms.ContentResponse{}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := NewLCGWrapper(tc.llm).GenerateTurn(context.Background(), nil, nil)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, reagent.ErrModelUnavailable)
		})
	}

	_, err := NewLCGWrapper(&fakeLLM{err: cause}).GenerateTurn(context.Background(), nil, nil)
	assert.ErrorIs(t, err, cause)
}

func TestLCGWrapper_GenerateTurn_PublishesEvents(t *testing.T) {
	rec := tt.NewRecorder()
	execCtx := reagent.NewExecutionContext(context.Background(), "test", nil)
	execCtx.SetDispatcher(rec)

	model := NewLCGWrapper(&fakeLLM{response: textResponse("ok", map[string]any{
		"PromptTokens": 12, "CompletionTokens": 3,
	})}).WithModelName("gpt-test")

	_, err := model.GenerateTurn(context.Background(), execCtx, []reagent.Turn{reagent.UserTurn("q")})
	require.NoError(t, err)

	assert.Equal(t, []string{reagent.EventNameModelCallBefore, reagent.EventNameModelCallAfter}, rec.Names())
	after, ok := rec.Events()[1].(*reagent.AfterModelCallEvent)
	require.True(t, ok)
	assert.Equal(t, "gpt-test", after.Model)
	assert.Equal(t, 12, after.InputTokens)

	stats := execCtx.Stats()
	assert.Equal(t, int64(1), stats.GetCounter(reagent.KeyModelCalls))
	assert.Equal(t, int64(12), stats.GetCounter(reagent.KeyInputTokens))
	assert.Equal(t, int64(3), stats.GetCounter(reagent.KeyOutputTokens))
}

func TestNewOpenAI(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		model, err := NewOpenAI(OpenAIConfig{})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
		assert.Nil(t, model)
	})

	t.Run("default model", func(t *testing.T) {
		model, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, DefaultOpenAIModel, model.ModelName())
	})

	t.Run("talks to base url", func(t *testing.T) {
		var body []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			body, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{
				"id": "chatcmpl-1",
				"object": "chat.completion",
				"created": 1,
				"model": "local-model",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "Answer: $5"}, "finish_reason": "stop"}],
				"usage": {"prompt_tokens": 20, "completion_tokens": 4, "total_tokens": 24}
			}`)
		}))
		defer srv.Close()

		temp := 0.0
		model, err := NewOpenAI(OpenAIConfig{
			APIKey:      "sk-test",
			Model:       "local-model",
			BaseURL:     srv.URL,
			Temperature: &temp,
		})
		require.NoError(t, err)

		resp, err := model.GenerateTurn(context.Background(), nil, []reagent.Turn{
			reagent.SystemTurn("sys"),
			reagent.UserTurn("How much is a pen?"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Answer: $5", resp.Turn.Text)
		assert.Equal(t, 24, resp.Info.TotalTokens)

		assert.Equal(t, "local-model", gjson.GetBytes(body, "model").String())
		assert.Equal(t, "system", gjson.GetBytes(body, "messages.0.role").String())
		assert.Equal(t, "user", gjson.GetBytes(body, "messages.1.role").String())
	})

	t.Run("server error is model unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		model, err := NewOpenAI(OpenAIConfig{APIKey: "sk-bad", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = model.GenerateTurn(context.Background(), nil, []reagent.Turn{reagent.UserTurn("q")})
		assert.ErrorIs(t, err, reagent.ErrModelUnavailable)
	})
}

func TestNewGitHubModel(t *testing.T) {
	_, err := NewGitHubModel("openai/gpt-4.1", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	model, err := NewGitHubModel("openai/gpt-4.1", "ghp_test")
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4.1", model.ModelName())
}

func TestGitHubHeaderTransport(t *testing.T) {
	var version string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version = r.Header.Get("X-GitHub-Api-Version")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := (&githubHeaderTransport{base: http.DefaultTransport}).Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "2022-11-28", version)
}
