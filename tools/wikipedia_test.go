package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONServer(t *testing.T, handler func(t *testing.T, r *http.Request) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body := handler(t, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWikipedia_Call(t *testing.T) {
	srv := newJSONServer(t, func(t *testing.T, r *http.Request) (int, string) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "search", q.Get("list"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))

		switch q.Get("srsearch") {
		case "Albert Einstein birth year":
			return http.StatusOK, `{"query": {"search": [
				{"title": "Albert Einstein", "snippet": "<span class=\"searchmatch\">Einstein</span> was born in 1879 and died in 1955"},
				{"title": "Other", "snippet": "ignored"}
			]}}`
		case "nothing":
			return http.StatusOK, `{"query": {"search": []}}`
		case "broken":
			return http.StatusInternalServerError, `{}`
		case "bad request":
			return http.StatusOK, `{"error": {"code": "nosrsearch", "info": "The \"srsearch\" parameter must be set."}}`
		}
		return http.StatusOK, `not json`
	})

	tool := NewWikipedia().WithBaseURL(srv.URL).WithHTTPClient(srv.Client())
	ctx := context.Background()

	out, err := tool.Call(ctx, "Albert Einstein birth year")
	require.NoError(t, err)
	assert.Equal(t, "Albert Einstein: Einstein was born in 1879 and died in 1955", out)

	out, err = tool.Call(ctx, "nothing")
	require.NoError(t, err)
	assert.Equal(t, NoResult, out)

	_, err = tool.Call(ctx, "broken")
	assert.ErrorContains(t, err, "unexpected status 500")

	_, err = tool.Call(ctx, "bad request")
	assert.ErrorContains(t, err, `The "srsearch" parameter must be set.`)

	_, err = tool.Call(ctx, "garbage")
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = tool.Call(ctx, "  ")
	assert.EqualError(t, err, "search query is required")
}

func TestWikipedia_CanceledContext(t *testing.T) {
	srv := newJSONServer(t, func(*testing.T, *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWikipedia().WithBaseURL(srv.URL).Call(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
