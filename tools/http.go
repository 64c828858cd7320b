package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultHTTPTimeout bounds each request made by the HTTP-backed tools.
	DefaultHTTPTimeout = 10 * time.Second

	// UserAgent is sent with every request. Wikipedia rejects anonymous clients.
	UserAgent = "reagent/1.0 (https://github.com/rickchristie/reagent)"

	maxResponseBytes = 1 << 20
)

// DefaultHTTPClient returns the client used when none is injected.
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultHTTPTimeout}
}

// getJSON fetches base?query and returns the parsed JSON document.
func getJSON(ctx context.Context, client *http.Client, base string, query url.Values) (gjson.Result, error) {
	u, err := url.Parse(base)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("invalid url %q: %w", base, err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, u.Host)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", u.Host)
	}
	return gjson.ParseBytes(body), nil
}
