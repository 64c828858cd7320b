package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/rickchristie/reagent"
)

const (
	// WikipediaName is the name of the Wikipedia search tool.
	WikipediaName = "wikipedia"

	// WikipediaAPIURL is the English Wikipedia MediaWiki API endpoint.
	WikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

	// NoResult is returned when a search finds nothing.
	NoResult = "No result"
)

// Wikipedia searches Wikipedia and returns the snippet of the best match as plain text.
type Wikipedia struct {
	baseURL string
	client  *http.Client
}

// NewWikipedia creates the tool against the public English Wikipedia API.
func NewWikipedia() *Wikipedia {
	return &Wikipedia{
		baseURL: WikipediaAPIURL,
		client:  DefaultHTTPClient(),
	}
}

// WithBaseURL points the tool at another MediaWiki api.php endpoint.
func (w *Wikipedia) WithBaseURL(u string) *Wikipedia {
	w.baseURL = u
	return w
}

// WithHTTPClient sets the HTTP client.
func (w *Wikipedia) WithHTTPClient(c *http.Client) *Wikipedia {
	w.client = c
	return w
}

func (w *Wikipedia) Name() string { return WikipediaName }

func (w *Wikipedia) Description() string {
	return "Returns a summary from searching Wikipedia"
}

func (w *Wikipedia) Example() string { return "Django" }

// Call runs a full-text search for argument and returns the first result's snippet.
func (w *Wikipedia) Call(ctx context.Context, argument string) (string, error) {
	q := strings.TrimSpace(argument)
	if q == "" {
		return "", errors.New("search query is required")
	}

	doc, err := getJSON(ctx, w.client, w.baseURL, url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {q},
		"format":   {"json"},
	})
	if err != nil {
		return "", fmt.Errorf("wikipedia: %w", err)
	}

	if apiErr := doc.Get("error.info"); apiErr.Exists() {
		return "", fmt.Errorf("wikipedia: %s", apiErr.String())
	}

	first := doc.Get("query.search.0")
	if !first.Exists() {
		return NoResult, nil
	}
	snippet, err := htmltomarkdown.ConvertString(first.Get("snippet").String())
	if err != nil {
		return "", fmt.Errorf("wikipedia: convert snippet: %w", err)
	}
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return NoResult, nil
	}
	if title := first.Get("title").String(); title != "" {
		return title + ": " + snippet, nil
	}
	return snippet, nil
}

var (
	_ reagent.Tool     = (*Wikipedia)(nil)
	_ reagent.Exampler = (*Wikipedia)(nil)
)
