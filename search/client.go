// Package search implements the Brave Search API client used to augment
// prompts with live web results.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grokchat/config"
)

const defaultBaseURL = "https://api.search.brave.com/res/v1/web/search"

// Freshness values accepted by the Brave API.
const (
	FreshnessDay   = "d"
	FreshnessWeek  = "w"
	FreshnessMonth = "m"
)

// ErrMissingAPIKey is returned when no Brave key is configured. Callers
// treat it as a warning: search degrades to empty results and this sentinel
// is surfaced for display.
var ErrMissingAPIKey = errors.New("Brave Search API key not set")

// Result is one normalized web search result. Missing source fields map to
// empty strings.
type Result struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Snippet       string `json:"snippet"`
	Content       string `json:"content,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
}

// Options controls a single search call.
type Options struct {
	Count      int    // number of results, clamped to [1,50]
	Country    string // country code for localized results ("us", "gb", ...)
	Freshness  string // optional freshness filter (FreshnessDay, ...)
	MaxRetries int    // attempts for transient failures (default 3)
}

// Client performs web searches with retry and exponential backoff. Transport
// failures never escape Search as panics or raised errors; they degrade to
// empty results plus an error value for display.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		sleep:      time.Sleep,
	}
}

// braveResponse mirrors the slice of the Brave API response the client reads.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title         string `json:"title"`
			URL           string `json:"url"`
			Description   string `json:"description"`
			Snippet       string `json:"snippet"`
			PublishedDate string `json:"published_date"`
			Page          struct {
				Content string `json:"content"`
			} `json:"page"`
		} `json:"results"`
	} `json:"web"`
}

// Search queries the Brave API. On missing credentials it returns
// (nil, ErrMissingAPIKey). Transient failures are retried with exponential
// backoff (delay doubles per attempt, MaxRetries attempts total); exhausted
// retries return empty results and the final error for display.
func (c *Client) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if opts.Count < 1 {
		opts.Count = 10
	}
	if opts.Count > 50 {
		opts.Count = 50
	}
	if opts.Country == "" {
		opts.Country = "us"
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(opts.Count))
	params.Set("country", opts.Country)
	if opts.Freshness != "" {
		params.Set("freshness", opts.Freshness)
	}
	requestURL := c.baseURL + "?" + params.Encode()

	retryDelay := time.Second
	var lastErr error

	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		results, err := c.doRequest(ctx, requestURL)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if config.DebugLog != nil {
			config.DebugLog.Printf("[search] attempt %d/%d failed: %v", attempt+1, opts.MaxRetries, err)
		}

		if attempt < opts.MaxRetries-1 {
			c.sleep(retryDelay)
			retryDelay *= 2
		}
	}

	return []Result{}, fmt.Errorf("error fetching search results: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, requestURL string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var decoded braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]Result, 0, len(decoded.Web.Results))
	for _, item := range decoded.Web.Results {
		snippet := item.Description
		if snippet == "" {
			snippet = item.Snippet
		}
		results = append(results, Result{
			Title:         item.Title,
			URL:           item.URL,
			Snippet:       snippet,
			Content:       item.Page.Content,
			PublishedDate: item.PublishedDate,
		})
	}

	return results, nil
}

// timeSensitiveKeywords marks queries that should bias toward fresh results.
// This is caller policy rather than an API concern, but the exact set is part
// of the observable freshness behavior.
var timeSensitiveKeywords = []string{
	"news", "recent", "latest", "today", "current", "breaking", "update", "development",
}

// TimeSensitive reports whether query should be searched with day freshness.
func TimeSensitive(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range timeSensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ResultCountForQuery scales the requested result count with query
// complexity: 5 for short queries up to 10 for long ones.
func ResultCountForQuery(query string) int {
	words := len(strings.Fields(query))
	count := words / 3
	if count < 5 {
		count = 5
	}
	if count > 10 {
		count = 10
	}
	return count
}
