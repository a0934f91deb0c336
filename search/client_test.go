package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchMissingAPIKey(t *testing.T) {
	client := NewClient("")

	results, err := client.Search(context.Background(), "anything", Options{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

func TestSearchRoundTrip(t *testing.T) {
	var gotToken, gotFreshness, gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Subscription-Token")
		gotFreshness = r.URL.Query().Get("freshness")
		gotCount = r.URL.Query().Get("count")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web":{"results":[
			{"title":"First","url":"https://one.example","description":"d1","published_date":"2026-08-01"},
			{"title":"Second","url":"https://two.example","snippet":"s2"}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key")
	client.baseURL = srv.URL

	results, err := client.Search(context.Background(), "golang news", Options{
		Count:     7,
		Freshness: FreshnessDay,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotToken != "test-key" {
		t.Errorf("X-Subscription-Token = %q", gotToken)
	}
	if gotFreshness != "d" {
		t.Errorf("freshness = %q, want %q", gotFreshness, "d")
	}
	if gotCount != "7" {
		t.Errorf("count = %q, want %q", gotCount, "7")
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Snippet != "d1" {
		t.Errorf("description should win as snippet, got %q", results[0].Snippet)
	}
	if results[0].PublishedDate != "2026-08-01" {
		t.Errorf("PublishedDate = %q", results[0].PublishedDate)
	}
	if results[1].Snippet != "s2" {
		t.Errorf("snippet fallback failed, got %q", results[1].Snippet)
	}
}

func TestSearchRetriesWithBackoff(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key")
	client.baseURL = srv.URL

	var delays []time.Duration
	client.sleep = func(d time.Duration) { delays = append(delays, d) }

	results, err := client.Search(context.Background(), "query", Options{MaxRetries: 3})
	if err == nil {
		t.Fatal("expected an error after exhausted retries")
	}
	if results == nil || len(results) != 0 {
		t.Errorf("exhausted retries must yield empty results, got %v", results)
	}

	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	wantDelays := []time.Duration{time.Second, 2 * time.Second}
	if len(delays) != len(wantDelays) {
		t.Fatalf("delays = %v, want %v", delays, wantDelays)
	}
	for i, d := range wantDelays {
		if delays[i] != d {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], d)
		}
	}
}

func TestSearchRecoversMidRetry(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"web":{"results":[{"title":"Late","url":"https://late.example","description":"d"}]}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key")
	client.baseURL = srv.URL
	client.sleep = func(time.Duration) {}

	results, err := client.Search(context.Background(), "query", Options{MaxRetries: 3})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Late" {
		t.Errorf("unexpected results: %v", results)
	}
}

func TestTimeSensitive(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"latest go release", true},
		{"breaking news about storms", true},
		{"how do monads work", false},
		{"Current events in finance", true},
	}
	for _, tt := range tests {
		if got := TimeSensitive(tt.query); got != tt.want {
			t.Errorf("TimeSensitive(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestResultCountForQuery(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"short", 5},
		{"one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen", 5},
		{"", 5},
	}
	// 15 words / 3 = 5; build a 36-word query for the upper clamp.
	long := ""
	for i := 0; i < 36; i++ {
		long += "word "
	}
	tests = append(tests, struct {
		query string
		want  int
	}{long, 10})

	for _, tt := range tests {
		if got := ResultCountForQuery(tt.query); got != tt.want {
			t.Errorf("ResultCountForQuery(%d words) = %d, want %d", len(tt.query), got, tt.want)
		}
	}
}

func TestFormatResultsForContext(t *testing.T) {
	results := []Result{
		{Title: "One", URL: "https://one.example", Snippet: "first", PublishedDate: "2026-08-01"},
		{Title: "Two", URL: "https://two.example", Snippet: "second"},
	}

	text, meta := FormatResultsForContext(results, "q")
	want := "[1] One: first (Published: 2026-08-01) (Source: https://one.example)\n" +
		"[2] Two: second (Source: https://two.example)"
	if text != want {
		t.Errorf("formatted context:\n%s\nwant:\n%s", text, want)
	}
	if meta.ResultCount != 2 || meta.Query != "q" {
		t.Errorf("metadata = %+v", meta)
	}

	if text, _ := FormatResultsForContext(nil, "q"); text != "" {
		t.Errorf("empty results should format to empty string, got %q", text)
	}
}
