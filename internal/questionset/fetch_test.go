package questionset

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestFetcher(rt http.RoundTripper) *Fetcher {
	return NewFetcher(&http.Client{Transport: rt})
}

func stubResponse(status int, contentType, body string) *http.Response {
	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     header,
	}
}

func TestFetchBypassesCachesAndUsesContentType(t *testing.T) {
	var cacheControl string
	fetcher := newTestFetcher(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		cacheControl = r.Header.Get("Cache-Control")
		return stubResponse(http.StatusOK, "application/yaml; charset=utf-8", sampleYAML), nil
	}))

	set, err := fetcher.Fetch(context.Background(), "https://example.test/sets/latest")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if cacheControl != "no-store" {
		t.Fatalf("expected Cache-Control no-store, got %q", cacheControl)
	}
	if set.Source != SourceURL || len(set.Questions) != 2 {
		t.Fatalf("unexpected set: %+v", set.SetMetadata)
	}
}

func TestFetchFallsBackToPathExtension(t *testing.T) {
	fetcher := newTestFetcher(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return stubResponse(http.StatusOK, "text/plain", sampleJSON), nil
	}))

	set, err := fetcher.Fetch(context.Background(), "https://example.test/questions.json")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if set.Title != "Criminal practice" {
		t.Fatalf("unexpected title %q", set.Title)
	}
}

func TestFetchRejectsNonOKStatus(t *testing.T) {
	fetcher := newTestFetcher(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return stubResponse(http.StatusNotFound, "", ""), nil
	}))

	_, err := fetcher.Fetch(context.Background(), "https://example.test/questions.json")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFormatFromResponse(t *testing.T) {
	tests := []struct {
		contentType string
		path        string
		want        Format
	}{
		{"application/json", "/q", FormatJSON},
		{"application/vnd.quiz+json", "/q", FormatJSON},
		{"text/yaml", "/q", FormatYAML},
		{"", "/q.yaml", FormatYAML},
		{"text/plain", "/q.json", FormatJSON},
	}

	for _, tc := range tests {
		if got := formatFromResponse(tc.contentType, tc.path); got != tc.want {
			t.Fatalf("formatFromResponse(%q, %q) = %s, want %s", tc.contentType, tc.path, got, tc.want)
		}
	}
}
