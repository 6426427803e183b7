package questionset

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

const maxDocumentBytes = 8 << 20

// Fetcher retrieves question documents over HTTP.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch downloads and validates the question document at rawURL. The format
// comes from the Content-Type header, falling back to the URL path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Set, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Set{}, fmt.Errorf("question set url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return Set{}, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, text/yaml;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return Set{}, fmt.Errorf("fetch question set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Set{}, fmt.Errorf("fetch question set: %s returned status %d", parsed.Redacted(), resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return Set{}, fmt.Errorf("read question set: %w", err)
	}

	set, err := Parse(data, formatFromResponse(resp.Header.Get("Content-Type"), parsed.Path))
	if err != nil {
		return Set{}, err
	}
	set.Source = SourceURL
	return set, nil
}

func formatFromResponse(contentType, path string) Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch {
		case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
			return FormatJSON
		case strings.Contains(mediaType, "yaml"):
			return FormatYAML
		}
	}
	return FormatFromPath(path)
}
