package tle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const celestrakURLFormat = "https://celestrak.org/NORAD/elements/gp.php?CATNR=%d&FORMAT=tle"

// Fetcher retrieves raw TLE data from Celestrak by catalog number.
type Fetcher struct {
	urlFormat  string
	httpClient *http.Client
}

// NewFetcher creates a Fetcher. urlFormat must contain one %d verb for the
// catalog number; empty selects the Celestrak GP endpoint.
func NewFetcher(urlFormat string) *Fetcher {
	if urlFormat == "" {
		urlFormat = celestrakURLFormat
	}
	return &Fetcher{
		urlFormat: urlFormat,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch performs an HTTP GET for the given catalog number and returns the
// raw TLE text.
func (f *Fetcher) Fetch(ctx context.Context, catalogNumber int) ([]byte, error) {
	url := fmt.Sprintf(f.urlFormat, catalogNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching TLE data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}
