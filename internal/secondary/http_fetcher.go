package secondary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"idpportal/internal/result"
)

const maxBodyBytes = 32 << 20

// HTTPFetcher retrieves the result document with a plain GET.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests are bounded by timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch GETs link and parses the JSON body.
func (f *HTTPFetcher) Fetch(ctx context.Context, link string) (*result.Node, error) {
	u, err := parseLink(link)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching presigned link: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("presigned link returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading presigned link body: %w", err)
	}
	doc, err := result.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing presigned link body: %w", err)
	}
	return doc, nil
}
