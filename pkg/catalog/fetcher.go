package catalog

import (
	"context"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/glorpus-work/tenget/pkg/errors"
)

// HTTPFetcher fetches catalog pages with a dedicated HTTP client.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a page fetcher with the given timeout and user
// agent.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = "tenget/1.0"
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch retrieves the page at url. Non-2xx responses are not an error at
// this layer; the status code is reported as is and the loader decides what
// to do with it.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(err, "failed to fetch catalog page")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, pkgerrors.Wrap(err, "failed to read catalog page")
	}
	return resp.StatusCode, body, nil
}
