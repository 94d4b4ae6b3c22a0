//go:generate mockgen -destination=./mocks/catalog.go . Fetcher

package catalog

import "context"

// Fetcher retrieves catalog pages over some transport. Implementations own
// all transport policy (timeouts, retries, sessions); the loader only looks
// at the status code and body.
type Fetcher interface {
	// Fetch retrieves the document at url and returns the response status
	// code together with the raw body.
	Fetch(ctx context.Context, url string) (status int, body []byte, err error)
}
