// Package testutil provides helpers for tests that need a fake downloads
// site: catalog page rendering, an HTTP server, and config files wired to it.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/tenget/pkg/model"
)

// Product is one product line to embed in a rendered catalog page.
type Product struct {
	ProductName string           `json:"product_name"`
	SortOrder   string           `json:"sort_order"`
	Version     string           `json:"version"`
	Downloads   []model.Artifact `json:"downloads"`
}

// RenderCatalogPage renders a downloads-site catalog page carrying the given
// product lines in its bootstrap document, keyed by line name.
func RenderCatalogPage(t *testing.T, products map[string]Product) string {
	t.Helper()

	document := map[string]any{
		"props": map[string]any{
			"pageProps": map[string]any{
				"products": products,
			},
		},
	}
	data, err := json.Marshal(document)
	if err != nil {
		t.Fatalf("Failed to render catalog page: %v", err)
	}

	return fmt.Sprintf(
		`<html><head><title>Downloads</title></head><body><div id="app"></div><script id="__NEXT_DATA__" type="application/json">%s</script></body></html>`,
		data)
}

// CatalogServer is a fake downloads site serving catalog pages per family.
type CatalogServer struct {
	Server *httptest.Server

	pages map[string]string
}

// NewCatalogServer starts a fake downloads site. Page content is registered
// per family with AddFamily; unknown paths return 404. The server is shut
// down when the test ends.
func NewCatalogServer(t *testing.T) *CatalogServer {
	t.Helper()

	cs := &CatalogServer{pages: make(map[string]string)}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := cs.pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(cs.Server.Close)

	return cs
}

// AddFamily registers the catalog page served for one product family.
func (cs *CatalogServer) AddFamily(t *testing.T, family string, products map[string]Product) {
	t.Helper()
	cs.pages["/"+family] = RenderCatalogPage(t, products)
}

// URL returns the base URL of the fake downloads site.
func (cs *CatalogServer) URL() string {
	return cs.Server.URL
}

// WriteTestConfig writes a config file in a temp directory pointing at the
// given downloads-site base URL and returns its path.
func WriteTestConfig(t *testing.T, baseURL string, extra string) string {
	t.Helper()

	configStr := fmt.Sprintf("settings:\n  base_url: %s\n%s", baseURL, extra)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configStr), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	return configPath
}
