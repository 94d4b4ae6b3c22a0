package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/glorpus-work/tenget/internal/logger"
	pkgerrors "github.com/glorpus-work/tenget/pkg/errors"
	"github.com/glorpus-work/tenget/pkg/model"
	"github.com/glorpus-work/tenget/pkg/platform"
)

// DefaultBaseURL is the root of the vendor's downloads site.
const DefaultBaseURL = "https://www.tenable.com/downloads"

// Known product families on the downloads site.
const (
	FamilyNessusAgents   = "nessus-agents"
	FamilySecurityCenter = "security-center"
)

// KnownFamilies returns the product families the loader knows how to fetch.
func KnownFamilies() []string {
	return []string{FamilyNessusAgents, FamilySecurityCenter}
}

// Loader fetches product-family catalogs and answers selection queries
// against them. A load builds the whole family catalog first and then
// publishes it in one swap, so concurrent readers never observe a partially
// populated family.
type Loader struct {
	fetcher Fetcher
	baseURL string

	mu       sync.RWMutex
	catalogs map[string]map[string]*ProductEntry
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBaseURL overrides the downloads site root, mainly for tests.
func WithBaseURL(baseURL string) LoaderOption {
	return func(l *Loader) {
		l.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewLoader creates a catalog loader on top of the given page fetcher.
func NewLoader(fetcher Fetcher, opts ...LoaderOption) *Loader {
	loader := &Loader{
		fetcher:  fetcher,
		baseURL:  DefaultBaseURL,
		catalogs: make(map[string]map[string]*ProductEntry, len(KnownFamilies())),
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load fetches and decodes the catalog page for one product family,
// replacing whatever was previously loaded for it. A page whose embedded
// data cannot be decoded produces an empty catalog, not an error: selection
// against it fails with the usual no-match diagnostics.
func (l *Loader) Load(ctx context.Context, family string) error {
	if !knownFamily(family) {
		return pkgerrors.Wrapf(pkgerrors.ErrUnknownProduct, "%s", family)
	}

	pageURL := fmt.Sprintf("%s/%s?loginAttempted=true", l.baseURL, family)
	status, body, err := l.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return pkgerrors.Wrapf(err, "fetching catalog for %s", family)
	}
	if status != http.StatusOK {
		return pkgerrors.Wrapf(pkgerrors.ErrCatalogUnavailable, "%s: HTTP %d response", family, status)
	}

	raw := decodeProducts(bytes.NewReader(body))
	if raw == nil {
		logger.Warnf("catalog page for %s carried no decodable product data", family)
	}

	entries := make(map[string]*ProductEntry, len(raw))
	for name, product := range raw {
		entries[name] = newProductEntry(product)
	}

	l.mu.Lock()
	l.catalogs[family] = entries
	l.mu.Unlock()
	return nil
}

// LoadAll loads every known product family. Families that fail to load are
// logged and skipped so one unreachable catalog does not hide the others;
// the first failure is still reported to the caller.
func (l *Loader) LoadAll(ctx context.Context) error {
	var firstErr error
	for _, family := range KnownFamilies() {
		if err := l.Load(ctx, family); err != nil {
			logger.Errorf("unable to load product catalog for %s: %v", family, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Products returns the loaded product lines of a family. The second return
// is false when the family has not been loaded.
func (l *Loader) Products(family string) (map[string]*ProductEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries, ok := l.catalogs[family]
	if !ok {
		return nil, false
	}
	out := make(map[string]*ProductEntry, len(entries))
	for name, entry := range entries {
		out[name] = entry
	}
	return out, true
}

// InstallerEntry returns the installer product line of a family: the first
// line (in name order, for determinism) whose name starts with the family
// name. The family is loaded on first use.
func (l *Loader) InstallerEntry(ctx context.Context, family string) (*ProductEntry, error) {
	entries, ok := l.Products(family)
	if !ok {
		if err := l.Load(ctx, family); err != nil {
			return nil, err
		}
		entries, _ = l.Products(family)
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.HasPrefix(name, family) {
			return entries[name], nil
		}
	}
	return nil, pkgerrors.Wrapf(pkgerrors.ErrProductLineMissing, "no %s installer line", family)
}

// DownloadInfoFor resolves the installer artifact of a product family for
// the given platform facts.
func (l *Loader) DownloadInfoFor(ctx context.Context, family string, facts platform.Facts) (*model.Artifact, error) {
	entry, err := l.InstallerEntry(ctx, family)
	if err != nil {
		return nil, err
	}
	return entry.SelectArtifact(facts)
}

func knownFamily(family string) bool {
	for _, known := range KnownFamilies() {
		if family == known {
			return true
		}
	}
	return false
}
