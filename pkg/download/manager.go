package download

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgerrors "github.com/glorpus-work/tenget/pkg/errors"
	"github.com/glorpus-work/tenget/pkg/fsutil"
)

// maxErrorBodyBytes caps how much of an error response body is carried into
// the returned error.
const maxErrorBodyBytes = 512

// ManagerImpl is an HTTP-based download manager verifying catalog checksums.
// It downloads to a temp file and moves it into place only after the
// checksums check out, so a torn download never lands under the artifact
// filename.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a new download manager with the given timeout and user agent.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = "tenget/1.0"
	}
	return &ManagerImpl{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads an item and returns the path to the downloaded file.
func (m *ManagerImpl) Fetch(ctx context.Context, item Item, opts Options) (string, error) {
	if opts.Dir == "" || !filepath.IsAbs(opts.Dir) {
		return "", fmt.Errorf("download dir must be absolute: %s: %w", opts.Dir, pkgerrors.ErrInvalidPath)
	}
	if item.Filename == "" {
		return "", fmt.Errorf("item for %s has no filename: %w", item.URL, pkgerrors.ErrDownloadFailed)
	}
	if err := os.MkdirAll(opts.Dir, fsutil.DirModeSecure); err != nil {
		return "", pkgerrors.Wrap(err, "could not create download dir")
	}

	absPath := filepath.Join(opts.Dir, item.Filename)
	if path, ok := tryReuseExisting(absPath, item); ok {
		return path, m.maybeExtract(ctx, path, opts)
	}

	resp, err := m.doRequest(ctx, item.URL)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	tmpPath, err := writeBodyToTemp(resp, absPath)
	if err != nil {
		return "", err
	}
	if err := verifyChecksums(tmpPath, item); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := finalizeFile(tmpPath, absPath); err != nil {
		return "", err
	}
	return absPath, m.maybeExtract(ctx, absPath, opts)
}

// tryReuseExisting returns the already-downloaded file when it passes
// checksum verification, avoiding a refetch.
func tryReuseExisting(absPath string, item Item) (string, bool) {
	st, err := os.Stat(absPath)
	if err != nil || st.Size() == 0 {
		return "", false
	}
	if err := verifyChecksums(absPath, item); err != nil {
		return "", false
	}
	return absPath, true
}

func (m *ManagerImpl) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "download failed")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected server response (HTTP code %d): %s: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), pkgerrors.ErrDownloadFailed)
	}
	return resp, nil
}

func writeBodyToTemp(resp *http.Response, absPath string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(absPath), "dl-*.tmp")
	if err != nil {
		return "", pkgerrors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return "", pkgerrors.Wrap(err, "could not write file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", pkgerrors.Wrap(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		return "", pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, nil
}

func finalizeFile(tmpPath, absPath string) error {
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(absPath, fsutil.FileModeSecure); err != nil {
		return pkgerrors.Wrap(err, "could not set permissions")
	}
	return nil
}

// verifyChecksums checks the file against every digest the catalog supplied
// for the item. Items without digests pass.
func verifyChecksums(path string, item Item) error {
	if item.SHA256 != "" {
		if err := verifyDigest(path, sha256.New(), item.SHA256, "sha256"); err != nil {
			return err
		}
	}
	if item.MD5 != "" {
		if err := verifyDigest(path, md5.New(), item.MD5, "md5"); err != nil {
			return err
		}
	}
	return nil
}

func verifyDigest(path string, h hash.Hash, wantHex, algo string) error {
	f, err := os.Open(path)
	if err != nil {
		return pkgerrors.Wrap(err, "open for checksum")
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(h, f); err != nil {
		return pkgerrors.Wrap(err, "hashing")
	}
	got := hex.EncodeToString(h.Sum(nil))
	if got != normalizeHex(wantHex) {
		return fmt.Errorf("%s digest %s does not match catalog value %s: %w",
			algo, got, wantHex, pkgerrors.ErrChecksumMismatch)
	}
	return nil
}

func normalizeHex(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
