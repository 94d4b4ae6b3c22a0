package download

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/tenget/pkg/errors"
	"github.com/glorpus-work/tenget/pkg/model"
)

func TestNewManager(t *testing.T) {
	tests := []struct {
		name       string
		timeout    time.Duration
		userAgent  string
		expectedUA string
	}{
		{
			name:       "default user agent",
			timeout:    time.Second,
			expectedUA: "tenget/1.0",
		},
		{
			name:       "custom user agent",
			timeout:    2 * time.Second,
			userAgent:  "test-agent/1.0",
			expectedUA: "test-agent/1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.timeout, tt.userAgent)
			require.NotNil(t, m)
			assert.Equal(t, tt.timeout, m.client.Timeout)
			assert.Equal(t, tt.expectedUA, m.userAgent)
		})
	}
}

func TestFetch(t *testing.T) {
	payload := []byte("installer bytes")
	sum256 := sha256.Sum256(payload)
	sumMD5 := md5.Sum(payload)

	tests := []struct {
		name           string
		handler        http.HandlerFunc
		item           Item
		expectError    bool
		expectErrorIs  error
		expectContents string
	}{
		{
			name: "successful download",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(payload)
			},
			item:           Item{Filename: "NessusAgent-10.6.1-ubuntu1404_amd64.deb"},
			expectContents: "installer bytes",
		},
		{
			name: "checksums verified when present",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(payload)
			},
			item: Item{
				Filename: "NessusAgent-10.6.1-el8.x86_64.rpm",
				SHA256:   hex.EncodeToString(sum256[:]),
				MD5:      hex.EncodeToString(sumMD5[:]),
			},
			expectContents: "installer bytes",
		},
		{
			name: "sha256 mismatch fails",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(payload)
			},
			item: Item{
				Filename: "NessusAgent-10.6.1-el8.x86_64.rpm",
				SHA256:   "deadbeef",
			},
			expectError:   true,
			expectErrorIs: pkgerrors.ErrChecksumMismatch,
		},
		{
			name: "server error carries status and body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("license not accepted"))
			},
			item:          Item{Filename: "NessusAgent-10.6.1-ubuntu1404_amd64.deb"},
			expectError:   true,
			expectErrorIs: pkgerrors.ErrDownloadFailed,
		},
		{
			name:        "missing filename is rejected",
			handler:     func(http.ResponseWriter, *http.Request) {},
			item:        Item{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			if tt.item.URL == "" {
				tt.item.URL = server.URL + "/download"
			}

			m := NewManager(5*time.Second, "")
			path, err := m.Fetch(context.Background(), tt.item, Options{Dir: t.TempDir()})

			if tt.expectError {
				require.Error(t, err)
				if tt.expectErrorIs != nil {
					assert.ErrorIs(t, err, tt.expectErrorIs)
				}
				return
			}
			require.NoError(t, err)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expectContents, string(data))
		})
	}
}

func TestFetch_ErrorMessageIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("license not accepted"))
	}))
	defer server.Close()

	m := NewManager(5*time.Second, "")
	_, err := m.Fetch(context.Background(), Item{URL: server.URL, Filename: "x.deb"}, Options{Dir: t.TempDir()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "license not accepted")
}

func TestFetch_ReusesVerifiedExistingFile(t *testing.T) {
	payload := []byte("installer bytes")
	sum := sha256.Sum256(payload)

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	item := Item{
		URL:      server.URL,
		Filename: "NessusAgent-10.6.1-ubuntu1404_amd64.deb",
		SHA256:   hex.EncodeToString(sum[:]),
	}

	m := NewManager(5*time.Second, "")
	first, err := m.Fetch(context.Background(), item, Options{Dir: dir})
	require.NoError(t, err)
	second, err := m.Fetch(context.Background(), item, Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, requests)
}

func TestFetch_RelativeDirRejected(t *testing.T) {
	m := NewManager(time.Second, "")
	_, err := m.Fetch(context.Background(), Item{URL: "http://example.com", Filename: "x"}, Options{Dir: "relative/dir"})

	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidPath)
}

func TestItemForArtifact(t *testing.T) {
	artifact := &model.Artifact{
		ID:   22712,
		File: "NessusAgent-10.6.1-ubuntu1404_amd64.deb",
		Name: "NessusAgent-10.6.1-ubuntu1404_amd64.deb",
		Metadata: model.Metadata{
			MD5:    "fe9b44c351bc026609158cca3e44f11c",
			SHA256: "0ea2f72a7d3a9e7dfcd59712388136fd15f61c310effb22d5b8d8de44314b141",
		},
	}

	item := ItemForArtifact(artifact)
	assert.Equal(t, artifact.DownloadURL(), item.URL)
	assert.Equal(t, "NessusAgent-10.6.1-ubuntu1404_amd64.deb", item.Filename)
	assert.Equal(t, artifact.Metadata.MD5, item.MD5)
	assert.Equal(t, artifact.Metadata.SHA256, item.SHA256)
}
