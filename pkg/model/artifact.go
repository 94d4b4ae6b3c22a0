// Package model provides the data structures describing downloadable product
// artifacts and their platform metadata.
package model

import (
	"fmt"
	"net/url"

	"github.com/hashicorp/go-version"
)

// downloadURLTemplate is the fixed template every artifact download locator
// is derived from. Only the artifact identifier varies; no extra round-trip
// is needed to know where an artifact can be fetched.
const downloadURLTemplate = "https://www.tenable.com/downloads/api/v1/public/pages/nessus-agents/downloads/%d/download?i_agree_to_tenable_license_agreement=true"

// Metadata holds the normalized platform facts for one artifact, plus the
// opaque fields carried verbatim from the catalog. It is populated once at
// catalog-load time and never mutated afterwards.
type Metadata struct {
	// OS is the raw platform token, e.g. "ubuntu1404" or "el8".
	OS string `json:"os"`
	// OSType is one of the platform.ValidOSTypes values, or empty when the
	// artifact could not be classified.
	OSType string `json:"os_type"`
	// Arch is the raw architecture token, e.g. "amd64".
	Arch string `json:"arch"`

	// Passthrough fields from the catalog.
	MD5                string `json:"md5"`
	SHA256             string `json:"sha256"`
	Product            string `json:"product"`
	Version            string `json:"version"`
	ProductType        string `json:"product_type"`
	ReleaseDate        string `json:"release_date"`
	ProductNotes       string `json:"product_notes"`
	ProductReleaseDate string `json:"product_release_date"`
}

// Artifact is one downloadable installer file from a product catalog.
type Artifact struct {
	ID           int64    `json:"id"`
	File         string   `json:"file"`
	Name         string   `json:"name"`
	Size         int64    `json:"size"`
	Description  string   `json:"description"`
	SortOrder    string   `json:"sort_order"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
	PageID       int64    `json:"page_id"`
	Publish      bool     `json:"publish"`
	RequiredAuth bool     `json:"required_auth"`
	Disabled     bool     `json:"disabled"`
	Type         string   `json:"type"`
	Metadata     Metadata `json:"meta_data"`
}

// DownloadURL returns the download locator for this artifact, derived from
// its identifier.
func (a *Artifact) DownloadURL() string {
	return fmt.Sprintf(downloadURLTemplate, a.ID)
}

// GetURL returns the parsed download locator, or nil if it does not parse.
func (a *Artifact) GetURL() *url.URL {
	parsed, err := url.Parse(a.DownloadURL())
	if err != nil {
		return nil
	}
	return parsed
}

// GetVersion returns the parsed artifact version, or nil when the catalog
// metadata carries no parseable version.
func (a *Artifact) GetVersion() *version.Version {
	v, err := version.NewVersion(a.Metadata.Version)
	if err != nil {
		return nil
	}
	return v
}
