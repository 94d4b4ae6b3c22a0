//go:generate mockgen -destination=./mocks/download.go . Manager

package download

import (
	"context"

	"github.com/glorpus-work/tenget/pkg/model"
)

// Manager downloads resolved artifacts to local storage with integrity
// verification against the catalog checksums.
type Manager interface {
	// Fetch downloads a single item into opts.Dir under its filename and
	// returns the absolute local file path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)
}

// Item represents one remote artifact to download.
type Item struct {
	// URL is the download locator.
	URL string
	// Filename is the name the payload is stored under within opts.Dir.
	Filename string
	// MD5 and SHA256 are optional hex-encoded digests from the catalog;
	// each one present is verified.
	MD5    string
	SHA256 string
}

// ItemForArtifact builds the download item for a catalog artifact.
func ItemForArtifact(artifact *model.Artifact) Item {
	filename := artifact.Name
	if filename == "" {
		filename = artifact.File
	}
	return Item{
		URL:      artifact.DownloadURL(),
		Filename: filename,
		MD5:      artifact.Metadata.MD5,
		SHA256:   artifact.Metadata.SHA256,
	}
}

// Options control the behavior of the download manager.
type Options struct {
	// Dir is the destination directory. Must be absolute.
	Dir string
	// Extract unpacks tarball artifacts next to the downloaded file.
	Extract bool
}
