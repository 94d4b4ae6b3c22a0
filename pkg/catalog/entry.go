package catalog

import (
	"strings"

	"github.com/glorpus-work/tenget/pkg/model"
	"github.com/glorpus-work/tenget/pkg/platform"
)

// ProductEntry is one product line from a family catalog together with its
// downloadable artifacts. Artifacts keep the order the catalog listed them
// in; that order is the only tie-break rule during selection.
type ProductEntry struct {
	ProductName  string
	SortOrder    string
	ReleaseNotes string
	Version      string
	Artifacts    []model.Artifact
}

// newProductEntry builds an entry from raw catalog data, running metadata
// extraction over every artifact. Explicit metadata from the catalog wins
// over anything inferred from the filename.
func newProductEntry(raw rawProduct) *ProductEntry {
	entry := &ProductEntry{
		ProductName:  raw.ProductName,
		SortOrder:    raw.SortOrder,
		ReleaseNotes: raw.ReleaseNotes,
		Version:      raw.Version,
		Artifacts:    make([]model.Artifact, len(raw.Downloads)),
	}
	for i, artifact := range raw.Downloads {
		extractMetadata(artifact.Name, &artifact.Metadata)
		entry.Artifacts[i] = artifact
	}
	return entry
}

// SelectArtifact returns the first artifact matching the reported platform
// facts. The scan is a plain linear pass in catalog order with no scoring;
// identical queries against an unmodified entry always return the same
// artifact.
func (e *ProductEntry) SelectArtifact(facts platform.Facts) (*model.Artifact, error) {
	for i := range e.Artifacts {
		if artifactMatches(&e.Artifacts[i], facts) {
			return &e.Artifacts[i], nil
		}
	}
	return nil, &NoMatchingArtifactError{
		Product: e.ProductName,
		Facts:   facts,
		Options: e.PlatformOptions(),
	}
}

// artifactMatches is the selection predicate. Darwin targets match any macOS
// disk image outright, since those artifacts are universal. Artifacts whose
// OS or architecture could not be classified never match.
func artifactMatches(artifact *model.Artifact, facts platform.Facts) bool {
	if strings.EqualFold(facts.OSType, platform.OSTypeDarwin) && isMacDiskImage(artifact.Name) {
		return true
	}
	if artifact.Metadata.OS == "" || artifact.Metadata.Arch == "" {
		return false
	}
	return platform.DistrosEquivalent(facts.OS, facts.MajorVersion, artifact.Metadata.OS) &&
		platform.ArchitecturesEquivalent(facts.Arch, artifact.Metadata.Arch)
}

// PlatformOption is one (os, arch) pair present in a product entry.
type PlatformOption struct {
	OS   string
	Arch string
}

// PlatformOptions lists the (os, arch) pair of every artifact in the entry,
// in catalog order, including unclassified artifacts.
func (e *ProductEntry) PlatformOptions() []PlatformOption {
	options := make([]PlatformOption, len(e.Artifacts))
	for i := range e.Artifacts {
		options[i] = PlatformOption{
			OS:   e.Artifacts[i].Metadata.OS,
			Arch: e.Artifacts[i].Metadata.Arch,
		}
	}
	return options
}
