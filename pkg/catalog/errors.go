package catalog

import (
	"fmt"

	"github.com/glorpus-work/tenget/pkg/platform"
)

// NoMatchingArtifactError is returned when no artifact in a product entry
// matches the reported platform. Options carries every (os, arch) pair that
// was actually available, so callers can produce a useful diagnostic instead
// of a bare "not found".
type NoMatchingArtifactError struct {
	Product string
	Facts   platform.Facts
	Options []PlatformOption
}

func (e *NoMatchingArtifactError) Error() string {
	return fmt.Sprintf("no artifact in %q matches os %q/%s with arch %q or os type %q; options are %v",
		e.Product, e.Facts.OS, e.Facts.MajorVersion, e.Facts.Arch, e.Facts.OSType, e.Options)
}
