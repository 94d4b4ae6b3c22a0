package platform

import "fmt"

// Facts describes the target machine an artifact is being selected for. All
// four values are supplied by the caller; the matching engine never inspects
// the host itself.
type Facts struct {
	// OS is the reported distribution or OS family name, e.g. "Ubuntu" or
	// "CentOS".
	OS string
	// MajorVersion is the OS major version, e.g. "20" or "8".
	MajorVersion string
	// Arch is the reported CPU architecture, e.g. "x86_64" or "arm64".
	Arch string
	// OSType is the broad OS classification, e.g. "Debian", "RedHat" or
	// "Darwin".
	OSType string
}

// String returns a compact representation for diagnostics.
func (f Facts) String() string {
	return fmt.Sprintf("%s/%s (%s, %s)", f.OS, f.MajorVersion, f.Arch, f.OSType)
}
