package catalog

import (
	"regexp"
	"strings"

	"github.com/glorpus-work/tenget/pkg/model"
	"github.com/glorpus-work/tenget/pkg/platform"
)

const (
	macDiskImageSuffix = ".dmg"
	tarballSuffix      = ".tar.gz"
)

// platformTokenPattern matches the trailing "<version>-<platformToken>.<ext>"
// portion of an installer filename, e.g. "10.6.1-ubuntu1404_amd64.deb". The
// platform token is any run of non-hyphen characters, so it may span dots
// ("el8.x86_64").
var platformTokenPattern = regexp.MustCompile(`\d+\.\d+\.\d+-([^-]+)\.[^.]+$`)

// extractMetadata fills the OS, OSType and Arch fields of meta by inspecting
// the artifact filename. Fields already supplied by the catalog are kept as
// is. The function never fails: a filename that fits no known convention
// simply leaves the fields unset, which keeps the artifact visible in the
// catalog but unmatchable.
func extractMetadata(name string, meta *model.Metadata) {
	switch {
	case isMacDiskImage(name):
		meta.OSType = platform.OSTypeDarwin
		return
	case strings.HasSuffix(name, tarballSuffix):
		meta.OSType = platform.OSTypeLinux
		return
	}

	matches := platformTokenPattern.FindStringSubmatch(name)
	if matches == nil {
		return
	}

	osToken, archToken := splitPlatformToken(matches[1])
	if meta.OS == "" {
		meta.OS = osToken
	}
	if meta.OSType == "" {
		if strings.HasPrefix(strings.ToLower(meta.OS), "win") {
			meta.OSType = platform.OSTypeWindows
		} else {
			meta.OSType = platform.OSTypeLinux
		}
	}
	if meta.Arch == "" && archToken != "" {
		meta.Arch = archToken
	}
}

// splitPlatformToken splits a platform token into its OS and architecture
// parts at the first single '.' or '_'. Doubled separators are literal and
// never split ("x86__64" stays whole). The architecture part keeps any
// further separators, so "el8.x86_64" yields ("el8", "x86_64").
func splitPlatformToken(token string) (osToken, archToken string) {
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c != '.' && c != '_' {
			continue
		}
		if i > 0 && token[i-1] == c {
			continue
		}
		if i+1 < len(token) && token[i+1] == c {
			continue
		}
		return token[:i], token[i+1:]
	}
	return token, ""
}

func isMacDiskImage(name string) bool {
	return strings.HasSuffix(name, macDiskImageSuffix)
}
