package cli

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/tenget/pkg/config"
	"github.com/glorpus-work/tenget/pkg/platform"
)

// osReleasePath is where Linux distributions describe themselves.
const osReleasePath = "/etc/os-release"

// factsFlags are the per-command platform override flags. Any flag left
// empty keeps the detected (or configured) value.
type factsFlags struct {
	os           string
	majorVersion string
	arch         string
	osType       string
}

func (f *factsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.os, "os", "", "Target distribution name (default: detected)")
	cmd.Flags().StringVar(&f.majorVersion, "os-version", "", "Target OS major version (default: detected)")
	cmd.Flags().StringVar(&f.arch, "arch", "", "Target CPU architecture (default: detected)")
	cmd.Flags().StringVar(&f.osType, "os-type", "", "Target OS family (default: detected)")
}

// resolve layers the detected host facts, the configured overrides and the
// CLI flags, in increasing precedence.
func (f *factsFlags) resolve(cfg *config.Config) platform.Facts {
	facts := detectFacts()

	applyOverride(&facts.OS, cfg.Settings.Platform.OS, f.os)
	applyOverride(&facts.MajorVersion, cfg.Settings.Platform.MajorVersion, f.majorVersion)
	applyOverride(&facts.Arch, cfg.Settings.Platform.Arch, f.arch)
	applyOverride(&facts.OSType, cfg.Settings.Platform.OSType, f.osType)

	return facts
}

func applyOverride(target *string, configured, flag string) {
	if configured != "" {
		*target = configured
	}
	if flag != "" {
		*target = flag
	}
}

// detectFacts inspects the host and returns its best-effort platform facts.
func detectFacts() platform.Facts {
	facts := platform.Facts{Arch: canonicalArch(runtime.GOARCH)}

	switch runtime.GOOS {
	case "darwin":
		facts.OS = "macOS"
		facts.OSType = "Darwin"
	case "windows":
		facts.OS = "Windows"
		facts.OSType = "Windows"
	default:
		facts.OS = "Linux"
		facts.OSType = "Linux"
		if file, err := os.Open(osReleasePath); err == nil {
			applyOSRelease(&facts, parseOSRelease(file))
			_ = file.Close()
		}
	}

	return facts
}

// canonicalArch maps a Go architecture name to the vendor's canonical
// architecture vocabulary. Unknown values pass through unchanged.
func canonicalArch(goarch string) string {
	switch goarch {
	case "amd64":
		return platform.ArchX8664
	case "arm64":
		return platform.ArchAArch64
	case "arm":
		return platform.ArchARMv7
	default:
		return goarch
	}
}

// parseOSRelease reads os-release key=value pairs, stripping quoting.
func parseOSRelease(reader io.Reader) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"'`)
		fields[key] = value
	}
	return fields
}

// applyOSRelease fills Linux facts from parsed os-release fields. The
// distribution identifier keeps the vendor's spelling with separators
// normalized, so "opensuse-leap" matches the catalog's "opensuse leap".
func applyOSRelease(facts *platform.Facts, fields map[string]string) {
	if id := fields["ID"]; id != "" {
		facts.OS = strings.ReplaceAll(id, "-", " ")
	}
	if versionID := fields["VERSION_ID"]; versionID != "" {
		major, _, _ := strings.Cut(versionID, ".")
		facts.MajorVersion = major
	}
	if family := osFamily(fields["ID"], fields["ID_LIKE"]); family != "" {
		facts.OSType = family
	}
}

// osFamily classifies a Linux distribution into the broad OS family names
// used by configuration management inventories.
func osFamily(id, idLike string) string {
	memberships := strings.ToLower(id + " " + idLike)
	switch {
	case containsAny(memberships, "debian", "ubuntu"):
		return "Debian"
	case containsAny(memberships, "rhel", "fedora", "centos"):
		return "RedHat"
	case containsAny(memberships, "suse"):
		return "Suse"
	default:
		return ""
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// NewPlatformCmd creates the platform command, which reports the facts the
// other commands would select artifacts for.
func NewPlatformCmd() *cobra.Command {
	var flags factsFlags

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Show the resolved target platform",
		Long: `Show the platform facts artifact selection will use: the detected
host values layered with config and flag overrides.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			facts := flags.resolve(cfg)
			_, _ = cmd.OutOrStdout().Write([]byte(
				"OS:            " + facts.OS + "\n" +
					"Major version: " + facts.MajorVersion + "\n" +
					"Architecture:  " + facts.Arch + "\n" +
					"OS family:     " + facts.OSType + "\n"))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
