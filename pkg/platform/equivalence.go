package platform

import (
	"slices"
	"strings"
)

// archAliases maps a canonical architecture name to the aliases that denote
// the same hardware.
var archAliases = map[string][]string{
	ArchX8664:   {"amd64", "x86-64"},
	ArchARMv7:   {"arm"},
	ArchAArch64: {"arm64"},
}

// enterpriseLinuxGroup is the platform-token prefix shared by all enterprise
// Linux derivatives. Artifacts in this group embed their compatible major
// version in the token ("el8", "el9"), so version must be checked too.
const enterpriseLinuxGroup = "el"

// distroGroups maps a platform-token prefix to the distribution names that
// report themselves under it. The candidate tokens come from catalog
// filenames ("ubuntu1404", "el8", "amzn2"); the names come from OS release
// identification on the target machine.
var distroGroups = map[string][]string{
	enterpriseLinuxGroup: {
		"redhat", "rhel", "fedora", "centos", "scientific", "slc",
		"ascendos", "cloudlinux", "psbm", "oraclelinux", "ovs",
		"oel", "virtuozzo", "xenserver", "alibaba",
		"euleros", "openeuler", "almalinux", "rocky", "tencentos",
		"eurolinux", "kylin linux advanced server", "miracle", "el",
	},
	"amzn": {"amazon", "amzn"},
	"ubuntu": {
		"ubuntu", "raspbian", "neon", "kde neon",
		"linux mint", "steamos", "cumulus linux",
		"pop!_os", "parrot", "pardus gnu/linux", "uos", "deepin", "osmc",
	},
	"debian": {"debian", "devuan", "kali"},
	"suse": {
		"suse", "sles", "sled", "opensuse", "opensuse tumbleweed",
		"sles_sap", "suse_linux", "opensuse leap", "alp-dolomite",
	},
}

// ArchitecturesEquivalent reports whether two architecture strings denote the
// same hardware, accepting the known aliases in either direction. Unknown
// architectures only ever match exactly (case-insensitive).
func ArchitecturesEquivalent(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	for canonical, aliases := range archAliases {
		if a == canonical && slices.Contains(aliases, b) {
			return true
		}
		if b == canonical && slices.Contains(aliases, a) {
			return true
		}
	}

	return a == b
}

// DistrosEquivalent reports whether a distribution name reported by the
// target machine and a catalog-derived platform token belong to the same
// family. The arguments are not interchangeable: distro is the reported
// identity ("CentOS"), candidate is the catalog token ("el8").
//
// For the enterprise Linux umbrella the supplied major version must also
// appear in the candidate token, since those artifacts are built per major
// release and a cross-version match would install incompatible software.
// Unmatched combinations return false; there is no fallback to string
// equality.
func DistrosEquivalent(distro, majorVersion, candidate string) bool {
	distro = strings.ToLower(distro)
	candidate = strings.ToLower(candidate)

	for group, names := range distroGroups {
		if !slices.Contains(names, distro) {
			continue
		}
		if !strings.HasPrefix(candidate, group) {
			continue
		}
		if group == enterpriseLinuxGroup {
			return strings.Contains(candidate, majorVersion)
		}
		return true
	}

	return false
}
