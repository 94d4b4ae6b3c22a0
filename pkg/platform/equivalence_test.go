package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchitecturesEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		archA    string
		archB    string
		expected bool
	}{
		{
			name:     "x86_64 matches amd64 alias",
			archA:    "x86_64",
			archB:    "amd64",
			expected: true,
		},
		{
			name:     "x86_64 matches x86-64 alias",
			archA:    "x86_64",
			archB:    "x86-64",
			expected: true,
		},
		{
			name:     "aarch64 matches arm64 alias",
			archA:    "aarch64",
			archB:    "arm64",
			expected: true,
		},
		{
			name:     "armv7l matches arm alias",
			archA:    "armv7l",
			archB:    "arm",
			expected: true,
		},
		{
			name:     "x86_64 does not match arm64",
			archA:    "x86_64",
			archB:    "arm64",
			expected: false,
		},
		{
			name:     "exact match is case-insensitive",
			archA:    "X86_64",
			archB:    "x86_64",
			expected: true,
		},
		{
			name:     "unknown architectures match exactly",
			archA:    "riscv64",
			archB:    "riscv64",
			expected: true,
		},
		{
			name:     "unknown architectures never cross-match",
			archA:    "riscv64",
			archB:    "amd64",
			expected: false,
		},
		{
			name:     "aliases of the same canonical arch do not match each other",
			archA:    "amd64",
			archB:    "x86-64",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ArchitecturesEquivalent(tt.archA, tt.archB))
		})
	}
}

func TestArchitecturesEquivalent_Symmetric(t *testing.T) {
	for canonical, aliases := range archAliases {
		for _, alias := range aliases {
			assert.Equal(t,
				ArchitecturesEquivalent(canonical, alias),
				ArchitecturesEquivalent(alias, canonical),
				"equivalence of %s and %s must be symmetric", canonical, alias)
		}
	}
}

func TestDistrosEquivalent(t *testing.T) {
	tests := []struct {
		name         string
		distro       string
		majorVersion string
		candidate    string
		expected     bool
	}{
		{
			name:         "centos 8 matches el8",
			distro:       "CentOS",
			majorVersion: "8",
			candidate:    "el8",
			expected:     true,
		},
		{
			name:         "centos 7 rejects el8",
			distro:       "CentOS",
			majorVersion: "7",
			candidate:    "el8",
			expected:     false,
		},
		{
			name:         "almalinux 9 matches el9",
			distro:       "AlmaLinux",
			majorVersion: "9",
			candidate:    "el9",
			expected:     true,
		},
		{
			name:         "rhel matches its own el token",
			distro:       "RHEL",
			majorVersion: "8",
			candidate:    "el8",
			expected:     true,
		},
		{
			name:         "ubuntu ignores version substring matching",
			distro:       "Ubuntu",
			majorVersion: "20",
			candidate:    "ubuntu2004",
			expected:     true,
		},
		{
			name:         "ubuntu major version not in token still matches",
			distro:       "Ubuntu",
			majorVersion: "22",
			candidate:    "ubuntu1404",
			expected:     true,
		},
		{
			name:         "linux mint maps to the ubuntu token",
			distro:       "Linux Mint",
			majorVersion: "21",
			candidate:    "ubuntu2004",
			expected:     true,
		},
		{
			name:         "amazon maps to amzn token",
			distro:       "Amazon",
			majorVersion: "2",
			candidate:    "amzn2",
			expected:     true,
		},
		{
			name:         "debian matches debian token",
			distro:       "Debian",
			majorVersion: "12",
			candidate:    "debian10",
			expected:     true,
		},
		{
			name:         "suse matches suse token",
			distro:       "SLES",
			majorVersion: "15",
			candidate:    "suse15",
			expected:     true,
		},
		{
			name:         "candidate from a different family rejects",
			distro:       "Ubuntu",
			majorVersion: "20",
			candidate:    "el8",
			expected:     false,
		},
		{
			name:         "unknown distro never matches",
			distro:       "TempleOS",
			majorVersion: "5",
			candidate:    "el5",
			expected:     false,
		},
		{
			name:         "no implicit fallback to exact equality",
			distro:       "ubuntu1404",
			majorVersion: "14",
			candidate:    "ubuntu1404",
			expected:     false,
		},
		{
			name:         "matching is case-insensitive",
			distro:       "UBUNTU",
			majorVersion: "20",
			candidate:    "Ubuntu2004",
			expected:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DistrosEquivalent(tt.distro, tt.majorVersion, tt.candidate))
		})
	}
}
