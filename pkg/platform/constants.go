package platform

// Package platform provides the platform-identity vocabulary used when
// matching catalog artifacts against a target machine: OS type constants,
// canonical architecture names, and the equivalence tables for both.

const (
	// OSTypeLinux represents Linux-family operating systems.
	OSTypeLinux = "linux"
	// OSTypeWindows represents the Windows operating system.
	OSTypeWindows = "windows"
	// OSTypeDarwin represents macOS.
	OSTypeDarwin = "darwin"

	// ArchX8664 represents the 64-bit x86 architecture.
	ArchX8664 = "x86_64"
	// ArchARMv7 represents the 32-bit ARMv7 architecture.
	ArchARMv7 = "armv7l"
	// ArchAArch64 represents the 64-bit ARM architecture.
	ArchAArch64 = "aarch64"
)

// ValidOSTypes returns the OS types an artifact can be classified as.
func ValidOSTypes() []string {
	return []string{
		OSTypeLinux,
		OSTypeWindows,
		OSTypeDarwin,
	}
}
