package cli

// Default values for CLI flags and formatted output.
const (
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// MaxNotesLength is the maximum length of release notes to display.
	MaxNotesLength = 60
)
