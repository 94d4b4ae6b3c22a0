package hooks

import (
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/glorpus-work/tenget/pkg/errors"
)

// hookFileExtension is the supported hook script extension.
const hookFileExtension = ".tengo"

// LoadHooksFromDir loads every recognized hook script from a directory.
// Files are named after their hook type ("pre-download.tengo"); anything
// else in the directory is skipped. A missing directory is not an error.
func LoadHooksFromDir(manager HookManager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to read hooks directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != hookFileExtension {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), hookFileExtension))
		switch hookType {
		case PreDownload, PostDownload:
		default:
			continue // unknown hook types are skipped
		}

		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return pkgerrors.Wrapf(err, "error reading hook file %s", hookPath)
		}

		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return pkgerrors.Wrapf(err, "error adding hook %s", hookType)
		}
	}
	return nil
}
