package download

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	pkgerrors "github.com/glorpus-work/tenget/pkg/errors"
	"github.com/glorpus-work/tenget/pkg/fsutil"
)

const tarballSuffix = ".tar.gz"

// maybeExtract unpacks a downloaded tarball artifact next to the archive
// when extraction was requested. Non-tarball artifacts (native packages,
// disk images) are left alone.
func (m *ManagerImpl) maybeExtract(ctx context.Context, archivePath string, opts Options) error {
	if !opts.Extract || !strings.HasSuffix(archivePath, tarballSuffix) {
		return nil
	}

	destDir := strings.TrimSuffix(archivePath, tarballSuffix)
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to open archive")
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return pkgerrors.Wrap(err, "failed to create extraction directory")
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return extractEntry(fsys, path, destDir, d)
	})
}

// extractEntry writes a single archive entry below destDir.
func extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}

	targetPath := filepath.Join(destDir, path)
	if d.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}

	srcFile, err := fsys.Open(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open archive entry %s", path)
	}
	defer func() { _ = srcFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return pkgerrors.Wrapf(err, "failed to create parent directory for %s", path)
	}

	dstFile, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create %s", targetPath)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return pkgerrors.Wrapf(err, "failed to extract %s", path)
	}
	return nil
}
