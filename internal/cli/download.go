package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/tenget/internal/logger"
	"github.com/glorpus-work/tenget/pkg/download"
	"github.com/glorpus-work/tenget/pkg/hooks"
)

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var (
		product string
		dir     string
		extract bool
		flags   factsFlags
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the installer for a platform",
		Long: `Resolve the installer artifact of a product family for the target
platform and download it, verifying catalog checksums. Tarball artifacts
can optionally be unpacked next to the downloaded file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDownload(cmd, product, dir, extract, flags)
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "Product family to download (defaults to config)")
	cmd.Flags().StringVar(&dir, "dir", "", "Destination directory (defaults to config)")
	cmd.Flags().BoolVar(&extract, "extract", false, "Unpack tarball artifacts after download")
	flags.register(cmd)

	return cmd
}

func runDownload(cmd *cobra.Command, product, dir string, extract bool, flags factsFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if product == "" {
		product = cfg.Settings.DefaultProduct
	}
	if dir == "" {
		dir = cfg.Settings.DownloadDir
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid destination directory: %w", err)
	}

	facts := flags.resolve(cfg)

	loader := newCatalogLoader(cfg)
	artifact, err := loader.DownloadInfoFor(cmd.Context(), product, facts)
	if err != nil {
		return fmt.Errorf("failed to resolve artifact: %w", err)
	}

	hookManager, err := newHookManager(cfg)
	if err != nil {
		return err
	}

	hookCtx := hooks.HookContext{
		ProductName:    product,
		ProductVersion: artifact.Metadata.Version,
		ArtifactName:   artifact.Name,
		DownloadURL:    artifact.DownloadURL(),
	}
	if err := hookManager.Execute(hooks.PreDownload, hookCtx); err != nil {
		return fmt.Errorf("pre-download hook failed: %w", err)
	}

	logger.Infof("downloading %s to %s", artifact.Name, absDir)

	manager := newDownloadManager(cfg)
	path, err := manager.Fetch(cmd.Context(), download.ItemForArtifact(artifact), download.Options{
		Dir:     absDir,
		Extract: extract,
	})
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", artifact.Name, err)
	}

	hookCtx.ArtifactPath = path
	if err := hookManager.Execute(hooks.PostDownload, hookCtx); err != nil {
		return fmt.Errorf("post-download hook failed: %w", err)
	}

	logger.Successf("downloaded %s", path)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

	return nil
}
