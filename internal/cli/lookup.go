package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/tenget/internal/logger"
	"github.com/glorpus-work/tenget/pkg/model"
)

// lookupResult is the JSON shape of a resolved artifact.
type lookupResult struct {
	Product     string         `json:"product"`
	DownloadURL string         `json:"download_url"`
	Artifact    model.Artifact `json:"artifact"`
}

// NewLookupCmd creates the lookup command.
func NewLookupCmd() *cobra.Command {
	var (
		product string
		flags   factsFlags
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Resolve the installer artifact for a platform",
		Long: `Resolve which installer artifact of a product family fits the target
platform, and print its download location and catalog metadata without
downloading anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLookup(cmd, product, flags)
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "Product family to resolve (defaults to config)")
	flags.register(cmd)

	return cmd
}

func runLookup(cmd *cobra.Command, product string, flags factsFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if product == "" {
		product = cfg.Settings.DefaultProduct
	}

	facts := flags.resolve(cfg)
	logger.Debugf("resolving %s installer for %s", product, facts)

	loader := newCatalogLoader(cfg)
	artifact, err := loader.DownloadInfoFor(cmd.Context(), product, facts)
	if err != nil {
		return fmt.Errorf("failed to resolve artifact: %w", err)
	}

	out := cmd.OutOrStdout()
	if cfg.Settings.OutputFormat == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(lookupResult{
			Product:     product,
			DownloadURL: artifact.DownloadURL(),
			Artifact:    *artifact,
		})
	}

	_, _ = fmt.Fprintf(out, "Product:  %s\n", product)
	_, _ = fmt.Fprintf(out, "File:     %s\n", artifact.Name)
	_, _ = fmt.Fprintf(out, "Version:  %s\n", artifact.Metadata.Version)
	_, _ = fmt.Fprintf(out, "Platform: %s/%s\n", artifact.Metadata.OS, artifact.Metadata.Arch)
	if artifact.Metadata.SHA256 != "" {
		_, _ = fmt.Fprintf(out, "SHA256:   %s\n", artifact.Metadata.SHA256)
	}
	_, _ = fmt.Fprintf(out, "URL:      %s\n", artifact.DownloadURL())

	return nil
}
