package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/tenget/pkg/catalog"
)

// NewProductsCmd creates the products command.
func NewProductsCmd() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List product families and their product lines",
		Long: `List the known product families, or the product lines of one family
together with their current versions and artifact counts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProducts(cmd, family)
		},
	}

	cmd.Flags().StringVar(&family, "family", "", "Product family to list lines for")

	return cmd
}

func runProducts(cmd *cobra.Command, family string) error {
	out := cmd.OutOrStdout()

	if family == "" {
		for _, known := range catalog.KnownFamilies() {
			_, _ = fmt.Fprintln(out, known)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loader := newCatalogLoader(cfg)
	if err := loader.Load(cmd.Context(), family); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	entries, _ := loader.Products(family)

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No product lines found")
		return nil
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	latest := latestLine(entries, names)

	_, _ = fmt.Fprintf(out, "%-40s %-15s %s\n", "PRODUCT LINE", "VERSION", "ARTIFACTS")
	_, _ = fmt.Fprintln(out, strings.Repeat("-", 65))
	for _, name := range names {
		entry := entries[name]
		marker := ""
		if name == latest {
			marker = " (latest)"
		}
		_, _ = fmt.Fprintf(out, "%-40s %-15s %d%s\n", name, entry.Version, len(entry.Artifacts), marker)
	}

	return nil
}

// latestLine returns the name of the product line with the highest parseable
// version, or "" when no line carries one.
func latestLine(entries map[string]*catalog.ProductEntry, names []string) string {
	var (
		latest        string
		latestVersion *version.Version
	)
	for _, name := range names {
		v, err := version.NewVersion(entries[name].Version)
		if err != nil {
			continue
		}
		if latestVersion == nil || v.GreaterThan(latestVersion) {
			latest = name
			latestVersion = v
		}
	}
	return latest
}
