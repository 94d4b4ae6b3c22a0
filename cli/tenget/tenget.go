package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/tenget/internal/cli"
	"github.com/glorpus-work/tenget/internal/logger"
)

var (
	configPath   string
	verbose      bool
	outputFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenget",
		Short: "Resolve and download Tenable product installers",
		Long: `tenget resolves the right installer from the Tenable downloads
catalog for a target platform:
- lookup: resolve the artifact and print its download location
- download: fetch the installer with checksum verification
- products: browse the catalog`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := "info"
			if verbose {
				level = "debug"
			}
			logger.InitLogger(level)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (json, text)")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.OutputFormat = &outputFormat

	// Add subcommands
	cmd.AddCommand(
		cli.NewLookupCmd(),
		cli.NewDownloadCmd(),
		cli.NewProductsCmd(),
		cli.NewPlatformCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
