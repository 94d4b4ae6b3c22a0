package cli

import (
	"fmt"

	"github.com/glorpus-work/tenget/pkg/catalog"
	"github.com/glorpus-work/tenget/pkg/config"
	"github.com/glorpus-work/tenget/pkg/download"
	"github.com/glorpus-work/tenget/pkg/hooks"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
)

// loadConfig loads the configuration file, falling back to the default
// location, and applies global CLI flag overrides.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	if configPath == "" {
		defaultPath, pathErr := config.GetDefaultConfigPath()
		if pathErr != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", pathErr)
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	return cfg, nil
}

// newCatalogLoader builds a catalog loader from the configured base URL and
// HTTP settings.
func newCatalogLoader(cfg *config.Config) *catalog.Loader {
	fetcher := catalog.NewHTTPFetcher(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
	return catalog.NewLoader(fetcher, catalog.WithBaseURL(cfg.Settings.BaseURL))
}

// newDownloadManager builds a download manager from the configured HTTP
// settings.
func newDownloadManager(cfg *config.Config) download.Manager {
	return download.NewManager(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
}

// newHookManager builds a hook executor, loading scripts from the configured
// hooks directory when one is set.
func newHookManager(cfg *config.Config) (hooks.HookManager, error) {
	executor := hooks.NewTengoExecutor()
	if cfg.Settings.HooksDir != "" {
		if err := hooks.LoadHooksFromDir(executor, cfg.Settings.HooksDir); err != nil {
			return nil, fmt.Errorf("failed to load hook scripts: %w", err)
		}
	}
	return executor, nil
}
