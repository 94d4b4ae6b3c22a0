// Package config provides configuration management for tenget. It handles
// loading, validating, and saving application settings. Settings come from a
// YAML file with sensible defaults for everything that is not set.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/tenget/pkg/catalog"
	"github.com/glorpus-work/tenget/pkg/errors"
	"github.com/glorpus-work/tenget/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// PlatformConfig overrides the detected target platform. Empty fields keep
// the detected value.
type PlatformConfig struct {
	// OS overrides the reported distribution name (e.g. "Ubuntu").
	OS string `yaml:"os,omitempty"`

	// MajorVersion overrides the reported OS major version (e.g. "20").
	MajorVersion string `yaml:"major_version,omitempty"`

	// Arch overrides the reported CPU architecture (e.g. "x86_64").
	Arch string `yaml:"arch,omitempty"`

	// OSType overrides the reported OS classification (e.g. "Debian").
	OSType string `yaml:"os_type,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Catalog settings
	BaseURL        string `yaml:"base_url,omitempty"`
	DefaultProduct string `yaml:"default_product,omitempty"`

	// Download settings
	DownloadDir string `yaml:"download_dir,omitempty"`
	HooksDir    string `yaml:"hooks_dir,omitempty"`

	// Network settings
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	UserAgent   string        `yaml:"user_agent,omitempty"`

	// Platform settings
	Platform PlatformConfig `yaml:"platform,omitempty"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // json, text
	LogLevel     string `yaml:"log_level"`     // error, warn, info, debug
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent identifies tenget to the downloads site.
	DefaultUserAgent = "tenget/1.0"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		userCacheDir = "."
	}

	return &Config{
		Settings: Settings{
			BaseURL:        catalog.DefaultBaseURL,
			DefaultProduct: catalog.FamilyNessusAgents,
			DownloadDir:    filepath.Join(userCacheDir, "tenget", "downloads"),
			HTTPTimeout:    DefaultHTTPTimeout,
			UserAgent:      DefaultUserAgent,
			OutputFormat:   "text",
			LogLevel:       "info",
		},
	}
}

// GetDefaultConfigPath returns the default config file location.
func GetDefaultConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine user config directory")
	}
	return filepath.Join(userConfigDir, "tenget", "config.yaml"), nil
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig saves configuration to a file, atomically replacing any
// previous one.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	if err := os.Chmod(absPath, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileChmod, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if !slices.Contains(catalog.KnownFamilies(), c.Settings.DefaultProduct) {
		return errors.Wrapf(errors.ErrConfigValidation, "unknown default product %q", c.Settings.DefaultProduct)
	}
	if c.Settings.HTTPTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigValidation, "http_timeout must be positive")
	}
	switch c.Settings.OutputFormat {
	case "text", "json":
	default:
		return errors.Wrapf(errors.ErrConfigValidation, "unknown output format %q", c.Settings.OutputFormat)
	}
	return nil
}

// applyDefaults fills unset fields from the default configuration.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Settings.BaseURL == "" {
		c.Settings.BaseURL = defaults.Settings.BaseURL
	}
	if c.Settings.DefaultProduct == "" {
		c.Settings.DefaultProduct = defaults.Settings.DefaultProduct
	}
	if c.Settings.DownloadDir == "" {
		c.Settings.DownloadDir = defaults.Settings.DownloadDir
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}
