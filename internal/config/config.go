package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	DefaultManifestURL     = "https://a0.ww.np.dl.playstation.net/tpl/np/{ID}/{ID}-ver.xml"
	DefaultDestinationName = "PS3 Game Updates"
	DefaultUserAgent       = "rgudw/1.0"

	defaultManifestTimeout = 30 * time.Second

	EnvDestination = "RGUDW_DEST"
	EnvLogLevel    = "RGUDW_LOG_LEVEL"
	EnvManifestURL = "RGUDW_MANIFEST_URL"
)

type ManifestConfig struct {
	URL                string        `yaml:"url"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Timeout            time.Duration `yaml:"timeout"`
}

type DownloadConfig struct {
	// Zero means no timeout; update packages can be several gigabytes.
	Timeout  time.Duration `yaml:"timeout"`
	Progress bool          `yaml:"progress"`
}

type Config struct {
	Destination string         `yaml:"destination"`
	LogLevel    string         `yaml:"log_level"`
	VerifySize  bool           `yaml:"verify_size"`
	UserAgent   string         `yaml:"user_agent"`
	Manifest    ManifestConfig `yaml:"manifest"`
	Download    DownloadConfig `yaml:"download"`
}

func (c *Config) SetDefaults() {
	c.LogLevel = LogLevelInfo
	c.UserAgent = DefaultUserAgent
	c.Manifest = ManifestConfig{
		URL:                DefaultManifestURL,
		InsecureSkipVerify: true,
		Timeout:            defaultManifestTimeout,
	}
	c.Download = DownloadConfig{
		Progress: true,
	}
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}

	if c.Destination == "" {
		return fmt.Errorf("destination is not set")
	}

	if c.Manifest.URL == "" {
		return fmt.Errorf("manifest url is not set")
	}

	return nil
}

// Load reads cfgPath on top of the defaults. A missing file is not an error.
// A .env file in the working directory and RGUDW_* variables override file values.
func Load(cfgPath string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfgPath != "" {
		data, err := os.ReadFile(cfgPath)
		switch {
		case err == nil:
			if err := yaml.UnmarshalStrict(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config file %s: %w", cfgPath, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("cannot read config file %s: %w", cfgPath, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env file: %w", err)
	}

	cfg.applyEnv()

	if cfg.Destination == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}

		cfg.Destination = filepath.Join(home, DefaultDestinationName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDestination); v != "" {
		c.Destination = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv(EnvManifestURL); v != "" {
		c.Manifest.URL = v
	}
}
