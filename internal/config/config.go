// Package config loads the TOML configuration file and applies the
// override chain: defaults -> config file -> environment -> CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Environment variable names recognized by ReadEnvOverrides.
const (
	envToken      = "GDRIVE_TOKEN"
	envConfigPath = "GDRIVE_CONFIG"
)

// Config is the on-disk TOML configuration.
type Config struct {
	// Token is a bearer token for the Drive API. Usually supplied via
	// GDRIVE_TOKEN instead so it stays out of files.
	Token string `toml:"token"`
	// BaseURL overrides the Drive metadata endpoint. Empty uses the
	// production endpoint.
	BaseURL string `toml:"base_url"`
	// UploadURL overrides the Drive upload endpoint.
	UploadURL string `toml:"upload_url"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{LogLevel: "info"}
}

// DefaultConfigPath returns the default config file location,
// ~/.config/gdrive-go/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}

	return filepath.Join(home, ".config", "gdrive-go", "config.toml")
}

// Load reads and parses a TOML config file. Unknown keys are fatal —
// silently ignoring a typo in a config file leads to hard-to-debug
// behavior.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise
// returns defaults. Supports the zero-config first run.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
}

// EnvOverrides carries environment variable overrides.
type EnvOverrides struct {
	Token      string
	ConfigPath string
}

// ReadEnvOverrides reads the recognized environment variables.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		Token:      os.Getenv(envToken),
		ConfigPath: os.Getenv(envConfigPath),
	}
}

// CLIOverrides carries flag-level overrides. Flags always win.
type CLIOverrides struct {
	Token      string
	ConfigPath string
}

// Resolve loads configuration and applies the override chain,
// returning the effective Config.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Config, error) {
	path := DefaultConfigPath()
	if env.ConfigPath != "" {
		path = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		path = cli.ConfigPath
	}

	cfg, err := LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	if env.Token != "" {
		cfg.Token = env.Token
	}

	if cli.Token != "" {
		cfg.Token = cli.Token
	}

	return cfg, nil
}
