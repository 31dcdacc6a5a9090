package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project configuration file
const ConfigFileName = "nokan.toml"

// ProjectConfig represents the project-level configuration from nokan.toml.
// Every field is optional.
type ProjectConfig struct {
	Path    string
	Profile string
	BaseURL string
	Timeout time.Duration
}

// projectConfigFile represents the raw TOML structure
type projectConfigFile struct {
	Profile string       `toml:"profile"`
	Server  serverConfig `toml:"server"`
}

// serverConfig represents the [server] section in TOML
type serverConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// DiscoverProjectConfig finds and parses the nokan.toml file by traversing
// up the directory tree from the current working directory. It returns nil
// without an error when no file is found.
func DiscoverProjectConfig() (*ProjectConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return discoverProjectConfigFrom(cwd)
}

// discoverProjectConfigFrom searches for nokan.toml starting from the given directory
func discoverProjectConfigFrom(startDir string) (*ProjectConfig, error) {
	dir := startDir

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return ParseProjectConfig(configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// ParseProjectConfig parses the nokan.toml file at the given path
func ParseProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig projectConfigFile
	meta, err := toml.Decode(string(data), &rawConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
	}

	// Project files get committed, so a token in one is rejected outright.
	if meta.IsDefined("token") || meta.IsDefined("server", "token") {
		return nil, fmt.Errorf("%w: %s must not contain a token; use ~/.nokan/config.toml or NOKAN_TOKEN", ErrInvalidConfig, path)
	}

	cfg := &ProjectConfig{
		Path:    path,
		Profile: rawConfig.Profile,
		BaseURL: rawConfig.Server.BaseURL,
	}

	if cfg.BaseURL != "" {
		if err := validateBaseURL(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}
	if rawConfig.Server.Timeout != "" {
		cfg.Timeout, err = parseDuration(rawConfig.Server.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: timeout: %v", ErrInvalidConfig, path, err)
		}
	}

	return cfg, nil
}
