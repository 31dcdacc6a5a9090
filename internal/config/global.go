package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// GlobalConfigDir is the name of the global config directory in home
	GlobalConfigDir = ".nokan"

	// GlobalConfigFileName is the name of the global config file
	GlobalConfigFileName = "config.toml"

	// DefaultProfile is the profile used when none is selected
	DefaultProfile = "default"
)

// Profile is one named connection in the global config. Durations are kept as
// strings so they round-trip through the file unchanged.
type Profile struct {
	BaseURL       string `toml:"base_url,omitempty"`
	Token         string `toml:"token,omitempty"`
	Timeout       string `toml:"timeout,omitempty"`
	UploadTimeout string `toml:"upload_timeout,omitempty"`
}

// GlobalConfig represents the user-level configuration from ~/.nokan/config.toml
type GlobalConfig struct {
	DefaultProfile string             `toml:"default_profile,omitempty"`
	Profiles       map[string]Profile `toml:"profiles,omitempty"`
}

// Profile returns the named profile.
func (g *GlobalConfig) Profile(name string) (Profile, bool) {
	p, ok := g.Profiles[name]
	return p, ok
}

// SetProfile adds or replaces a profile.
func (g *GlobalConfig) SetProfile(name string, p Profile) {
	if g.Profiles == nil {
		g.Profiles = make(map[string]Profile)
	}
	g.Profiles[name] = p
}

// GlobalConfigPath returns the path of the global config file under homeDir.
func GlobalConfigPath(homeDir string) string {
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFileName)
}

// LoadGlobalConfig loads the global configuration from ~/.nokan/config.toml.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadGlobalConfigFromDir(homeDir)
}

// LoadGlobalConfigFromDir loads global config using the specified directory as home.
// This is useful for testing.
func LoadGlobalConfigFromDir(homeDir string) (*GlobalConfig, error) {
	configPath := GlobalConfigPath(homeDir)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return &GlobalConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}

	var cfg GlobalConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, configPath, err)
	}

	for name, p := range cfg.Profiles {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("%w: profile %q: %v", ErrInvalidConfig, name, err)
		}
	}

	return &cfg, nil
}

// SaveGlobalConfigToDir writes cfg to the global config file under homeDir.
// The file holds tokens, so it is created with mode 0600.
func SaveGlobalConfigToDir(homeDir string, cfg *GlobalConfig) error {
	dir := filepath.Join(homeDir, GlobalConfigDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode global config: %w", err)
	}

	path := GlobalConfigPath(homeDir)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write global config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

func (p Profile) validate() error {
	if p.BaseURL != "" {
		if err := validateBaseURL(p.BaseURL); err != nil {
			return err
		}
	}
	if p.Timeout != "" {
		if _, err := parseDuration(p.Timeout); err != nil {
			return fmt.Errorf("timeout: %v", err)
		}
	}
	if p.UploadTimeout != "" {
		if _, err := parseDuration(p.UploadTimeout); err != nil {
			return fmt.Errorf("upload_timeout: %v", err)
		}
	}
	return nil
}
