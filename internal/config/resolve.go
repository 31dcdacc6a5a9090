package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nokan/nokan/pkg/nokan"
)

// Environment variables read by ResolveConfig.
const (
	EnvToken   = "NOKAN_TOKEN"
	EnvBaseURL = "NOKAN_BASE_URL"
	EnvProfile = "NOKAN_PROFILE"
	EnvTimeout = "NOKAN_TIMEOUT"
)

// DefaultBaseURL is the hosted API origin.
const DefaultBaseURL = "https://app.nokan.io"

var (
	// ErrInvalidConfig wraps every malformed-configuration error.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingToken is returned by Validate when no source set a token.
	ErrMissingToken = fmt.Errorf("%w: no API token: set %s, pass --token, or run 'nokan login'", ErrInvalidConfig, EnvToken)
)

// Source names where a resolved value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceProject Source = "project"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Overrides holds values given on the command line. Zero values are unset.
type Overrides struct {
	Profile string
	BaseURL string
	Token   string
	Timeout time.Duration
}

// ResolvedConfig represents the final merged configuration with all
// precedence rules applied. Precedence order (highest to lowest):
// 1. Command-line flags
// 2. Environment (NOKAN_*)
// 3. Project config (nokan.toml)
// 4. Global config profile (~/.nokan/config.toml)
// 5. Built-in defaults
type ResolvedConfig struct {
	Profile       string
	BaseURL       string
	Token         string
	Timeout       time.Duration
	UploadTimeout time.Duration
	ProjectPath   string

	// Sources records where each field came from, keyed by field name.
	Sources map[string]Source
}

// ResolveConfig discovers the project config, loads the global config,
// and merges them with the environment and overrides.
func ResolveConfig(overrides Overrides) (*ResolvedConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return ResolveConfigWithHome(homeDir, overrides)
}

// ResolveConfigWithHome resolves config using a specified home directory.
// This is useful for testing.
func ResolveConfigWithHome(homeDir string, overrides Overrides) (*ResolvedConfig, error) {
	projectCfg, err := DiscoverProjectConfig()
	if err != nil {
		return nil, err
	}

	globalCfg, err := LoadGlobalConfigFromDir(homeDir)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		Profile:       DefaultProfile,
		BaseURL:       DefaultBaseURL,
		Timeout:       nokan.DefaultTimeout,
		UploadTimeout: nokan.DefaultUploadTimeout,
		Sources: map[string]Source{
			"profile":        SourceDefault,
			"base_url":       SourceDefault,
			"timeout":        SourceDefault,
			"upload_timeout": SourceDefault,
		},
	}
	set := func(field string, src Source) {
		resolved.Sources[field] = src
	}

	// Profile selection has its own precedence chain.
	if globalCfg.DefaultProfile != "" {
		resolved.Profile = globalCfg.DefaultProfile
		set("profile", SourceGlobal)
	}
	if projectCfg != nil && projectCfg.Profile != "" {
		resolved.Profile = projectCfg.Profile
		set("profile", SourceProject)
	}
	if v := os.Getenv(EnvProfile); v != "" {
		resolved.Profile = v
		set("profile", SourceEnv)
	}
	if overrides.Profile != "" {
		resolved.Profile = overrides.Profile
		set("profile", SourceFlag)
	}

	profile, ok := globalCfg.Profile(resolved.Profile)
	if !ok && resolved.Sources["profile"] != SourceDefault {
		return nil, fmt.Errorf("%w: profile %q not found in %s", ErrInvalidConfig, resolved.Profile, GlobalConfigPath(homeDir))
	}

	// Apply global profile (overrides defaults)
	if profile.BaseURL != "" {
		resolved.BaseURL = profile.BaseURL
		set("base_url", SourceGlobal)
	}
	if profile.Token != "" {
		resolved.Token = profile.Token
		set("token", SourceGlobal)
	}
	if profile.Timeout != "" {
		resolved.Timeout, _ = parseDuration(profile.Timeout)
		set("timeout", SourceGlobal)
	}
	if profile.UploadTimeout != "" {
		resolved.UploadTimeout, _ = parseDuration(profile.UploadTimeout)
		set("upload_timeout", SourceGlobal)
	}

	// Apply project config (never carries a token)
	if projectCfg != nil {
		resolved.ProjectPath = projectCfg.Path
		if projectCfg.BaseURL != "" {
			resolved.BaseURL = projectCfg.BaseURL
			set("base_url", SourceProject)
		}
		if projectCfg.Timeout != 0 {
			resolved.Timeout = projectCfg.Timeout
			set("timeout", SourceProject)
		}
	}

	// Apply environment
	if v := os.Getenv(EnvBaseURL); v != "" {
		if err := validateBaseURL(v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvBaseURL, err)
		}
		resolved.BaseURL = v
		set("base_url", SourceEnv)
	}
	if v := os.Getenv(EnvToken); v != "" {
		resolved.Token = v
		set("token", SourceEnv)
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvTimeout, err)
		}
		resolved.Timeout = d
		set("timeout", SourceEnv)
	}

	// Apply flags
	if overrides.BaseURL != "" {
		if err := validateBaseURL(overrides.BaseURL); err != nil {
			return nil, fmt.Errorf("%w: --base-url: %v", ErrInvalidConfig, err)
		}
		resolved.BaseURL = overrides.BaseURL
		set("base_url", SourceFlag)
	}
	if overrides.Token != "" {
		resolved.Token = overrides.Token
		set("token", SourceFlag)
	}
	if overrides.Timeout != 0 {
		if overrides.Timeout < 0 {
			return nil, fmt.Errorf("%w: --timeout must be positive", ErrInvalidConfig)
		}
		resolved.Timeout = overrides.Timeout
		set("timeout", SourceFlag)
	}

	return resolved, nil
}

// Validate checks that the resolved config can build a client.
func (c *ResolvedConfig) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ErrMissingToken
	}
	if err := validateBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// RedactedToken returns the token with everything past the lookup prefix
// masked, for display.
func (c *ResolvedConfig) RedactedToken() string {
	return RedactToken(c.Token)
}

// RedactToken masks a token for display.
func RedactToken(token string) string {
	const visible = 12
	if token == "" {
		return ""
	}
	if len(token) <= visible {
		return "****"
	}
	return token[:visible] + "****"
}

// validateBaseURL checks that raw is an absolute http or https URL.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return nil
}

// parseDuration accepts a Go duration string or a bare number of seconds.
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	var d time.Duration
	if seconds, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(seconds) * time.Second
	} else {
		d, err = time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", raw)
	}
	return d, nil
}
