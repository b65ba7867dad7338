// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"forcecursor/cli/internal/rest"
	"forcecursor/cli/internal/xdg"
)

// Environment variables read by Load and EnvCredential.
const (
	EnvInstanceURL = "FORCECURSOR_INSTANCE_URL"
	EnvAccessToken = "FORCECURSOR_ACCESS_TOKEN"
	EnvLogLevel    = "FORCECURSOR_LOG_LEVEL"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	// APIVersion is the data API version, e.g. "v23.0".
	APIVersion string `json:"api_version"`
	// Charset decodes responses that do not name their own.
	Charset string `json:"charset"`
	// ChunkSize is how many records are drained per batch when streaming models.
	ChunkSize int `json:"chunk_size"`
	// TimeoutSeconds bounds each remote request.
	TimeoutSeconds int `json:"timeout_seconds"`
	// LoginURL is the OAuth authorization server.
	LoginURL string `json:"login_url"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "colorful",
		APIVersion:     rest.DefaultAPIVersion,
		Charset:        "utf-8",
		ChunkSize:      100,
		TimeoutSeconds: 30,
		LoginURL:       "https://login.salesforce.com",
	}
}

// Timeout returns TimeoutSeconds as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
// Fields absent from the file keep their defaults and the environment
// overrides the log level.
func Load() (Config, error) {
	c := Default()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	if err == nil {
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}
	c.applyEnv()
	c.fill()
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// EnvCredential returns a credential from the environment when both
// variables are set.
func EnvCredential() (rest.Credential, bool) {
	cred := rest.Credential{
		AccessToken: strings.TrimSpace(os.Getenv(EnvAccessToken)),
		InstanceURL: strings.TrimSpace(os.Getenv(EnvInstanceURL)),
	}
	return cred, cred.Valid()
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// fill replaces zero or invalid values with defaults.
func (c *Config) fill() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.APIVersion == "" {
		c.APIVersion = d.APIVersion
	}
	if c.Charset == "" {
		c.Charset = d.Charset
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
	if c.LoginURL == "" {
		c.LoginURL = d.LoginURL
	}
}
