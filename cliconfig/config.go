// Package cliconfig handles stockctl's YAML configuration files.
//
// Values merge in precedence order: built-in defaults, then the global file
// (~/.config/stockctl/config.yaml), then the local file
// (./.stockctl/config.yaml), then environment overrides.
package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidKey is returned when a config key doesn't exist in the schema.
	ErrInvalidKey = errors.New("invalid config key")

	// ErrInvalidValue is returned when a value doesn't fit its key's type.
	ErrInvalidValue = errors.New("invalid config value")
)

// EnvAPIURL overrides api_url when set. Mirrors the original client's
// environment-provided API base address.
const EnvAPIURL = "STOCKCTL_API_URL"

// Config is the full configuration schema.
type Config struct {
	// APIURL is the backend base address.
	APIURL string `yaml:"api_url"`

	// TimeoutSeconds bounds each request; 0 disables the bound.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// CredentialStore selects session persistence: "keychain" or "file".
	CredentialStore string `yaml:"credential_store"`

	// HeartbeatSeconds is the reachability poll interval for status --watch.
	HeartbeatSeconds int `yaml:"heartbeat_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:           "http://localhost:3000",
		TimeoutSeconds:   30,
		CredentialStore:  "keychain",
		HeartbeatSeconds: 10,
	}
}

// fileConfig distinguishes unset keys from zero values during merging.
type fileConfig struct {
	APIURL           *string `yaml:"api_url"`
	TimeoutSeconds   *int    `yaml:"timeout_seconds"`
	CredentialStore  *string `yaml:"credential_store"`
	HeartbeatSeconds *int    `yaml:"heartbeat_seconds"`
}

// Manager resolves, loads, and edits the configuration files.
type Manager struct {
	globalPath string
	localPath  string
}

// NewManager creates a Manager with the default global and local paths for
// the given application name.
func NewManager(appName string) *Manager {
	homeDir, _ := os.UserHomeDir()
	return &Manager{
		globalPath: filepath.Join(homeDir, ".config", appName, "config.yaml"),
		localPath:  filepath.Join(".", "."+appName, "config.yaml"),
	}
}

// NewManagerAt creates a Manager with explicit paths. Used by tests.
func NewManagerAt(globalPath, localPath string) *Manager {
	return &Manager{globalPath: globalPath, localPath: localPath}
}

// GlobalPath returns the global config file location.
func (m *Manager) GlobalPath() string { return m.globalPath }

// LocalPath returns the local config file location.
func (m *Manager) LocalPath() string { return m.localPath }

// Load merges defaults, the global file, the local file, and environment
// overrides. Missing files are fine; malformed files are errors.
func (m *Manager) Load() (Config, error) {
	cfg := Default()
	for _, path := range []string{m.globalPath, m.localPath} {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("malformed config file %s: %w", path, err)
	}
	if fc.APIURL != nil {
		cfg.APIURL = *fc.APIURL
	}
	if fc.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *fc.TimeoutSeconds
	}
	if fc.CredentialStore != nil {
		cfg.CredentialStore = *fc.CredentialStore
	}
	if fc.HeartbeatSeconds != nil {
		cfg.HeartbeatSeconds = *fc.HeartbeatSeconds
	}
	return nil
}

// Keys returns the schema keys in sorted order.
func Keys() []string {
	return []string{"api_url", "credential_store", "heartbeat_seconds", "timeout_seconds"}
}

// validate checks a key/value pair against the schema.
func validate(key, value string) error {
	switch key {
	case "api_url":
		if value == "" {
			return fmt.Errorf("%w: api_url must not be empty", ErrInvalidValue)
		}
	case "timeout_seconds", "heartbeat_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidValue, key)
		}
	case "credential_store":
		if value != "keychain" && value != "file" {
			return fmt.Errorf("%w: credential_store must be \"keychain\" or \"file\"", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return nil
}

// SetValues validates and writes key=value pairs into the file at path,
// preserving any keys already present there.
func (m *Manager) SetValues(path string, keyValues map[string]string) error {
	for k, v := range keyValues {
		if err := validate(k, v); err != nil {
			return err
		}
	}

	raw := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("malformed config file %s: %w", path, err)
		}
	}

	for k, v := range keyValues {
		switch k {
		case "timeout_seconds", "heartbeat_seconds":
			n, _ := strconv.Atoi(v)
			raw[k] = n
		default:
			raw[k] = v
		}
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, out, 0o600)
}

// GetValue returns the merged value for a key as a display string.
func (m *Manager) GetValue(key string) (string, error) {
	cfg, err := m.Load()
	if err != nil {
		return "", err
	}
	switch key {
	case "api_url":
		return cfg.APIURL, nil
	case "timeout_seconds":
		return strconv.Itoa(cfg.TimeoutSeconds), nil
	case "credential_store":
		return cfg.CredentialStore, nil
	case "heartbeat_seconds":
		return strconv.Itoa(cfg.HeartbeatSeconds), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
}

// ListAll returns every schema key with its merged value, sorted by key.
func (m *Manager) ListAll() ([][2]string, error) {
	keys := Keys()
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		v, err := m.GetValue(k)
		if err != nil {
			return nil, err
		}
		out = append(out, [2]string{k, v})
	}
	return out, nil
}

// Stub is the commented template written by `config init`.
func Stub() string {
	d := Default()
	return fmt.Sprintf(`# stockctl configuration
# Values here override the built-in defaults; the local file
# (./.stockctl/config.yaml) overrides the global one.

# Backend base address. The %s environment variable wins over both files.
api_url: %s

# Request timeout in seconds. 0 disables the timeout.
timeout_seconds: %d

# Session persistence: "keychain" (OS keychain) or "file" (~/.config/stockctl/session.json).
credential_store: %s

# Backend reachability poll interval for status --watch, in seconds.
heartbeat_seconds: %d
`, EnvAPIURL, d.APIURL, d.TimeoutSeconds, d.CredentialStore, d.HeartbeatSeconds)
}
