package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	return NewManagerAt(
		filepath.Join(dir, "global", "config.yaml"),
		filepath.Join(dir, "local", "config.yaml"),
	)
}

func TestLoad_DefaultsWhenNoFiles(t *testing.T) {
	cfg, err := testManager(t).Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_MergePrecedence(t *testing.T) {
	m := testManager(t)
	writeYAML(t, m.GlobalPath(), "api_url: http://global:3000\ntimeout_seconds: 60\n")
	writeYAML(t, m.LocalPath(), "api_url: http://local:3000\n")

	cfg, err := m.Load()
	require.NoError(t, err)
	// Local wins for the key it sets; global survives for the rest.
	require.Equal(t, "http://local:3000", cfg.APIURL)
	require.Equal(t, 60, cfg.TimeoutSeconds)
	require.Equal(t, "keychain", cfg.CredentialStore)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	m := testManager(t)
	writeYAML(t, m.LocalPath(), "api_url: http://local:3000\n")
	t.Setenv(EnvAPIURL, "http://env:4000")

	cfg, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, "http://env:4000", cfg.APIURL)
}

func TestLoad_ZeroTimeoutIsNotUnset(t *testing.T) {
	m := testManager(t)
	writeYAML(t, m.GlobalPath(), "timeout_seconds: 0\n")

	cfg, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, 0, cfg.TimeoutSeconds)
}

func TestLoad_MalformedFile(t *testing.T) {
	m := testManager(t)
	writeYAML(t, m.GlobalPath(), "api_url: [unclosed\n")

	_, err := m.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "malformed config file")
}

func TestSetValues(t *testing.T) {
	m := testManager(t)
	require.NoError(t, m.SetValues(m.GlobalPath(), map[string]string{
		"api_url":         "http://api:3000",
		"timeout_seconds": "45",
	}))

	// A later write preserves existing keys.
	require.NoError(t, m.SetValues(m.GlobalPath(), map[string]string{
		"credential_store": "file",
	}))

	cfg, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, "http://api:3000", cfg.APIURL)
	require.Equal(t, 45, cfg.TimeoutSeconds)
	require.Equal(t, "file", cfg.CredentialStore)
}

func TestSetValues_Validation(t *testing.T) {
	m := testManager(t)

	err := m.SetValues(m.GlobalPath(), map[string]string{"no_such_key": "x"})
	require.ErrorIs(t, err, ErrInvalidKey)

	err = m.SetValues(m.GlobalPath(), map[string]string{"timeout_seconds": "abc"})
	require.ErrorIs(t, err, ErrInvalidValue)

	err = m.SetValues(m.GlobalPath(), map[string]string{"timeout_seconds": "-1"})
	require.ErrorIs(t, err, ErrInvalidValue)

	err = m.SetValues(m.GlobalPath(), map[string]string{"credential_store": "vault"})
	require.ErrorIs(t, err, ErrInvalidValue)

	err = m.SetValues(m.GlobalPath(), map[string]string{"api_url": ""})
	require.ErrorIs(t, err, ErrInvalidValue)

	// Nothing was written by the failed sets.
	_, statErr := os.Stat(m.GlobalPath())
	require.True(t, os.IsNotExist(statErr))
}

func TestGetValue(t *testing.T) {
	m := testManager(t)
	writeYAML(t, m.LocalPath(), "heartbeat_seconds: 5\n")

	v, err := m.GetValue("heartbeat_seconds")
	require.NoError(t, err)
	require.Equal(t, "5", v)

	_, err = m.GetValue("no_such_key")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestListAll(t *testing.T) {
	m := testManager(t)

	entries, err := m.ListAll()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	require.Equal(t, "api_url", entries[0][0])
	require.Equal(t, Default().APIURL, entries[0][1])
}

func TestStub_ParsesAsDefaults(t *testing.T) {
	var fc fileConfig
	require.NoError(t, yaml.Unmarshal([]byte(Stub()), &fc))

	d := Default()
	require.NotNil(t, fc.APIURL)
	require.Equal(t, d.APIURL, *fc.APIURL)
	require.NotNil(t, fc.TimeoutSeconds)
	require.Equal(t, d.TimeoutSeconds, *fc.TimeoutSeconds)
	require.NotNil(t, fc.CredentialStore)
	require.Equal(t, d.CredentialStore, *fc.CredentialStore)
}
