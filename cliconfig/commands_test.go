package cliconfig

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func setWriterRecursive(cmd *cli.Command, w io.Writer) {
	cmd.Writer = w
	for _, sub := range cmd.Commands {
		setWriterRecursive(sub, w)
	}
}

func runConfig(t *testing.T, m *Manager, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := &cli.Command{
		Name:     "stockctl",
		Commands: []*cli.Command{Commands(m)},
	}
	setWriterRecursive(root, &buf)

	err := root.Run(context.Background(), append([]string{"stockctl", "config"}, args...))
	return buf.String(), err
}

func TestConfigSetAndGet(t *testing.T) {
	m := testManager(t)

	out, err := runConfig(t, m, "set", "api_url=http://api:3000", "timeout_seconds=45")
	require.NoError(t, err)
	require.Contains(t, out, "Set 2 value(s)")
	require.Contains(t, out, m.LocalPath())

	out, err = runConfig(t, m, "get", "api_url")
	require.NoError(t, err)
	require.Equal(t, "http://api:3000\n", out)
}

func TestConfigSet_GlobalFlag(t *testing.T) {
	m := testManager(t)

	out, err := runConfig(t, m, "set", "--global", "credential_store=file")
	require.NoError(t, err)
	require.Contains(t, out, m.GlobalPath())

	_, err = os.Stat(m.GlobalPath())
	require.NoError(t, err)
	_, err = os.Stat(m.LocalPath())
	require.True(t, os.IsNotExist(err))
}

func TestConfigSet_ArgumentErrors(t *testing.T) {
	m := testManager(t)

	_, err := runConfig(t, m, "set")
	require.ErrorIs(t, err, ErrKeyValueRequired)

	_, err = runConfig(t, m, "set", "api_url")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = runConfig(t, m, "set", "no_such_key=1")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestConfigGet_ArgumentErrors(t *testing.T) {
	m := testManager(t)

	_, err := runConfig(t, m, "get")
	require.ErrorIs(t, err, ErrExactlyOneKey)

	_, err = runConfig(t, m, "get", "no_such_key")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestConfigList(t *testing.T) {
	m := testManager(t)
	writeYAML(t, m.LocalPath(), "heartbeat_seconds: 5\n")

	out, err := runConfig(t, m, "list")
	require.NoError(t, err)
	require.Contains(t, out, "api_url: "+Default().APIURL)
	require.Contains(t, out, "heartbeat_seconds: 5")
	require.Contains(t, out, "credential_store: keychain")
}

func TestConfigInit_WritesStub(t *testing.T) {
	// "true" exits 0 without touching the file, standing in for an editor.
	t.Setenv("VISUAL", "true")
	m := testManager(t)

	_, err := runConfig(t, m, "init")
	require.NoError(t, err)

	data, err := os.ReadFile(m.LocalPath())
	require.NoError(t, err)
	require.Equal(t, Stub(), string(data))
}

func TestConfigInit_ExistingFilePreservedWithoutReplace(t *testing.T) {
	t.Setenv("VISUAL", "true")
	m := testManager(t)
	writeYAML(t, m.LocalPath(), "api_url: http://keep:3000\n")

	_, err := runConfig(t, m, "init")
	require.NoError(t, err)

	data, err := os.ReadFile(m.LocalPath())
	require.NoError(t, err)
	require.Equal(t, "api_url: http://keep:3000\n", string(data))

	_, err = runConfig(t, m, "init", "--replace")
	require.NoError(t, err)

	data, err = os.ReadFile(m.LocalPath())
	require.NoError(t, err)
	require.Equal(t, Stub(), string(data))
}
