package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/json-persistence/internal/domain/item"
)

// runCLI executes the command tree with args and returns its standard output.
// The commands replace the global logger, so the tests in this file are not parallel.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

// TestCLI_StoreQueryList stores items locally and reads them back.
func TestCLI_StoreQueryList(t *testing.T) {
	root := t.TempDir()

	out, err := runCLI(t, "store", "Living_Temperature", "DecimalType", "21.50", "--root", root)
	require.NoError(t, err)
	require.Contains(t, out, `"type": "DecimalType"`)
	require.Contains(t, out, `"state": "21.5"`)

	_, err = runCLI(t, "store", "Hall_Light", "OnOffType", "ON", "--alias", "hall", "--root", root)
	require.NoError(t, err)

	out, err = runCLI(t, "query", "Living_Temperature", "--root", root)
	require.NoError(t, err)
	require.Contains(t, out, `"name": "Living_Temperature"`)

	// Aliased items are addressed by the alias only.
	out, err = runCLI(t, "query", "Hall_Light", "--root", root)
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = runCLI(t, "list", "--root", root)
	require.NoError(t, err)
	require.Equal(t, "Living_Temperature\nhall\n", out)
}

// TestCLI_StoreRejectsBadInput verifies unknown types and unparseable states fail.
func TestCLI_StoreRejectsBadInput(t *testing.T) {
	root := t.TempDir()

	_, err := runCLI(t, "store", "Lamp", "DimmerType", "50", "--root", root)
	require.Error(t, err)

	_, err = runCLI(t, "store", "Lamp", "PercentType", "150", "--root", root)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = runCLI(t, "store", "../Lamp", "OnOffType", "ON", "--root", root)
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries)
}

// TestCLI_UserDataFromEnvFile verifies the root falls back to SMARTHOME_USERDATA from a dotenv file.
func TestCLI_UserDataFromEnvFile(t *testing.T) {
	userData := t.TempDir()
	envFile := filepath.Join(t.TempDir(), "test.env")

	t.Setenv("SMARTHOME_USERDATA", "")
	require.NoError(t, os.Unsetenv("SMARTHOME_USERDATA"))
	require.NoError(t, os.WriteFile(envFile, []byte("SMARTHOME_USERDATA="+userData+"\n"), 0o600))

	_, err := runCLI(t, "store", "Front_Door", "OpenClosedType", "CLOSED", "--env-file", envFile)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(userData, "persistence", "json", "Front_Door"))
	require.NoError(t, err)
}

// TestCLI_LocalOnlyCommands verifies list and watch refuse a remote server.
func TestCLI_LocalOnlyCommands(t *testing.T) {
	for _, name := range []string{"list", "watch"} {
		_, err := runCLI(t, name, "--server", "127.0.0.1:1", "--root", t.TempDir())
		require.ErrorIs(t, err, errLocalOnly)
	}
}

// TestCLI_UnknownLogFormat verifies the log format flag is validated.
func TestCLI_UnknownLogFormat(t *testing.T) {
	_, err := runCLI(t, "list", "--root", t.TempDir(), "--log-format", "xml")
	require.Error(t, err)
}
