package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/pocketgem/internal/testutil"
)

// setConfigFile sets the global configFile variable and registers a cleanup to restore it.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	testutil.ClearEnv(t)
	oldConfigFile := configFile
	oldDebugLog := debugLog
	configFile = cfgPath
	t.Cleanup(func() {
		configFile = oldConfigFile
		debugLog = oldDebugLog
	})
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// executeCommand runs the root command with args and returns what it printed.
// Building the root command rebinds the global flags to their defaults, so
// the config file set by setConfigFile is passed back in with --config.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	if configFile != "" {
		args = append([]string{"--config", configFile}, args...)
	}
	var stdout bytes.Buffer
	rootCommand := newRootCommand()
	rootCommand.SetOut(&stdout)
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs(args)
	err := rootCommand.Execute()
	return stdout.String(), err
}
