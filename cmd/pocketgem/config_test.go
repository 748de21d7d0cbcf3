package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/pocketgem/internal/testutil"
)

func TestConfigCommand(t *testing.T) {
	setConfigFile(t, testutil.SetupTestConfig(t, t.TempDir(), "https://example.com/generate", "AIzaSyExample1234",
		testutil.WithMode("legacy"),
		testutil.WithPort(9090),
	))

	got, err := executeCommand(t, "config")
	require.NoError(t, err)

	var rendered struct {
		Gemini struct {
			Endpoint string `yaml:"endpoint"`
			APIKey   string `yaml:"api_key"`
			Mode     string `yaml:"mode"`
		} `yaml:"gemini"`
		Server struct {
			Port int `yaml:"port"`
		} `yaml:"server"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(got), &rendered))
	assert.Equal(t, "https://example.com/generate", rendered.Gemini.Endpoint)
	assert.Equal(t, "*************1234", rendered.Gemini.APIKey)
	assert.Equal(t, "legacy", rendered.Gemini.Mode)
	assert.Equal(t, 9090, rendered.Server.Port)
	assert.NotContains(t, got, "AIzaSyExample1234")
}

func TestConfigCommand_DebugLogFlag(t *testing.T) {
	setConfigFile(t, testutil.SetupTestConfig(t, t.TempDir(), "https://example.com/generate", "key"))

	got, err := executeCommand(t, "--debug-log", "config")
	require.NoError(t, err)
	assert.Contains(t, got, "enabled: true\n")
}

func TestConfigCommand_BrokenConfig(t *testing.T) {
	setConfigFile(t, setupBrokenConfigFile(t))

	_, err := executeCommand(t, "config")
	assert.Error(t, err)
}
