package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644))
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
cli:
  binary: /usr/local/bin/litium-cloud
  defaultTimeout: 90s
server:
  port: 9100
audit:
  storePath: /tmp/audit.db
logLevel: debug
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/litium-cloud", cfg.CLI.Binary)
	assert.Equal(t, 90*time.Second, cfg.CLI.DefaultTimeout)
	assert.Equal(t, DefaultEndpointEnvVar, cfg.CLI.EndpointEnvVar)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, MCPTransportStreamableHTTP, cfg.Server.Transport)
	assert.Equal(t, DefaultAuditCapacity, cfg.Audit.Capacity)
	assert.Equal(t, "/tmp/audit.db", cfg.Audit.StorePath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "cli: [unterminated")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "parse", cfgErr.ErrorType)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
server:
  transport: carrier-pigeon
logLevel: loud
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "validation", cfgErr.ErrorType)
	assert.Contains(t, err.Error(), "server.transport")
	assert.Contains(t, err.Error(), "logLevel")
}

func TestGetDefaultConfigPath(t *testing.T) {
	orig := osUserHomeDir
	t.Cleanup(func() { osUserHomeDir = orig })
	osUserHomeDir = func() (string, error) { return "/home/tester", nil }

	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "cloud-cli-mcp"), path)
}
