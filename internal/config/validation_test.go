package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"empty binary", func(c *Config) { c.CLI.Binary = " " }, "cli.binary"},
		{"zero timeout", func(c *Config) { c.CLI.DefaultTimeout = 0 }, "cli.defaultTimeout"},
		{"negative concurrency", func(c *Config) { c.CLI.MaxConcurrent = -1 }, "cli.maxConcurrent"},
		{"unknown transport", func(c *Config) { c.Server.Transport = "sse" }, "server.transport"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"stdio ignores port", func(c *Config) { c.Server.Transport = MCPTransportStdio; c.Server.Port = 0 }, ""},
		{"empty tool name", func(c *Config) { c.Server.ToolName = "" }, "server.toolName"},
		{"zero audit capacity", func(c *Config) { c.Audit.Capacity = 0 }, "audit.capacity"},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, "logLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("a", "is required", nil)
	assert.Equal(t, "field 'a': is required", errs.Error())

	errs.Add("b", "must be positive", 0)
	assert.Equal(t, "validation failed: field 'a': is required; field 'b': must be positive", errs.Error())
}
