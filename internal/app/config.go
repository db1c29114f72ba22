package app

import (
	"io"

	"cloud-cli-mcp/internal/config"
)

// Config holds the application's startup options. Zero values leave the
// file (or default) setting in place.
type Config struct {
	// ConfigPath is the configuration directory. Empty means the default.
	ConfigPath string

	Transport string
	Host      string
	Port      int
	LogLevel  string

	Version string

	// Stdin and Stdout carry the stdio transport. Nil means os.Stdin/os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer

	// Resolved is the effective configuration after loading and overrides.
	Resolved config.Config
}

// applyOverrides copies non-zero flag values over the loaded configuration.
func (c *Config) applyOverrides(cfg *config.Config) {
	if c.Transport != "" {
		cfg.Server.Transport = c.Transport
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
}
