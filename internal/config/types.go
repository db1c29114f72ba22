package config

import "time"

// Config is the top-level configuration structure for cloud-cli-mcp.
type Config struct {
	CLI      CLIConfig    `yaml:"cli"`
	Server   ServerConfig `yaml:"server"`
	Audit    AuditConfig  `yaml:"audit"`
	LogLevel string       `yaml:"logLevel,omitempty"`
}

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// CLIConfig describes the external cloud CLI the executor drives.
type CLIConfig struct {
	Binary         string        `yaml:"binary,omitempty"`         // Executable name or path (default: litium-cloud)
	EndpointEnvVar string        `yaml:"endpointEnvVar,omitempty"` // Env var overridden with the context's cliUrl
	DefaultTimeout time.Duration `yaml:"defaultTimeout,omitempty"` // Per-call ceiling when an action sets none
	MaxConcurrent  int           `yaml:"maxConcurrent,omitempty"`  // 0 means unbounded
}

// ServerConfig defines how the MCP server is exposed.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // streamable-http or stdio
	Host      string `yaml:"host,omitempty"`
	Port      int    `yaml:"port,omitempty"`
	ToolName  string `yaml:"toolName,omitempty"`
}

// AuditConfig controls the in-memory audit trail and its optional durable copy.
type AuditConfig struct {
	Capacity  int    `yaml:"capacity,omitempty"`
	StorePath string `yaml:"storePath,omitempty"` // SQLite file; empty disables persistence
}
