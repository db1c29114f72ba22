package config

import "time"

const (
	// DefaultCLIBinary is the cloud CLI executable looked up on PATH.
	DefaultCLIBinary = "litium-cloud"

	// DefaultEndpointEnvVar is the variable the CLI reads its API endpoint from.
	DefaultEndpointEnvVar = "LITIUM_CLOUD_URL"

	// DefaultCLITimeout applies to every CLI call that does not set its own ceiling.
	DefaultCLITimeout = 60 * time.Second

	// DefaultAuditCapacity is the number of audit entries kept in memory.
	DefaultAuditCapacity = 1000

	// DefaultToolName is the MCP tool exposing every action.
	DefaultToolName = "cloud_cli"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() Config {
	return Config{
		CLI: CLIConfig{
			Binary:         DefaultCLIBinary,
			EndpointEnvVar: DefaultEndpointEnvVar,
			DefaultTimeout: DefaultCLITimeout,
		},
		Server: ServerConfig{
			Transport: MCPTransportStreamableHTTP,
			Host:      "localhost",
			Port:      8090,
			ToolName:  DefaultToolName,
		},
		Audit: AuditConfig{
			Capacity: DefaultAuditCapacity,
		},
		LogLevel: "info",
	}
}
