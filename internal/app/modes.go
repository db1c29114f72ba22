package app

import (
	"context"
	"os"

	"cloud-cli-mcp/internal/config"
	"cloud-cli-mcp/pkg/logging"
)

// runHTTPMode serves streamable HTTP, the legacy tool.invoke method, the
// health endpoint and the log WebSocket until ctx ends.
func runHTTPMode(ctx context.Context, cfg config.Config, services *Services) error {
	logging.Info("Server", "Serving %s on %s:%d (tool %s)",
		cfg.Server.Transport, cfg.Server.Host, cfg.Server.Port, cfg.Server.ToolName)
	return services.Server.ServeHTTP(ctx)
}

// runStdioMode serves MCP over the given streams. Logs stay on stderr.
func runStdioMode(ctx context.Context, c *Config, services *Services) error {
	in, out := c.Stdin, c.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	logging.Debug("Server", "Tool %s available over stdio", c.Resolved.Server.ToolName)
	return services.Server.ServeStdio(ctx, in, out)
}
