package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cloud-cli-mcp/internal/app"
)

type serveOptions struct {
	transport string
	host      string
	port      int
	logLevel  string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Starts the MCP server exposing the cloud CLI as a single tool.

Transports:
  streamable-http (default)  MCP at /mcp, plus GET /healthz and the job log
                             WebSocket at /ws/logs?jobId=...
  stdio                      MCP over stdin/stdout, for clients that spawn
                             the server as a subprocess

Configuration is read from config.yaml in the configuration directory and
reloaded when it changes (logLevel and cli.defaultTimeout apply live).
Flags override file values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", "", "MCP transport: streamable-http or stdio")
	cmd.Flags().StringVar(&opts.host, "host", "", "Host to bind the HTTP transport to")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Port for the HTTP transport")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	application, err := app.NewApplication(&app.Config{
		ConfigPath: configPath,
		Transport:  opts.transport,
		Host:       opts.host,
		Port:       opts.port,
		LogLevel:   opts.logLevel,
		Version:    GetVersion(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}
