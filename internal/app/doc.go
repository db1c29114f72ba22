// Package app is the composition root of the cloud-cli-mcp server.
//
// NewApplication loads configuration, initializes logging and builds the
// single Context Store and Audit Logger the process shares, along with the
// CLI executor, log streamer, dispatcher and transport. Run then serves
// either the streamable HTTP or the stdio MCP transport until the context is
// cancelled or the process receives SIGINT or SIGTERM.
//
// # Configuration
//
// Settings come from config.yaml in the configuration directory (default
// ~/.config/cloud-cli-mcp), overlaid by command-line flags passed in
// Config. While serving, the file is watched; changes to logLevel and
// cli.defaultTimeout take effect without a restart. Other fields need one.
//
// Example:
//
//	application, err := app.NewApplication(&app.Config{Transport: "stdio"})
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
package app
