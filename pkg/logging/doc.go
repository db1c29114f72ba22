// Package logging provides subsystem-tagged structured logging for
// cloud-cli-mcp, built on the standard slog package.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Executor", "Running %s", strings.Join(args, " "))
//	logging.Error("Server", err, "Failed to bind %s", addr)
//
// Every record carries a subsystem attribute and, for Error, an error
// attribute. The minimum level lives in a slog.LevelVar, so SetLevel can be
// called at any time (the MCP logging/setLevel request and the config file
// watcher both do this) without rebuilding the handler.
//
// # Output
//
// Servers always log to stderr. With the stdio MCP transport stdout carries
// the JSON-RPC stream, and a stray log line there corrupts the protocol.
//
// # Levels
//
// ParseLevel understands debug, info, warn and error as well as the syslog
// names the MCP specification uses (notice, warning, critical, alert,
// emergency), folding them onto the four levels above.
//
// The package is safe for concurrent use.
package logging
