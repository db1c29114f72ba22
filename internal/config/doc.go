// Package config provides configuration management for cloud-cli-mcp.
//
// Configuration is read from a single directory containing config.yaml.
// The default directory is ~/.config/cloud-cli-mcp; the serve command accepts
// --config-path to use another one. A missing file yields GetDefaultConfig().
//
// # File Format
//
//	cli:
//	  binary: litium-cloud
//	  endpointEnvVar: LITIUM_CLOUD_URL
//	  defaultTimeout: 60s
//	  maxConcurrent: 0
//	server:
//	  transport: streamable-http
//	  host: localhost
//	  port: 8090
//	  toolName: cloud_cli
//	audit:
//	  capacity: 1000
//	  storePath: ""
//	logLevel: info
//
// Values in the file overlay the defaults field by field. The result is
// validated before use; parse and validation failures are reported as
// *ConfigurationError.
//
// # Hot Reload
//
// Watcher observes config.yaml and hands every successfully reloaded Config
// to a callback. Only logLevel and cli.defaultTimeout are applied to a
// running server; the rest needs a restart.
package config
