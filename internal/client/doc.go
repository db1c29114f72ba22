// Package client talks to a running cloud-cli-mcp server over the
// streamable HTTP MCP transport. The call command uses it to invoke a
// single action the same way an agent would.
package client
