// Package server exposes the dispatcher and the log streamer to clients.
//
// The MCP side publishes a single tool whose arguments are the tagged action
// union described by the dispatcher's schema. It is served either over
// streamable HTTP or over stdio.
//
// In HTTP mode a gorilla/mux router carries three routes:
//
//	/mcp        MCP streamable HTTP; also answers the legacy "tool.invoke" method
//	/healthz    runs a lightweight CLI call and reports ok, auth_required or error
//	/ws/logs    WebSocket; ?jobId= follows that job's logs, one JSON frame per message
//
// Closing the WebSocket stops the follow-logs process.
package server
