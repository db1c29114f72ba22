package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"cloud-cli-mcp/internal/dispatcher"
	"cloud-cli-mcp/internal/logstream"
	"cloud-cli-mcp/pkg/logging"
)

const (
	// ServerName is reported to MCP clients during initialize.
	ServerName = "cloud-cli-mcp"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Dispatcher runs tool calls. *dispatcher.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, args map[string]any) dispatcher.Response
	InputSchema() json.RawMessage
}

// LogStreamer follows job logs. *logstream.Streamer implements it.
type LogStreamer interface {
	Stream(jobID string, sink logstream.Sink) (cancel func())
}

// Options configure a Server.
type Options struct {
	Host     string
	Port     int
	ToolName string
	Version  string
	// OnSetLevel is called with the level requested through logging/setLevel.
	OnSetLevel func(level string)
}

// Server is the transport layer.
type Server struct {
	opts       Options
	dispatcher Dispatcher
	streamer   LogStreamer
	health     *HealthProbe

	mcp        *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
}

// New builds the MCP server and registers the tool.
func New(opts Options, d Dispatcher, streamer LogStreamer, health *HealthProbe) *Server {
	s := &Server{
		opts:       opts,
		dispatcher: d,
		streamer:   streamer,
		health:     health,
	}

	hooks := &mcpserver.Hooks{}
	hooks.AddBeforeAny(func(ctx context.Context, id any, method mcp.MCPMethod, message any) {
		if method != mcp.MethodSetLogLevel {
			return
		}
		req, ok := message.(*mcp.SetLevelRequest)
		if !ok || s.opts.OnSetLevel == nil {
			return
		}
		s.opts.OnSetLevel(string(req.Params.Level))
	})

	s.mcp = mcpserver.NewMCPServer(
		ServerName,
		opts.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithLogging(),
		mcpserver.WithRecovery(),
		mcpserver.WithHooks(hooks),
	)

	tool := mcp.NewToolWithRawSchema(
		opts.ToolName,
		"Run a cloud CLI operation. Set action to choose the operation; subscriptionId and environmentId default to the values stored with set_context.",
		d.InputSchema(),
	)
	s.mcp.AddTool(tool, s.handleToolCall)

	s.streamable = mcpserver.NewStreamableHTTPServer(s.mcp, mcpserver.WithEndpointPath("/mcp"))
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

func (s *Server) handleToolCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok || args == nil {
		args = map[string]interface{}{}
	}

	resp := s.dispatcher.Dispatch(ctx, args)
	body, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(`{"ok":false,"error":{"code":"internal_error","message":%q}}`, err.Error())), nil
	}
	if !resp.OK {
		return mcp.NewToolResultError(string(body)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/mcp", s.legacyInvoke(s.streamable))
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws/logs", s.handleLogs).Methods(http.MethodGet)
	return r
}

// ServeHTTP listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ServeHTTP(ctx context.Context) error {
	addr := net.JoinHostPort(s.opts.Host, fmt.Sprint(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "Listening on http://%s (MCP endpoint /mcp)", ln.Addr())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("Server", "Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Server", "Graceful shutdown incomplete: %v", err)
		httpServer.Close()
	}
	return nil
}

// ServeStdio speaks MCP over in and out until ctx is cancelled or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	logging.Info("Server", "Serving MCP over stdio")
	err := mcpserver.NewStdioServer(s.mcp).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
