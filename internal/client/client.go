package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"cloud-cli-mcp/internal/dispatcher"
	"cloud-cli-mcp/pkg/logging"
)

// DefaultTimeout bounds a single request, including the CLI run on the
// server side. It matches the longest action ceiling plus some slack.
const DefaultTimeout = 11 * time.Minute

// ErrNotConnected is returned when Call is used before Connect.
var ErrNotConnected = errors.New("client not connected")

// Client is an MCP client bound to one server endpoint and tool.
type Client struct {
	endpoint string
	toolName string
	timeout  time.Duration

	mcp *mcpclient.Client
}

// New creates a client. endpoint is the full MCP URL, e.g.
// http://localhost:8090/mcp.
func New(endpoint, toolName string) *Client {
	return &Client{
		endpoint: endpoint,
		toolName: toolName,
		timeout:  DefaultTimeout,
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Connect starts the transport and performs the MCP handshake.
func (c *Client) Connect(ctx context.Context) error {
	httpClient, err := mcpclient.NewStreamableHttpClient(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to create streamable-http client: %w", err)
	}
	if err := httpClient.Start(ctx); err != nil {
		return fmt.Errorf("failed to start streamable-http client: %w", err)
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "cloud-cli-mcp", Version: "1.0.0"}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := httpClient.Initialize(timeoutCtx, req); err != nil {
		httpClient.Close()
		return fmt.Errorf("initialization failed: %w", err)
	}

	logging.Debug("Client", "Connected to %s", c.endpoint)
	c.mcp = httpClient
	return nil
}

// HasTool reports whether the server exposes the configured tool.
func (c *Client) HasTool(ctx context.Context) (bool, error) {
	if c.mcp == nil {
		return false, ErrNotConnected
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.mcp.ListTools(timeoutCtx, mcp.ListToolsRequest{})
	if err != nil {
		return false, fmt.Errorf("failed to list tools: %w", err)
	}
	for _, t := range res.Tools {
		if t.Name == c.toolName {
			return true, nil
		}
	}
	return false, nil
}

// Call invokes the tool with args and decodes the uniform response. A
// failed action is not an error here; inspect Response.OK.
func (c *Client) Call(ctx context.Context, args map[string]any) (dispatcher.Response, error) {
	if c.mcp == nil {
		return dispatcher.Response{}, ErrNotConnected
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = c.toolName
	req.Params.Arguments = args

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.mcp.CallTool(timeoutCtx, req)
	if err != nil {
		return dispatcher.Response{}, fmt.Errorf("tool call failed: %w", err)
	}

	var parts []string
	for _, content := range res.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	if len(parts) == 0 {
		return dispatcher.Response{}, errors.New("tool returned no text content")
	}

	var resp dispatcher.Response
	if err := json.Unmarshal([]byte(parts[0]), &resp); err != nil {
		return dispatcher.Response{}, fmt.Errorf("unexpected tool output %q: %w", strings.Join(parts, "\n"), err)
	}
	return resp, nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	if c.mcp == nil {
		return nil
	}
	err := c.mcp.Close()
	c.mcp = nil
	return err
}
