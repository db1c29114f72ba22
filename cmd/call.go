package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"cloud-cli-mcp/internal/client"
	"cloud-cli-mcp/internal/dispatcher"
	"cloud-cli-mcp/internal/formatting"
)

type callOptions struct {
	params   []string
	endpoint string
	toolName string
	output   string
	timeout  time.Duration
	quiet    bool
}

func newCallCmd() *cobra.Command {
	opts := &callOptions{}
	cmd := &cobra.Command{
		Use:   "call <action>",
		Short: "Invoke an action on a running server",
		Long: `Invokes one action of the cloud CLI tool on a running server over MCP,
exactly as an agent would. Parameters are given as key=value pairs; values
that parse as JSON keep their type.

Examples:
  cloud-cli-mcp call list_subscriptions
  cloud-cli-mcp call set_context -p subscriptionId=sub-1 -p environmentId=env-2
  cloud-cli-mcp call get_audit_logs -p limit=5 -o json

Note: the server must be running with the streamable-http transport
(use 'cloud-cli-mcp serve').`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "Action parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "MCP endpoint URL (default from configuration)")
	cmd.Flags().StringVar(&opts.toolName, "tool", "", "Tool name (default from configuration)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "Request timeout")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress non-essential output")
	return cmd
}

func runCall(ctx context.Context, out, errOut io.Writer, action string, opts *callOptions) error {
	format, err := formatting.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	args, err := client.BuildArguments(action, opts.params)
	if err != nil {
		return err
	}

	endpoint, toolName := opts.endpoint, opts.toolName
	if endpoint == "" || toolName == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if endpoint == "" {
			endpoint = fmt.Sprintf("http://%s:%d/mcp", cfg.Server.Host, cfg.Server.Port)
		}
		if toolName == "" {
			toolName = cfg.Server.ToolName
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := client.New(endpoint, toolName)
	c.SetTimeout(opts.timeout)
	defer c.Close()

	var s *spinner.Spinner
	if !opts.quiet && format == formatting.FormatTable {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut))
		s.Suffix = fmt.Sprintf(" Running %s...", action)
		s.Start()
	}
	resp, err := connectAndCall(ctx, c, args)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return fmt.Errorf("failed to call %s at %s: %w", toolName, endpoint, err)
	}

	if format != formatting.FormatTable {
		if err := formatting.Write(out, format, resp); err != nil {
			return err
		}
	} else if resp.OK {
		if err := formatting.Write(out, format, resp.Data); err != nil {
			return err
		}
	}

	if resp.OK {
		return nil
	}
	if resp.Error == nil {
		return fmt.Errorf("%s failed", action)
	}
	if format == formatting.FormatTable {
		printToolError(errOut, resp)
	}
	if resp.Error.Code == dispatcher.CodeAuthRequired {
		return &AuthRequiredError{Message: resp.Error.Message}
	}
	return fmt.Errorf("%s failed: %s", action, resp.Error.Code)
}

func connectAndCall(ctx context.Context, c *client.Client, args map[string]any) (dispatcher.Response, error) {
	if err := c.Connect(ctx); err != nil {
		return dispatcher.Response{}, err
	}
	ok, err := c.HasTool(ctx)
	if err != nil {
		return dispatcher.Response{}, err
	}
	if !ok {
		return dispatcher.Response{}, fmt.Errorf("server does not expose the tool")
	}
	return c.Call(ctx, args)
}

func printToolError(out io.Writer, resp dispatcher.Response) {
	fmt.Fprintf(out, "%s %s [%s]\n", text.FgRed.Sprint("✗"), resp.Error.Message, resp.Error.Code)
	if resp.Error.Detail != nil {
		fmt.Fprintln(out, formatting.PrettyJSON(resp.Error.Detail))
	}
	if resp.CorrelationID != "" {
		fmt.Fprintf(out, "correlation id: %s\n", resp.CorrelationID)
	}
}
