package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"cloud-cli-mcp/internal/cloudctx"
	"cloud-cli-mcp/internal/executor"
	"cloud-cli-mcp/internal/formatting"
	"cloud-cli-mcp/internal/server"
)

type checkOptions struct {
	output string
	quiet  bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the cloud CLI is installed and signed in",
		Long: `Runs the same probe as the server's /healthz endpoint: a subscription
listing through the configured cloud CLI. No server needs to be running.

Exit codes:
  0  the CLI works and is signed in
  1  the CLI failed for another reason
  2  authentication is required`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress non-essential output")
	return cmd
}

func runCheck(ctx context.Context, out, errOut io.Writer, opts *checkOptions) error {
	format, err := formatting.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runner := executor.New(executor.Config{
		Binary:         cfg.CLI.Binary,
		EndpointEnvVar: cfg.CLI.EndpointEnvVar,
		DefaultTimeout: cfg.CLI.DefaultTimeout,
	}, cloudctx.NewStore())

	var s *spinner.Spinner
	if !opts.quiet && format == formatting.FormatTable {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut))
		s.Suffix = fmt.Sprintf(" Checking %s...", cfg.CLI.Binary)
		s.Start()
	}
	status := server.NewHealthProbe(runner).Check(ctx)
	if s != nil {
		s.Stop()
	}

	if format != formatting.FormatTable {
		if err := formatting.Write(out, format, status); err != nil {
			return err
		}
	} else {
		printCheckStatus(out, cfg.CLI.Binary, status)
	}

	switch status.Status {
	case server.HealthOK:
		return nil
	case server.HealthAuthRequired:
		return &AuthRequiredError{Message: status.Error.Message}
	default:
		return fmt.Errorf("%s check failed: %s", cfg.CLI.Binary, status.Error.Message)
	}
}

func printCheckStatus(out io.Writer, binary string, status server.HealthStatus) {
	switch status.Status {
	case server.HealthOK:
		fmt.Fprintf(out, "%s %s is ready\n", text.FgGreen.Sprint("✓"), binary)
	case server.HealthAuthRequired:
		fmt.Fprintf(out, "%s %s\n", text.FgYellow.Sprint("!"), status.Error.Message)
	default:
		fmt.Fprintf(out, "%s %s [%s]\n", text.FgRed.Sprint("✗"), status.Error.Message, status.Error.Code)
	}
}
