package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"cloud-cli-mcp/internal/audit"
	"cloud-cli-mcp/internal/formatting"
)

type auditOptions struct {
	limit      int
	failedOnly bool
	output     string
	storePath  string
}

func newAuditCmd() *cobra.Command {
	opts := &auditOptions{}
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List persisted audit entries",
		Long: `Lists tool invocations recorded in the audit store, newest first.

Entries are only persisted when audit.storePath is set in the configuration
(or given with --store). Arguments are shown as recorded, with secret values
already redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 50, "Maximum number of entries")
	cmd.Flags().BoolVar(&opts.failedOnly, "failed", false, "Only show failed invocations")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "Audit database path (default audit.storePath)")
	return cmd
}

func runAudit(out io.Writer, opts *auditOptions) error {
	format, err := formatting.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	path := opts.storePath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Audit.StorePath
	}
	if path == "" {
		return errors.New("audit persistence is disabled; set audit.storePath or pass --store")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no audit store at %s: %w", path, err)
	}

	store, err := audit.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(audit.Query{Limit: opts.limit, FailedOnly: opts.failedOnly})
	if err != nil {
		return err
	}

	if format != formatting.FormatTable {
		if entries == nil {
			entries = []audit.Entry{}
		}
		return formatting.Write(out, format, entries)
	}
	writeAuditTable(out, entries)
	return nil
}

func writeAuditTable(out io.Writer, entries []audit.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, text.FgYellow.Sprint("No audit entries found"))
		return
	}

	t := formatting.NewTable(out)
	t.AppendHeader(formatting.Header("time", "action", "result", "duration", "error", "correlation id"))
	for _, e := range entries {
		result := text.FgGreen.Sprint("ok")
		errText := ""
		if !e.Success {
			result = text.FgRed.Sprint("failed")
			errText = fmt.Sprintf("%s: %s", e.ErrorCode, e.ErrorMessage)
		}
		t.AppendRow(table.Row{
			e.Timestamp.Local().Format(time.DateTime),
			e.Action,
			result,
			(time.Duration(e.DurationMs) * time.Millisecond).String(),
			formatting.Cell(errText),
			e.CorrelationID,
		})
	}
	t.Render()
}
