package dispatcher

import (
	"context"
	"strings"
	"time"

	"cloud-cli-mcp/internal/executor"
)

// Per-action ceilings. Zero means the executor's default.
const (
	longTimeout     = 120 * time.Second
	extendedTimeout = 600 * time.Second
)

// cliJSON runs args with "-o json" and places the parsed output (or the
// trimmed text when the CLI printed something else) under field.
func (d *Dispatcher) cliJSON(ctx context.Context, field string, timeout time.Duration, args ...string) (map[string]any, *ToolError) {
	res := d.runner.Execute(ctx, append(args, "-o", "json"), executor.Options{Timeout: timeout})
	if !res.OK {
		return nil, execError(res)
	}
	return map[string]any{field: jsonOrText(res)}, nil
}

// cliLines runs args and returns stdout split into lines under field.
func (d *Dispatcher) cliLines(ctx context.Context, field string, timeout time.Duration, args ...string) (map[string]any, *ToolError) {
	res := d.runner.Execute(ctx, args, executor.Options{Timeout: timeout, RawOutput: true})
	if !res.OK {
		return nil, execError(res)
	}
	return map[string]any{field: splitLines(res.Stdout)}, nil
}

func jsonOrText(res executor.Result) any {
	if res.JSON != nil {
		return res.JSON
	}
	return strings.TrimSpace(res.Stdout)
}

// splitLines drops trailing empty lines; blank lines in between are kept.
func splitLines(s string) []string {
	s = strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
