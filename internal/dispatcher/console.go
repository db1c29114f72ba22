package dispatcher

import (
	"context"

	"cloud-cli-mcp/internal/executor"
)

// console_output runs in two phases. establishContext points the CLI's own
// context at the subscription and environment, then invoke reads the app's
// console. A failed first phase is returned as-is and the second is skipped.

type consoleSession struct {
	d   *Dispatcher
	sub string
	env string
}

func (s consoleSession) establishContext(ctx context.Context) *ToolError {
	res := s.d.runner.Execute(ctx,
		[]string{"context", "set", "--subscription", s.sub, "--environment", s.env},
		executor.Options{RawOutput: true})
	if !res.OK {
		return execError(res)
	}
	return nil
}

func (s consoleSession) invoke(ctx context.Context, appID string) (map[string]any, *ToolError) {
	return s.d.cliJSON(ctx, "output", 0, "app", "console", "--app", appID)
}

func consoleOutput(ctx context.Context, d *Dispatcher, p appParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p.EnvironmentParams)
	if err != nil {
		return nil, err
	}
	session := consoleSession{d: d, sub: sub, env: env}
	if err := session.establishContext(ctx); err != nil {
		return nil, err
	}
	return session.invoke(ctx, p.AppID)
}
