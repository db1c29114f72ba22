package dispatcher

import "context"

// secretTarget resolves the CLI flags that select where a secret lives.
// Environment scope needs a resolved environment; subscription scope ignores
// any environment given.
func (d *Dispatcher) secretTarget(p SecretScopeParams) ([]string, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	flags := []string{"--subscription", sub}
	if p.Scope == scopeEnvironment {
		env := d.context.Environment(p.EnvironmentID)
		if env == "" {
			return nil, missingEnvironment()
		}
		flags = append(flags, "--environment", env)
	}
	return flags, nil
}

func secretList(ctx context.Context, d *Dispatcher, p SecretScopeParams) (map[string]any, *ToolError) {
	target, err := d.secretTarget(p)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "secrets", 0, append([]string{"secret", "list"}, target...)...)
}

func secretCreate(ctx context.Context, d *Dispatcher, p secretCreateParams) (map[string]any, *ToolError) {
	target, err := d.secretTarget(p.SecretScopeParams)
	if err != nil {
		return nil, err
	}
	args := append([]string{"secret", "create", "--name", p.Name, "--value", p.Value}, target...)
	return d.cliJSON(ctx, "secret", 0, args...)
}

func secretDelete(ctx context.Context, d *Dispatcher, p secretDeleteParams) (map[string]any, *ToolError) {
	target, err := d.secretTarget(p.SecretScopeParams)
	if err != nil {
		return nil, err
	}
	args := append([]string{"secret", "delete", "--name", p.Name}, target...)
	return d.cliJSON(ctx, "result", 0, args...)
}
