package dispatcher

import "context"

// accessTarget resolves the flags naming the resource of an access-control
// rule. Only the flags matching the resource type are emitted.
func (d *Dispatcher) accessTarget(p AccessTargetParams) ([]string, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	flags := []string{"--subscription", sub}

	switch p.ResourceType {
	case scopeEnvironment:
		env, err := d.environment(p.EnvironmentID)
		if err != nil {
			return nil, err
		}
		flags = append(flags, "--environment", env)
	case resourceApp:
		if p.AppID == "" {
			return nil, validationError([]Issue{{Path: "appId", Message: "is required when resourceType is app"}})
		}
		env, err := d.environment(p.EnvironmentID)
		if err != nil {
			return nil, err
		}
		flags = append(flags, "--environment", env, "--app", p.AppID)
	}
	return flags, nil
}

func accessControlShow(ctx context.Context, d *Dispatcher, p AccessTargetParams) (map[string]any, *ToolError) {
	target, err := d.accessTarget(p)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "accessControl", 0, append([]string{"access-control", "show"}, target...)...)
}

func accessControlAdd(ctx context.Context, d *Dispatcher, p accessControlAddParams) (map[string]any, *ToolError) {
	target, err := d.accessTarget(p.AccessTargetParams)
	if err != nil {
		return nil, err
	}
	args := append([]string{"access-control", "add", "--principal", p.PrincipalID, "--role", p.Role}, target...)
	return d.cliJSON(ctx, "result", 0, args...)
}

func accessControlRemove(ctx context.Context, d *Dispatcher, p accessControlRemoveParams) (map[string]any, *ToolError) {
	target, err := d.accessTarget(p.AccessTargetParams)
	if err != nil {
		return nil, err
	}
	args := []string{"access-control", "remove", "--principal", p.PrincipalID}
	if p.Role != "" {
		args = append(args, "--role", p.Role)
	}
	return d.cliJSON(ctx, "result", 0, append(args, target...)...)
}
