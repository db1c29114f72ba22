package dispatcher

import (
	"context"
	"strconv"

	"cloud-cli-mcp/internal/cloudctx"
)

const defaultAuditLimit = 50

// actions lists every action the tool accepts, in the order they appear in
// the schema.
func actions() []action {
	return []action{
		define("set_context", "Set the default subscription, environment or CLI endpoint for later calls", setContext),
		define("show_context", "Show the current default subscription, environment and CLI endpoint", showContext),
		define("get_audit_logs", "Return the most recent tool calls, oldest first", getAuditLogs),

		define("auth_status", "Show the signed-in account", authStatus),

		define("list_subscriptions", "List subscriptions", listSubscriptions),
		define("show_subscription", "Show one subscription", showSubscription),

		define("list_environments", "List environments in a subscription", listEnvironments),
		define("show_environment", "Show one environment", showEnvironment),
		define("create_environment", "Create an environment", createEnvironment),

		define("list_apps", "List apps in an environment", listApps),
		define("show_app", "Show one app", showApp),
		define("deploy_app", "Deploy an artifact to an app", deployApp),
		define("restart_app", "Restart an app", restartApp),
		define("app_logs", "Fetch recent log lines of an app", appLogs),

		define("list_artifacts", "List uploaded artifacts", listArtifacts),
		define("create_artifact", "Upload a local package as an artifact", createArtifact),

		define("list_jobs", "List jobs in an environment", listJobs),
		define("show_job", "Show one job", showJob),
		define("job_logs", "Fetch the log of a job", jobLogs),

		define("apply_manifest", "Apply a manifest file to an environment", applyManifest),

		define("secret_list", "List secrets of a subscription or environment", secretList),
		define("secret_create", "Create a secret", secretCreate),
		define("secret_delete", "Delete a secret", secretDelete),

		define("service_principal_list", "List service principals", servicePrincipalList),
		define("service_principal_create", "Create a service principal", servicePrincipalCreate),

		define("access_control_show", "Show access-control rules of a resource", accessControlShow),
		define("access_control_add", "Grant a role on a resource", accessControlAdd),
		define("access_control_remove", "Revoke a role on a resource", accessControlRemove),

		define("console_output", "Show the console output of an app", consoleOutput),
	}
}

func setContext(_ context.Context, d *Dispatcher, p setContextParams) (map[string]any, *ToolError) {
	snapshot := d.context.Set(cloudctx.Update{
		SubscriptionID: p.SubscriptionID,
		EnvironmentID:  p.EnvironmentID,
		CLIURL:         p.CLIURL,
	})
	return map[string]any{"context": snapshot}, nil
}

func showContext(_ context.Context, d *Dispatcher, _ noParams) (map[string]any, *ToolError) {
	return map[string]any{"context": d.context.Get()}, nil
}

func getAuditLogs(_ context.Context, d *Dispatcher, p auditLogsParams) (map[string]any, *ToolError) {
	limit := defaultAuditLimit
	if p.Limit != nil {
		limit = *p.Limit
	}
	return map[string]any{"logs": d.audit.GetRecent(limit)}, nil
}

func authStatus(ctx context.Context, d *Dispatcher, _ noParams) (map[string]any, *ToolError) {
	return d.cliJSON(ctx, "account", 0, "auth", "status")
}

func listSubscriptions(ctx context.Context, d *Dispatcher, _ noParams) (map[string]any, *ToolError) {
	return d.cliJSON(ctx, "subscriptions", 0, "subscription", "list")
}

func showSubscription(ctx context.Context, d *Dispatcher, p SubscriptionParam) (map[string]any, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "subscription", 0, "subscription", "show", "--subscription", sub)
}

func listEnvironments(ctx context.Context, d *Dispatcher, p SubscriptionParam) (map[string]any, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "environments", 0, "environment", "list", "--subscription", sub)
}

func showEnvironment(ctx context.Context, d *Dispatcher, p EnvironmentParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "environment", 0, "environment", "show", "--subscription", sub, "--environment", env)
}

func createEnvironment(ctx context.Context, d *Dispatcher, p createEnvironmentParams) (map[string]any, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	args := []string{"environment", "create", "--name", p.Name}
	if p.Type != "" {
		args = append(args, "--type", p.Type)
	}
	args = append(args, "--subscription", sub)
	return d.cliJSON(ctx, "environment", longTimeout, args...)
}

func listApps(ctx context.Context, d *Dispatcher, p EnvironmentParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "apps", 0, "app", "list", "--subscription", sub, "--environment", env)
}

func showApp(ctx context.Context, d *Dispatcher, p appParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p.EnvironmentParams)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "app", 0, "app", "show", "--app", p.AppID, "--subscription", sub, "--environment", env)
}

func deployApp(ctx context.Context, d *Dispatcher, p deployAppParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p.EnvironmentParams)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "deployment", longTimeout,
		"app", "deploy", "--app", p.AppID, "--artifact", p.ArtifactID, "--subscription", sub, "--environment", env)
}

func restartApp(ctx context.Context, d *Dispatcher, p appParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p.EnvironmentParams)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "result", longTimeout, "app", "restart", "--app", p.AppID, "--subscription", sub, "--environment", env)
}

func appLogs(ctx context.Context, d *Dispatcher, p appLogsParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p.EnvironmentParams)
	if err != nil {
		return nil, err
	}
	args := []string{"app", "logs", "--app", p.AppID, "--subscription", sub, "--environment", env}
	if p.Tail != nil {
		args = append(args, "--tail", strconv.Itoa(*p.Tail))
	}
	return d.cliLines(ctx, "lines", 0, args...)
}

func listArtifacts(ctx context.Context, d *Dispatcher, p SubscriptionParam) (map[string]any, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "artifacts", 0, "artifact", "list", "--subscription", sub)
}

func createArtifact(ctx context.Context, d *Dispatcher, p createArtifactParams) (map[string]any, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	args := []string{"artifact", "create", "--path", p.Path}
	if p.Name != "" {
		args = append(args, "--name", p.Name)
	}
	args = append(args, "--subscription", sub)
	return d.cliJSON(ctx, "artifact", extendedTimeout, args...)
}

func listJobs(ctx context.Context, d *Dispatcher, p EnvironmentParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "jobs", 0, "job", "list", "--subscription", sub, "--environment", env)
}

func showJob(ctx context.Context, d *Dispatcher, p showJobParams) (map[string]any, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "job", 0, "job", "show", "--job", p.JobID, "--subscription", sub)
}

func jobLogs(ctx context.Context, d *Dispatcher, p jobLogsParams) (map[string]any, *ToolError) {
	return d.cliLines(ctx, "lines", 0, "job", "logs", "--job", p.JobID)
}

func applyManifest(ctx context.Context, d *Dispatcher, p applyManifestParams) (map[string]any, *ToolError) {
	sub, env, err := d.scope(p.EnvironmentParams)
	if err != nil {
		return nil, err
	}
	args := []string{"apply", "--file", p.Path}
	if p.DryRun {
		args = append(args, "--dry-run")
	}
	args = append(args, "--subscription", sub, "--environment", env)
	return d.cliJSON(ctx, "result", extendedTimeout, args...)
}

func servicePrincipalList(ctx context.Context, d *Dispatcher, p SubscriptionParam) (map[string]any, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	return d.cliJSON(ctx, "servicePrincipals", 0, "service-principal", "list", "--subscription", sub)
}

func servicePrincipalCreate(ctx context.Context, d *Dispatcher, p servicePrincipalCreateParams) (map[string]any, *ToolError) {
	sub, err := d.subscription(p.SubscriptionID)
	if err != nil {
		return nil, err
	}
	args := []string{"service-principal", "create", "--name", p.Name}
	if p.Role != "" {
		args = append(args, "--role", p.Role)
	}
	args = append(args, "--subscription", sub)
	return d.cliJSON(ctx, "servicePrincipal", 0, args...)
}
