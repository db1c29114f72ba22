// Package dispatcher turns cloud_cli tool calls into CLI invocations.
//
// A call names an action and carries that action's parameters. Dispatch
// validates the parameters against the action's declared shape, resolves the
// subscription and environment from the cloud context when they are omitted,
// runs the handler and always appends one audit entry, whatever the outcome.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"cloud-cli-mcp/internal/audit"
	"cloud-cli-mcp/internal/cloudctx"
	"cloud-cli-mcp/internal/executor"
	"cloud-cli-mcp/pkg/logging"
)

// Runner executes CLI commands. *executor.Executor implements it.
type Runner interface {
	Execute(ctx context.Context, args []string, opts executor.Options) executor.Result
}

// Response is the uniform result of a tool call.
type Response struct {
	OK            bool           `json:"ok"`
	Data          map[string]any `json:"data,omitempty"`
	Error         *ToolError     `json:"error,omitempty"`
	CorrelationID string         `json:"correlationId,omitempty"`
}

// Dispatcher validates and runs actions.
type Dispatcher struct {
	context  *cloudctx.Store
	audit    *audit.Logger
	runner   Runner
	registry *registry
	schema   json.RawMessage
	binary   string

	newID func() string
	now   func() time.Time
}

// New creates a dispatcher over the given context store, audit logger and
// runner. binary is the CLI name used in user-facing messages.
func New(store *cloudctx.Store, auditLog *audit.Logger, runner Runner, binary string) (*Dispatcher, error) {
	reg, err := newRegistry(actions())
	if err != nil {
		return nil, err
	}
	schema, err := reg.inputSchema()
	if err != nil {
		return nil, fmt.Errorf("building input schema: %w", err)
	}
	return &Dispatcher{
		context:  store,
		audit:    auditLog,
		runner:   runner,
		registry: reg,
		schema:   schema,
		binary:   binary,
		newID:    uuid.NewString,
		now:      time.Now,
	}, nil
}

// InputSchema returns the JSON Schema of the tool's arguments.
func (d *Dispatcher) InputSchema() json.RawMessage {
	return d.schema
}

// Actions returns the registered action names in declaration order.
func (d *Dispatcher) Actions() []string {
	return d.registry.names()
}

// Describe returns the description of an action.
func (d *Dispatcher) Describe(name string) (string, bool) {
	a, ok := d.registry.lookup(name)
	if !ok {
		return "", false
	}
	return a.Description(), true
}

// Dispatch validates args and runs the selected action. It never panics and
// never returns a Go error; every failure is a Response with OK false.
func (d *Dispatcher) Dispatch(ctx context.Context, args map[string]any) (resp Response) {
	correlationID := d.newID()
	started := d.now()
	actionName := "unknown"

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Dispatcher", fmt.Errorf("%v", r), "Action %s panicked [%s]\n%s", actionName, correlationID, debug.Stack())
			resp = Response{OK: false, Error: &ToolError{Code: CodeInternal, Message: fmt.Sprintf("Internal error: %v", r)}}
		}
		resp.CorrelationID = correlationID

		entry := audit.Entry{
			Timestamp:     started.UTC(),
			CorrelationID: correlationID,
			Action:        actionName,
			Args:          args,
			DurationMs:    d.now().Sub(started).Milliseconds(),
			Success:       resp.OK,
		}
		if resp.Error != nil {
			entry.ErrorCode = string(resp.Error.Code)
			entry.ErrorMessage = resp.Error.Message
			entry.ErrorDetail = resp.Error.Detail
		}
		d.audit.Log(entry)
	}()

	a, run, issues := d.validate(args)
	if len(issues) > 0 {
		logging.Debug("Dispatcher", "Rejected call [%s]: %v", correlationID, issues)
		return Response{OK: false, Error: validationError(issues)}
	}
	actionName = a.Name()

	logging.Debug("Dispatcher", "Running %s [%s]", actionName, correlationID)
	data, toolErr := run(ctx, d)
	if toolErr != nil {
		return Response{OK: false, Error: toolErr}
	}
	return Response{OK: true, Data: data}
}

func (d *Dispatcher) validate(args map[string]any) (action, call, []Issue) {
	rawAction, present := args["action"]
	if !present {
		return nil, nil, []Issue{{Path: "action", Message: "is required"}}
	}
	name, ok := rawAction.(string)
	if !ok {
		return nil, nil, []Issue{{Path: "action", Message: "must be a string"}}
	}
	a, ok := d.registry.lookup(name)
	if !ok {
		return nil, nil, []Issue{{Path: "action", Message: fmt.Sprintf("unknown action %q", name)}}
	}
	run, issues := a.bind(args)
	if len(issues) > 0 {
		return nil, nil, issues
	}
	return a, run, nil
}

func (d *Dispatcher) subscription(explicit string) (string, *ToolError) {
	if sub := d.context.Subscription(explicit); sub != "" {
		return sub, nil
	}
	return "", missingSubscription()
}

func (d *Dispatcher) environment(explicit string) (string, *ToolError) {
	if env := d.context.Environment(explicit); env != "" {
		return env, nil
	}
	return "", missingEnvironment()
}

// scope resolves both subscription and environment.
func (d *Dispatcher) scope(p EnvironmentParams) (sub, env string, err *ToolError) {
	if sub, err = d.subscription(p.SubscriptionID); err != nil {
		return "", "", err
	}
	if env, err = d.environment(p.EnvironmentID); err != nil {
		return "", "", err
	}
	return sub, env, nil
}
