package dispatcher

import (
	"context"
	"fmt"
)

// handler runs one validated action. It returns the data object placed under
// the response's data field.
type handler[P any] func(ctx context.Context, d *Dispatcher, p P) (map[string]any, *ToolError)

// action is the type-erased view of a registered action.
type action interface {
	Name() string
	Description() string
	// paramsPrototype returns a pointer to the zero params value for schema reflection.
	paramsPrototype() any
	// bind decodes and validates raw params and returns the ready-to-run call.
	bind(raw map[string]any) (call, []Issue)
}

type call func(ctx context.Context, d *Dispatcher) (map[string]any, *ToolError)

type typedAction[P any] struct {
	name        string
	description string
	handle      handler[P]
}

func define[P any](name, description string, h func(context.Context, *Dispatcher, P) (map[string]any, *ToolError)) action {
	return &typedAction[P]{name: name, description: description, handle: h}
}

func (a *typedAction[P]) Name() string        { return a.name }
func (a *typedAction[P]) Description() string { return a.description }

func (a *typedAction[P]) paramsPrototype() any {
	var p P
	return &p
}

func (a *typedAction[P]) bind(raw map[string]any) (call, []Issue) {
	var p P
	if issues := decodeParams(raw, &p); len(issues) > 0 {
		return nil, issues
	}
	if a.handle == nil {
		return func(context.Context, *Dispatcher) (map[string]any, *ToolError) {
			return nil, &ToolError{
				Code:    CodeUnsupportedAction,
				Message: fmt.Sprintf("Action %q is declared but has no handler", a.name),
			}
		}, nil
	}
	return func(ctx context.Context, d *Dispatcher) (map[string]any, *ToolError) {
		return a.handle(ctx, d, p)
	}, nil
}

// registry maps action names to actions and keeps declaration order for the
// schema.
type registry struct {
	order  []action
	byName map[string]action
}

func newRegistry(actions []action) (*registry, error) {
	r := &registry{byName: make(map[string]action, len(actions))}
	for _, a := range actions {
		if a == nil || a.Name() == "" {
			return nil, fmt.Errorf("action registry contains an unnamed entry")
		}
		if _, dup := r.byName[a.Name()]; dup {
			return nil, fmt.Errorf("action %q registered twice", a.Name())
		}
		if ta, ok := a.(interface{ hasHandler() bool }); ok && !ta.hasHandler() {
			return nil, fmt.Errorf("action %q has no handler", a.Name())
		}
		r.byName[a.Name()] = a
		r.order = append(r.order, a)
	}
	return r, nil
}

func (a *typedAction[P]) hasHandler() bool { return a.handle != nil }

func (r *registry) lookup(name string) (action, bool) {
	a, ok := r.byName[name]
	return a, ok
}

func (r *registry) names() []string {
	out := make([]string, len(r.order))
	for i, a := range r.order {
		out[i] = a.Name()
	}
	return out
}
