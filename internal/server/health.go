package server

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"cloud-cli-mcp/internal/dispatcher"
	"cloud-cli-mcp/internal/executor"
)

const healthTimeout = 15 * time.Second

// Health statuses.
const (
	HealthOK           = "ok"
	HealthAuthRequired = "auth_required"
	HealthError        = "error"
)

// HealthStatus is the body of /healthz and the result of the check command.
type HealthStatus struct {
	Status string                `json:"status"`
	Error  *dispatcher.ToolError `json:"error,omitempty"`
}

// HealthProbe checks that the CLI can be run and is signed in. Concurrent
// checks share one CLI run.
type HealthProbe struct {
	runner dispatcher.Runner
	group  singleflight.Group
}

// NewHealthProbe creates a probe that runs commands through runner.
func NewHealthProbe(runner dispatcher.Runner) *HealthProbe {
	return &HealthProbe{runner: runner}
}

// Check lists subscriptions, which needs a valid login but no context.
// The shared run is detached from the caller that started it, so one
// client going away does not fail the others waiting on it.
func (p *HealthProbe) Check(ctx context.Context) HealthStatus {
	v, _, _ := p.group.Do("health", func() (any, error) {
		return p.check(context.WithoutCancel(ctx)), nil
	})
	return v.(HealthStatus)
}

func (p *HealthProbe) check(ctx context.Context) HealthStatus {
	res := p.runner.Execute(ctx, []string{"subscription", "list", "-o", "json"}, executor.Options{Timeout: healthTimeout})
	if res.OK {
		return HealthStatus{Status: HealthOK}
	}
	status := HealthError
	if res.ErrorCode == executor.CodeAuthRequired {
		status = HealthAuthRequired
	}
	return HealthStatus{
		Status: status,
		Error:  &dispatcher.ToolError{Code: dispatcher.ErrorCode(res.ErrorCode), Message: res.ErrorMessage},
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.health.Check(r.Context())
	code := http.StatusOK
	if status.Status != HealthOK {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}
