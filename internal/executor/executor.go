package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"cloud-cli-mcp/internal/audit"
	"cloud-cli-mcp/pkg/logging"
)

// waitDelay bounds how long Wait keeps reading pipes after the child is
// killed, in case a grandchild still holds them open.
const waitDelay = 2 * time.Second

// Options tune a single Execute call.
type Options struct {
	// Timeout overrides the executor's default ceiling when positive.
	Timeout time.Duration
	// RawOutput disables JSON parsing of stdout.
	RawOutput bool
}

// Result describes one finished CLI run.
type Result struct {
	OK           bool   `json:"ok"`
	ExitCode     *int   `json:"exitCode"`
	Stdout       string `json:"stdout"`
	Stderr       string `json:"stderr"`
	JSON         any    `json:"json,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// EndpointSource supplies the CLI endpoint override. An empty string means
// no override.
type EndpointSource interface {
	Endpoint() string
}

// Config configures an Executor.
type Config struct {
	Binary         string
	EndpointEnvVar string
	DefaultTimeout time.Duration
	MaxConcurrent  int // 0 means unbounded
}

// Executor spawns the cloud CLI.
type Executor struct {
	binary         string
	endpointEnvVar string
	defaultTimeout atomic.Int64
	endpoint       EndpointSource
	sem            *semaphore.Weighted

	// commandFn builds the process; tests replace it with a helper process.
	commandFn func(name string, args ...string) *exec.Cmd
}

// New creates an executor. endpoint may be nil.
func New(cfg Config, endpoint EndpointSource) *Executor {
	e := &Executor{
		binary:         cfg.Binary,
		endpointEnvVar: cfg.EndpointEnvVar,
		endpoint:       endpoint,
		commandFn:      exec.Command,
	}
	if cfg.MaxConcurrent > 0 {
		e.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	e.SetDefaultTimeout(cfg.DefaultTimeout)
	return e
}

// SetDefaultTimeout changes the ceiling used by calls without their own.
// Non-positive values restore 60s.
func (e *Executor) SetDefaultTimeout(d time.Duration) {
	if d <= 0 {
		d = 60 * time.Second
	}
	e.defaultTimeout.Store(int64(d))
}

// DefaultTimeout returns the current default ceiling.
func (e *Executor) DefaultTimeout() time.Duration {
	return time.Duration(e.defaultTimeout.Load())
}

// Binary returns the configured CLI executable.
func (e *Executor) Binary() string {
	return e.binary
}

// Command prepares, but does not start, a CLI process with the executor's
// environment. stdin is left unset so the child reads from the null device.
func (e *Executor) Command(args []string) *exec.Cmd {
	cmd := e.commandFn(e.binary, args...)
	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	if e.endpoint != nil && e.endpointEnvVar != "" {
		if url := e.endpoint.Endpoint(); url != "" {
			env = append(env, e.endpointEnvVar+"="+url)
		}
	}
	cmd.Env = env
	cmd.Stdin = nil
	cmd.WaitDelay = waitDelay
	return cmd
}

// Execute runs the CLI with args and waits for it to finish, time out or be
// cancelled through ctx. Cancellation is reported as a timeout.
func (e *Executor) Execute(ctx context.Context, args []string, opts Options) Result {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.DefaultTimeout()
	}

	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			return Result{ErrorCode: CodeTimeout, ErrorMessage: "Cancelled while waiting for a free CLI slot"}
		}
		defer e.sem.Release(1)
	}

	cmd := e.Command(args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debug("Executor", "Running %s %s", e.binary, displayArgs(args))
	started := time.Now()

	if err := cmd.Start(); err != nil {
		logging.Warn("Executor", "Failed to start %s: %v", e.binary, err)
		return Result{ErrorCode: CodeSpawnError, ErrorMessage: err.Error()}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		logging.Debug("Executor", "%s %s finished in %s", e.binary, firstArgs(args), time.Since(started))
		return e.exitResult(err, stdout.String(), stderr.String(), opts)
	case <-timer.C:
		e.kill(cmd, done)
		logging.Warn("Executor", "%s %s timed out after %s", e.binary, firstArgs(args), timeout)
		return Result{
			Stdout:       stdout.String(),
			Stderr:       stderr.String(),
			ErrorCode:    CodeTimeout,
			ErrorMessage: fmt.Sprintf("Command timed out after %s", timeout),
		}
	case <-ctx.Done():
		e.kill(cmd, done)
		logging.Info("Executor", "%s %s cancelled by caller", e.binary, firstArgs(args))
		return Result{
			Stdout:       stdout.String(),
			Stderr:       stderr.String(),
			ErrorCode:    CodeTimeout,
			ErrorMessage: "Command cancelled before completion",
		}
	}
}

// kill terminates the child and waits for Wait to return so the output
// buffers are no longer written to. The exit status is discarded.
func (e *Executor) kill(cmd *exec.Cmd, done <-chan error) {
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		logging.Warn("Executor", "Failed to kill %s (pid %d): %v", e.binary, cmd.Process.Pid, err)
	}
	<-done
}

func (e *Executor) exitResult(waitErr error, stdout, stderr string, opts Options) Result {
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Result{Stdout: stdout, Stderr: stderr, ErrorCode: CodeCommandFailed, ErrorMessage: waitErr.Error()}
		}
		code := exitErr.ExitCode()
		errCode, message := ClassifyStderr(e.binary, stderr)
		if errCode == CodeCommandFailed && strings.TrimSpace(message) == "" {
			message = fmt.Sprintf("Command exited with code %d", code)
		}
		return Result{
			ExitCode:     &code,
			Stdout:       stdout,
			Stderr:       stderr,
			ErrorCode:    errCode,
			ErrorMessage: message,
		}
	}

	zero := 0
	res := Result{OK: true, ExitCode: &zero, Stdout: stdout, Stderr: stderr}
	if !opts.RawOutput {
		trimmed := strings.TrimSpace(stdout)
		if trimmed != "" {
			var parsed any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				res.JSON = parsed
			}
		}
	}
	return res
}

// displayArgs renders argv for logging with the value of every sensitive
// flag (--value, --password, ...) replaced.
func displayArgs(args []string) string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		name, ok := strings.CutPrefix(out[i], "--")
		if !ok {
			continue
		}
		if flag, _, inline := strings.Cut(name, "="); inline {
			if audit.IsSensitiveKey(flag) {
				out[i] = "--" + flag + "=" + audit.RedactedValue
			}
			continue
		}
		if audit.IsSensitiveKey(name) && i+1 < len(out) {
			out[i+1] = audit.RedactedValue
			i++
		}
	}
	return strings.Join(out, " ")
}

func firstArgs(args []string) string {
	if len(args) > 2 {
		args = args[:2]
	}
	return strings.Join(args, " ")
}
