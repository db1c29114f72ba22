package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloud-cli-mcp/internal/audit"
	"cloud-cli-mcp/internal/cloudctx"
	"cloud-cli-mcp/internal/executor"
	"cloud-cli-mcp/pkg/logging"
)

type runCall struct {
	args []string
	opts executor.Options
}

// fakeRunner records invocations and answers from a script keyed by the
// first two arguments.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []runCall
	results map[string]executor.Result
	panics  bool
}

func (f *fakeRunner) Execute(_ context.Context, args []string, opts executor.Options) executor.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, runCall{args: append([]string(nil), args...), opts: opts})
	if f.panics {
		panic("runner exploded")
	}
	key := args[0]
	if len(args) > 1 {
		key += " " + args[1]
	}
	if res, ok := f.results[key]; ok {
		return res
	}
	zero := 0
	return executor.Result{OK: true, ExitCode: &zero, Stdout: `{"ok":true}`, JSON: map[string]any{"ok": true}}
}

func (f *fakeRunner) argv() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.args
	}
	return out
}

type fixture struct {
	d      *Dispatcher
	runner *fakeRunner
	store  *cloudctx.Store
	audit  *audit.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		runner: &fakeRunner{results: map[string]executor.Result{}},
		store:  cloudctx.NewStore(),
		audit:  audit.NewLogger(audit.DefaultCapacity, nil),
	}
	d, err := New(f.store, f.audit, f.runner, "litium-cloud")
	require.NoError(t, err)
	f.d = d
	return f
}

func (f *fixture) call(action string, kv ...any) Response {
	args := map[string]any{"action": action}
	for i := 0; i+1 < len(kv); i += 2 {
		args[kv[i].(string)] = kv[i+1]
	}
	return f.d.Dispatch(context.Background(), args)
}

func TestListEnvironments_UsesContextSubscription(t *testing.T) {
	f := newFixture(t)

	resp := f.call("set_context", "subscriptionId", "sub-1")
	require.True(t, resp.OK)

	resp = f.call("list_environments")
	require.True(t, resp.OK, "error: %+v", resp.Error)

	require.Len(t, f.runner.argv(), 1)
	assert.Equal(t, []string{"environment", "list", "--subscription", "sub-1", "-o", "json"}, f.runner.argv()[0])
	assert.Equal(t, map[string]any{"ok": true}, resp.Data["environments"])
}

func TestDeployApp_MissingSubscription(t *testing.T) {
	f := newFixture(t)

	resp := f.call("deploy_app", "appId", "app1", "artifactId", "art1")

	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMissingSubscription, resp.Error.Code)
	assert.Empty(t, f.runner.argv())
}

func TestListSubscriptions_AuthFailureIsSurfaced(t *testing.T) {
	f := newFixture(t)
	one := 1
	f.runner.results["subscription list"] = executor.Result{
		ExitCode:     &one,
		Stderr:       "Error: not logged in",
		ErrorCode:    executor.CodeAuthRequired,
		ErrorMessage: "Authentication required. Run `litium-cloud auth login`.",
	}

	resp := f.call("list_subscriptions")

	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeAuthRequired, resp.Error.Code)
	assert.Equal(t, "Authentication required. Run `litium-cloud auth login`.", resp.Error.Message)
	assert.Equal(t, map[string]any{"stderr": "Error: not logged in", "exitCode": 1}, resp.Error.Detail)
}

func TestGetAuditLogs_ReturnsRecentEntries(t *testing.T) {
	f := newFixture(t)
	ids := []string{"id-1", "id-2", "id-3", "id-4"}
	var n int
	f.d.newID = func() string { n++; return ids[n-1] }

	for i := 0; i < 3; i++ {
		require.True(t, f.call("show_context").OK)
	}

	resp := f.call("get_audit_logs", "limit", 2)
	require.True(t, resp.OK)

	logs := resp.Data["logs"].([]audit.Entry)
	require.Len(t, logs, 2)
	assert.Equal(t, "id-2", logs[0].CorrelationID)
	assert.Equal(t, "id-3", logs[1].CorrelationID)
}

func TestGetAuditLogs_DefaultLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 60; i++ {
		f.call("show_context")
	}
	resp := f.call("get_audit_logs")
	require.True(t, resp.OK)
	assert.Len(t, resp.Data["logs"], 50)
}

func TestContextFallback_ExplicitWins(t *testing.T) {
	f := newFixture(t)
	f.call("set_context", "subscriptionId", "S1")

	f.call("list_artifacts")
	f.call("list_artifacts", "subscriptionId", "S2")

	argv := f.runner.argv()
	require.Len(t, argv, 2)
	assert.Equal(t, []string{"artifact", "list", "--subscription", "S1", "-o", "json"}, argv[0])
	assert.Equal(t, []string{"artifact", "list", "--subscription", "S2", "-o", "json"}, argv[1])
}

func TestSetContext_PartialMerge(t *testing.T) {
	f := newFixture(t)

	f.call("set_context", "subscriptionId", "S1", "environmentId", "E1")
	resp := f.call("set_context", "cliUrl", "https://api.example")
	require.True(t, resp.OK)

	assert.Equal(t, cloudctx.CloudContext{SubscriptionID: "S1", EnvironmentID: "E1", CLIURL: "https://api.example"}, resp.Data["context"])
	assert.Equal(t, resp.Data["context"], f.call("show_context").Data["context"])
}

func TestValidationGate(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		path string
	}{
		{"missing action", map[string]any{}, "action"},
		{"non-string action", map[string]any{"action": 7}, "action"},
		{"unknown action", map[string]any{"action": "delete_everything"}, "action"},
		{"missing required field", map[string]any{"action": "deploy_app", "appId": "a"}, "artifactId"},
		{"empty required field", map[string]any{"action": "show_job", "jobId": ""}, "jobId"},
		{"wrong type", map[string]any{"action": "show_app", "appId": 42}, "appId"},
		{"enum violation", map[string]any{"action": "secret_list", "scope": "global"}, "scope"},
		{"below minimum", map[string]any{"action": "get_audit_logs", "limit": 0}, "limit"},
		{"above maximum", map[string]any{"action": "get_audit_logs", "limit": 1001}, "limit"},
		{"fractional integer", map[string]any{"action": "get_audit_logs", "limit": 2.5}, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			resp := f.d.Dispatch(context.Background(), tt.args)

			assert.False(t, resp.OK)
			require.NotNil(t, resp.Error)
			assert.Equal(t, CodeValidation, resp.Error.Code)
			issues, ok := resp.Error.Detail.([]Issue)
			require.True(t, ok)
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.path, issues[0].Path)
			assert.Empty(t, f.runner.argv(), "no subprocess may be spawned")

			entries := f.audit.GetRecent(10)
			require.Len(t, entries, 1)
			assert.Equal(t, "unknown", entries[0].Action)
			assert.Equal(t, string(CodeValidation), entries[0].ErrorCode)
		})
	}
}

func TestValidation_FieldNamesMatchCaseInsensitively(t *testing.T) {
	f := newFixture(t)

	resp := f.call("show_job", "JOBID", "j1", "subscriptionId", "S1")
	require.True(t, resp.OK, "%+v", resp.Error)
	assert.Equal(t, []string{"job", "show", "--job", "j1", "--subscription", "S1", "-o", "json"}, f.runner.argv()[0])

	resp = f.call("get_audit_logs", "LIMIT", 0)
	require.False(t, resp.OK)
	issues, ok := resp.Error.Detail.([]Issue)
	require.True(t, ok)
	require.Len(t, issues, 1)
	assert.Equal(t, "limit", issues[0].Path)
}

func TestValidation_IgnoresUnknownFields(t *testing.T) {
	f := newFixture(t)
	resp := f.call("list_subscriptions", "verbose", true)
	assert.True(t, resp.OK)
}

func TestAuditAlwaysRecorded(t *testing.T) {
	f := newFixture(t)
	f.runner.results["app list"] = executor.Result{ErrorCode: executor.CodeTimeout, ErrorMessage: "Command timed out after 1m0s"}

	f.call("show_context")                                           // success, no CLI
	f.call("list_subscriptions")                                     // success, CLI
	f.call("list_jobs")                                              // local failure
	f.call("list_apps", "subscriptionId", "s", "environmentId", "e") // subprocess failure
	f.call("nope")                                                   // validation failure

	entries := f.audit.GetRecent(100)
	require.Len(t, entries, 5)
	assert.Equal(t, []bool{true, true, false, false, false},
		[]bool{entries[0].Success, entries[1].Success, entries[2].Success, entries[3].Success, entries[4].Success})
	assert.Equal(t, "list_jobs", entries[2].Action)
	assert.Equal(t, string(CodeMissingSubscription), entries[2].ErrorCode)
	assert.Equal(t, string(CodeTimeout), entries[3].ErrorCode)
	for _, e := range entries {
		assert.NotEmpty(t, e.CorrelationID)
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	f := newFixture(t)
	f.runner.panics = true

	resp := f.call("list_subscriptions")

	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternal, resp.Error.Code)
	assert.NotEmpty(t, resp.CorrelationID)

	entries := f.audit.GetRecent(10)
	require.Len(t, entries, 1)
	assert.Equal(t, "list_subscriptions", entries[0].Action)
	assert.Equal(t, string(CodeInternal), entries[0].ErrorCode)
	assert.Equal(t, resp.CorrelationID, entries[0].CorrelationID)
}

func TestSecretValuesAreRedacted(t *testing.T) {
	f := newFixture(t)
	f.store.Set(cloudctx.Update{SubscriptionID: strPtr("S1")})

	ok := f.call("secret_create", "scope", "subscription", "name", "DB", "value", "hunter2")
	require.True(t, ok.OK)

	f.runner.results["secret create"] = executor.Result{ErrorCode: executor.CodeCommandFailed, ErrorMessage: "boom"}
	failed := f.call("secret_create", "scope", "subscription", "name", "DB", "value", "hunter2")
	require.False(t, failed.OK)

	for _, e := range f.audit.GetRecent(10) {
		assert.Equal(t, audit.RedactedValue, e.Args["value"])
		assert.Equal(t, "DB", e.Args["name"])
	}

	// The CLI itself still receives the real value.
	assert.Contains(t, f.runner.argv()[0], "hunter2")
}

func TestSecretCreate_ValueNeverLogged(t *testing.T) {
	binary, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &buf)
	t.Cleanup(func() { logging.InitForCLI(logging.LevelInfo, os.Stderr) })

	store := cloudctx.NewStore()
	runner := executor.New(executor.Config{Binary: binary, DefaultTimeout: 10 * time.Second}, store)
	d, err := New(store, audit.NewLogger(audit.DefaultCapacity, nil), runner, binary)
	require.NoError(t, err)

	resp := d.Dispatch(context.Background(), map[string]any{
		"action":         "secret_create",
		"scope":          "subscription",
		"subscriptionId": "s1",
		"name":           "db",
		"value":          "hunter2-TOPSECRET",
	})
	require.True(t, resp.OK, "%+v", resp.Error)

	out := buf.String()
	assert.Contains(t, out, "secret create --name db --value [REDACTED]")
	assert.NotContains(t, out, "hunter2-TOPSECRET")
}

func TestCorrelationIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id := f.call("show_context").CorrelationID
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestResponseJSONShape(t *testing.T) {
	f := newFixture(t)

	b, err := json.Marshal(f.call("deploy_app", "appId", "a", "artifactId", "x"))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, false, m["ok"])
	assert.NotContains(t, m, "data")
	assert.Equal(t, "missing_subscription", m["error"].(map[string]any)["code"])
}

func TestDurationIsRecorded(t *testing.T) {
	f := newFixture(t)
	base := time.Unix(1000, 0)
	times := []time.Time{base, base.Add(1500 * time.Millisecond)}
	f.d.now = func() time.Time { t := times[0]; times = times[1:]; return t }

	f.call("show_context")

	e := f.audit.GetRecent(1)[0]
	assert.Equal(t, int64(1500), e.DurationMs)
	assert.True(t, base.UTC().Equal(e.Timestamp))
}

func strPtr(s string) *string { return &s }

func TestConcurrentDispatch(t *testing.T) {
	f := newFixture(t)
	f.store.Set(cloudctx.Update{SubscriptionID: strPtr("S")})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := f.call("show_job", "jobId", fmt.Sprintf("job-%d", i))
			assert.True(t, resp.OK)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, f.audit.Len())
	assert.Len(t, f.runner.argv(), 50)
}
