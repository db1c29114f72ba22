package dispatcher

import (
	"fmt"

	"cloud-cli-mcp/internal/executor"
)

// ErrorCode classifies a failed tool call.
type ErrorCode string

const (
	CodeValidation          ErrorCode = "validation_error"
	CodeMissingSubscription ErrorCode = "missing_subscription"
	CodeMissingEnvironment  ErrorCode = "missing_environment"
	CodeAuthRequired        ErrorCode = executor.CodeAuthRequired
	CodePermissionDenied    ErrorCode = executor.CodePermissionDenied
	CodeNotFound            ErrorCode = executor.CodeNotFound
	CodeCommandFailed       ErrorCode = executor.CodeCommandFailed
	CodeTimeout             ErrorCode = executor.CodeTimeout
	CodeSpawnError          ErrorCode = executor.CodeSpawnError
	CodeInternal            ErrorCode = "internal_error"
	CodeUnsupportedAction   ErrorCode = "unsupported_action"
)

// ToolError is the uniform error shape returned to callers.
type ToolError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Detail  any       `json:"detail,omitempty"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Issue is one validation problem. Path is the offending field, or "" for
// the payload as a whole.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func validationError(issues []Issue) *ToolError {
	msg := "Invalid arguments"
	if len(issues) == 1 {
		if issues[0].Path != "" {
			msg = fmt.Sprintf("Invalid arguments: %s %s", issues[0].Path, issues[0].Message)
		} else {
			msg = "Invalid arguments: " + issues[0].Message
		}
	}
	return &ToolError{Code: CodeValidation, Message: msg, Detail: issues}
}

func missingSubscription() *ToolError {
	return &ToolError{
		Code:    CodeMissingSubscription,
		Message: "No subscriptionId given and none set in context. Pass subscriptionId or call set_context first.",
	}
}

func missingEnvironment() *ToolError {
	return &ToolError{
		Code:    CodeMissingEnvironment,
		Message: "No environmentId given and none set in context. Pass environmentId or call set_context first.",
	}
}

func execError(res executor.Result) *ToolError {
	detail := map[string]any{"stderr": res.Stderr}
	if res.ExitCode != nil {
		detail["exitCode"] = *res.ExitCode
	}
	return &ToolError{
		Code:    ErrorCode(res.ErrorCode),
		Message: res.ErrorMessage,
		Detail:  detail,
	}
}
