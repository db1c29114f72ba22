package executor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Error codes produced by the executor.
const (
	CodeAuthRequired     = "auth_required"
	CodePermissionDenied = "permission_denied"
	CodeNotFound         = "not_found"
	CodeCommandFailed    = "command_failed"
	CodeTimeout          = "timeout"
	CodeSpawnError       = "spawn_error"
)

// ClassifyStderr maps CLI diagnostic text onto an error code and a message
// for the caller. Matching is a case-insensitive substring search against
// the wording of the current CLI; anything unrecognised is command_failed
// with the raw text.
func ClassifyStderr(binary, stderr string) (code, message string) {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "not logged in"),
		strings.Contains(lower, "login required"),
		strings.Contains(lower, "certificate"):
		return CodeAuthRequired, fmt.Sprintf("Authentication required. Run `%s auth login`.", filepath.Base(binary))
	case strings.Contains(lower, "permission"):
		return CodePermissionDenied, strings.TrimSpace(stderr)
	case strings.Contains(lower, "not found"):
		return CodeNotFound, strings.TrimSpace(stderr)
	default:
		return CodeCommandFailed, stderr
	}
}
