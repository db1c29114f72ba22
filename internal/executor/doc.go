// Package executor runs the external cloud CLI.
//
// Every call spawns one child process with stdin closed, captures stdout and
// stderr in full and resolves exactly once: natural exit, timeout (the child
// is killed) or spawn failure. Non-zero exits are classified from stderr text
// into a small set of error codes by ClassifyStderr.
//
// The child inherits the server's environment. When the cloud context carries
// a CLI endpoint, the configured endpoint variable is overridden with it for
// every call.
package executor
