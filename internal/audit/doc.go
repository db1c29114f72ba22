// Package audit records every tool invocation.
//
// Logger keeps the most recent entries in a fixed-capacity ring and evicts
// the oldest once full. Arguments are redacted before they are stored, so
// secret values never reach the ring, the diagnostic log line or the
// optional SQLite store.
//
// A Writer can be attached to a Logger to persist entries to SQLite in the
// background. The ring stays the source for reads made through the tool; the
// store backs the audit command.
package audit
