package config

import (
	"fmt"
	"strings"

	"cloud-cli-mcp/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value interface{}) {
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(c.CLI.Binary) == "" {
		errs.Add("cli.binary", "is required", c.CLI.Binary)
	}
	if c.CLI.DefaultTimeout <= 0 {
		errs.Add("cli.defaultTimeout", "must be positive", c.CLI.DefaultTimeout)
	}
	if c.CLI.MaxConcurrent < 0 {
		errs.Add("cli.maxConcurrent", "must not be negative", c.CLI.MaxConcurrent)
	}

	switch c.Server.Transport {
	case MCPTransportStreamableHTTP, MCPTransportStdio:
	default:
		errs.Add("server.transport", fmt.Sprintf("must be %q or %q", MCPTransportStreamableHTTP, MCPTransportStdio), c.Server.Transport)
	}
	if c.Server.Transport != MCPTransportStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs.Add("server.port", "must be between 1 and 65535", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.ToolName) == "" {
		errs.Add("server.toolName", "is required", c.Server.ToolName)
	}

	if c.Audit.Capacity <= 0 {
		errs.Add("audit.capacity", "must be positive", c.Audit.Capacity)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.Add("logLevel", err.Error(), c.LogLevel)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
