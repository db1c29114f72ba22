package config

import (
	"fmt"
	"path/filepath"
)

// ConfigurationError is returned when config.yaml exists but cannot be used.
type ConfigurationError struct {
	FilePath  string `json:"filePath"`
	ErrorType string `json:"errorType"` // parse or validation
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", ce.ErrorType, filepath.Base(ce.FilePath), ce.Message)
	if ce.Details != "" {
		msg += " (" + ce.Details + ")"
	}
	return msg
}
