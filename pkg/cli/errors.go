package cli

import (
	"errors"
	"fmt"

	"mercator-hq/unifiedllm/pkg/providers"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitCredential = 3
	ExitTransport  = 4
	ExitAPI        = 5
	ExitParse      = 6
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to a process exit status. Provider errors are found
// through any wrapping, including CommandError.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitUsage
	}

	switch providers.KindOf(err) {
	case providers.KindConfig, providers.KindValidation:
		return ExitUsage
	case providers.KindMissingCredential:
		return ExitCredential
	case providers.KindTransport:
		return ExitTransport
	case providers.KindAPI:
		return ExitAPI
	case providers.KindParse:
		return ExitParse
	default:
		return ExitFailure
	}
}
