package core

import (
	"errors"
	"fmt"
)

// ErrCancelled marks a run that failed because its context was cancelled.
var ErrCancelled = errors.New("run cancelled")

// ErrNotConverged marks a run that exceeded its configured dispatch limit
// without reaching quiescence.
var ErrNotConverged = errors.New("run did not converge within the dispatch limit")

// ConfigurationError reports invalid graph wiring or a programmer error such
// as invoking an undeclared operation. It is always fatal and, where
// possible, raised at build time before a run starts.
type ConfigurationError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// NewConfigurationError constructs a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// StepExecutionError wraps any failure raised inside a step operation,
// including capability errors. It is fatal to the run; the engine configures
// no retries.
type StepExecutionError struct {
	Step      string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %s operation %s failed: %v", e.Step, e.Operation, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *StepExecutionError) Unwrap() error { return e.Err }

// NewStepExecutionError wraps err with the failing step and operation.
func NewStepExecutionError(step, operation string, err error) *StepExecutionError {
	return &StepExecutionError{Step: step, Operation: operation, Err: err}
}
