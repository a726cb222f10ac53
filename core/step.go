package core

import "fmt"

// OperationSpec declares a named operation exposed by a step together with
// the parameter names it accepts. The builder validates every binding against
// these declarations before a run starts.
type OperationSpec struct {
	Name       string   `json:"name"`
	Parameters []string `json:"parameters,omitempty"`
}

// Params carries the named arguments routed into an operation invocation.
type Params map[string]any

// Get returns the raw value for key and whether it was present.
func (p Params) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// String returns the value for key rendered as a string. Missing keys render
// as the empty string; non-string values use their default formatting.
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}

// Step is a named unit of orchestrated work. Implementations expose one or
// more declared operations and return the events each invocation emits.
// A step instance is owned by a single run; the engine never invokes the same
// instance concurrently.
type Step interface {
	// Name returns the unique step name used in bindings.
	Name() string

	// Operations declares the operations this step exposes.
	Operations() []OperationSpec

	// Invoke executes one named operation and returns the emitted events.
	// Unknown operation names must fail with a *ConfigurationError.
	Invoke(rc *RunContext, operation string, params Params) ([]Event, error)
}

// Activatable is implemented by steps that need one-time initialization of
// their state before the first operation invocation of a run.
type Activatable interface {
	Activate(rc *RunContext) error
}

// Stateful is implemented by steps whose per-run state should be exposed in
// the final RunResult snapshot for inspection and testing.
type Stateful interface {
	StateSnapshot() any
}
