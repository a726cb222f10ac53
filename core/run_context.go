package core

import (
	"context"

	"github.com/hupe1980/procmesh/logging"
	"github.com/hupe1980/procmesh/model"
)

// RunContext carries the per-run execution scope passed into step operations:
// the ambient cancellation context, run identifiers, the injected capability
// and a structured logger. One RunContext is shared by all step invocations
// of a run; execution within a run is strictly sequential.
type RunContext struct {
	Context    context.Context
	RunID      string
	Process    string
	Capability model.Model
	Logger     logging.Logger
}

// NewRunContext constructs a RunContext. A nil logger defaults to NoOpLogger.
func NewRunContext(
	ctx context.Context,
	runID, process string,
	capability model.Model,
	logger logging.Logger,
) *RunContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &RunContext{
		Context:    ctx,
		RunID:      runID,
		Process:    process,
		Capability: capability,
		Logger:     logger,
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// Generate calls the injected capability with the run's context.
func (rc *RunContext) Generate(req model.Request) (*model.Response, error) {
	if rc.Capability == nil {
		return nil, NewConfigurationError("no capability configured for run %s", rc.RunID)
	}

	return rc.Capability.Generate(rc.Context, req)
}
