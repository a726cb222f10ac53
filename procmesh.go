// Package procmesh provides a high-level façade over the process engine,
// enabling concise construction and execution of event-driven step pipelines.
// Most applications interact with this package by:
//  1. Assembling a process graph with process.NewBuilder
//  2. Starting a run via Start with an injected capability (model.Model)
//  3. Inspecting the returned RunResult (status, step states, event journal)
//
// The façade delegates orchestration to process.Engine while keeping setup
// ergonomics concise. Defaults are safe for local development and testing;
// production deployments typically supply a structured logger.
package procmesh

import (
	"context"

	"github.com/hupe1980/procmesh/logging"
	"github.com/hupe1980/procmesh/model"
	"github.com/hupe1980/procmesh/process"
)

// Options configures a run started through the façade.
type Options struct {
	// Logger receives structured engine and step logs (defaults to NoOp).
	Logger logging.Logger
	// MaxDispatches bounds dispatched events per run; 0 means unbounded.
	MaxDispatches int
}

// Start executes a single run of graph: the initial event is synthesized from
// the trigger name and payload, and capability is injected into every step
// invocation. It blocks until the run reaches a terminal state.
func Start(
	ctx context.Context,
	graph *process.Graph,
	capability model.Model,
	trigger string,
	payload any,
	optFns ...func(o *Options),
) *process.RunResult {
	opts := Options{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	return process.Start(ctx, graph, capability, trigger, payload, func(o *process.Options) {
		o.Logger = opts.Logger
		o.MaxDispatches = opts.MaxDispatches
	})
}
