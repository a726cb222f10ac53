package process

import (
	"context"

	"github.com/hupe1980/procmesh/core"
	"github.com/hupe1980/procmesh/logging"
	"github.com/hupe1980/procmesh/model"
)

// Status is the terminal state of a process run.
type Status int

const (
	// StatusCompleted means the event queue drained with no error.
	StatusCompleted Status = iota
	// StatusFailed means the run aborted on an error, cancellation or the
	// dispatch limit.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunResult is the outcome of one process run. StepStates holds the final
// state snapshot of every step implementing core.Stateful; Events is the
// in-memory journal of all dispatched events in dispatch order.
type RunResult struct {
	RunID      string
	Status     Status
	Err        error
	StepStates map[string]any
	Events     []core.Event
	Dispatches int
}

// ExitCode maps the run outcome onto a process exit status for CLI drivers.
func (r *RunResult) ExitCode() int {
	if r.Status == StatusCompleted {
		return 0
	}

	return 1
}

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// Capability is the injected text generation interface handed to steps.
	Capability model.Model
	// Logger receives structured engine and step logs. Defaults to NoOpLogger.
	Logger logging.Logger
	// MaxDispatches bounds the number of dispatched events per run as a
	// liveness guard for cyclic graphs. 0 means unbounded.
	MaxDispatches int
}

// Engine drives the execution of a Graph: it receives an initial trigger,
// dispatches events to bound step operations one at a time, collects emitted
// events and repeats until quiescent. An Engine is immutable after
// construction and safe for concurrent runs; every run owns fresh step
// instances.
type Engine struct {
	graph         *Graph
	capability    model.Model
	logger        logging.Logger
	maxDispatches int
}

// New constructs an Engine for the given graph with optional overrides.
func New(graph *Graph, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		graph:         graph,
		capability:    opts.Capability,
		logger:        opts.Logger,
		maxDispatches: opts.MaxDispatches,
	}
}

// Start builds an engine around graph with the given capability and executes
// a single run. It is the package-level convenience entry point.
func Start(
	ctx context.Context,
	graph *Graph,
	capability model.Model,
	trigger string,
	payload any,
	optFns ...func(o *Options),
) *RunResult {
	engine := New(graph, append([]func(o *Options){func(o *Options) {
		o.Capability = capability
	}}, optFns...)...)

	return engine.Run(ctx, trigger, payload)
}

// Run executes one process run to completion. The initial event is
// synthesized from the external trigger name and payload and matched against
// bindings whose source is the reserved process input. Run never panics on
// wiring mistakes; they surface as a failed result.
func (e *Engine) Run(ctx context.Context, trigger string, payload any) *RunResult {
	runID := core.NewID()
	result := &RunResult{RunID: runID, StepStates: map[string]any{}}

	rc := core.NewRunContext(ctx, runID, e.graph.Name(), e.capability, e.logger)

	instances, err := e.graph.newInstances()
	if err != nil {
		return e.fail(result, instances, err)
	}

	e.logger.Debug("run started", "run_id", runID, "process", e.graph.Name(), "trigger", trigger)

	initial := core.NewEvent(trigger, payload)
	initial.Source = InputSource

	queue := []core.Event{initial}
	activated := map[string]bool{}

	for len(queue) > 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return e.fail(result, instances, core.ErrCancelled)
		}

		if e.maxDispatches > 0 && result.Dispatches >= e.maxDispatches {
			return e.fail(result, instances, core.ErrNotConverged)
		}

		ev := queue[0]
		queue = queue[1:]

		result.Dispatches++
		result.Events = append(result.Events, ev)

		bindings := e.graph.bindingsFor(ev.Source, ev.Name)
		if len(bindings) == 0 {
			e.logger.Debug("event has no bindings, dropping",
				"run_id", runID, "event", ev.Name, "source", ev.Source)
			continue
		}

		for _, binding := range bindings {
			step := instances[binding.TargetStep]

			if !activated[binding.TargetStep] {
				if act, ok := step.(core.Activatable); ok {
					if err := act.Activate(rc); err != nil {
						return e.fail(result, instances,
							core.NewStepExecutionError(binding.TargetStep, "activate", err))
					}
				}

				activated[binding.TargetStep] = true
			}

			params := core.Params{}
			if binding.Parameter != "" {
				params[binding.Parameter] = ev.Payload
			}

			e.logger.Debug("dispatching event",
				"run_id", runID, "event", ev.Name, "source", ev.Source,
				"step", binding.TargetStep, "operation", binding.TargetOperation)

			emitted, err := step.Invoke(rc, binding.TargetOperation, params)
			if err != nil {
				if ctx.Err() != nil {
					return e.fail(result, instances, core.ErrCancelled)
				}

				if core.IsConfigurationError(err) {
					return e.fail(result, instances, err)
				}

				return e.fail(result, instances,
					core.NewStepExecutionError(binding.TargetStep, binding.TargetOperation, err))
			}

			for _, em := range emitted {
				em.Source = binding.TargetStep
				queue = append(queue, em)
			}
		}
	}

	result.Status = StatusCompleted
	e.snapshotStates(result, instances)

	e.logger.Info("run completed",
		"run_id", runID, "process", e.graph.Name(), "dispatches", result.Dispatches)

	return result
}

func (e *Engine) fail(result *RunResult, instances map[string]core.Step, err error) *RunResult {
	result.Status = StatusFailed
	result.Err = err
	e.snapshotStates(result, instances)

	e.logger.Error("run failed",
		"run_id", result.RunID, "process", e.graph.Name(),
		"dispatches", result.Dispatches, "error", err)

	return result
}

func (e *Engine) snapshotStates(result *RunResult, instances map[string]core.Step) {
	for name, step := range instances {
		if st, ok := step.(core.Stateful); ok {
			result.StepStates[name] = st.StateSnapshot()
		}
	}
}
