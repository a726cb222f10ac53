// Package process implements the declarative process graph and the engine
// that drives it.
//
// A process is assembled once with a Builder: steps are added as factories
// (each run gets fresh instances and therefore fresh step state) and events
// are routed to target operations with bindings. Build() validates every
// binding against the steps' declared operations so wiring mistakes surface
// before execution starts.
//
// The Engine dispatches one event at a time from a FIFO queue, invoking bound
// operations synchronously in binding declaration order and appending any
// emitted events to the tail. A run completes when the queue drains and fails
// immediately on the first step execution error, on cancellation, or when a
// configured dispatch limit is exceeded. Cycles in the graph (for example a
// rejection/regeneration loop) are permitted and terminate only through
// content convergence or the dispatch limit.
package process
