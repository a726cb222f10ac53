package process

import "github.com/hupe1980/procmesh/core"

// InputSource is the reserved binding source matching events synthesized from
// the external trigger that starts a run.
const InputSource = "__input__"

// Binding is a static routing rule: an event named EventName raised by Source
// delivers its payload into Parameter of TargetStep's TargetOperation.
type Binding struct {
	Source          string `json:"source"`
	EventName       string `json:"event_name"`
	TargetStep      string `json:"target_step"`
	TargetOperation string `json:"target_operation"`
	Parameter       string `json:"parameter"`
}

type stepEntry struct {
	name       string
	factory    func() core.Step
	operations []core.OperationSpec
}

type routeKey struct {
	source string
	event  string
}

// Graph is the complete, validated set of steps and bindings for one process
// definition. It is immutable after Build and safe to share across
// concurrent runs; every run instantiates its own step instances.
type Graph struct {
	name     string
	steps    []stepEntry
	bindings []Binding
	routes   map[routeKey][]Binding
}

// Name returns the process name.
func (g *Graph) Name() string { return g.name }

// Bindings returns all bindings in declaration order.
func (g *Graph) Bindings() []Binding {
	out := make([]Binding, len(g.bindings))
	copy(out, g.bindings)

	return out
}

// StepNames returns the names of all steps in registration order.
func (g *Graph) StepNames() []string {
	names := make([]string, len(g.steps))
	for i, s := range g.steps {
		names[i] = s.name
	}

	return names
}

// bindingsFor returns the bindings matching (source, event) in declaration order.
func (g *Graph) bindingsFor(source, event string) []Binding {
	return g.routes[routeKey{source: source, event: event}]
}

// newInstances creates fresh step instances for one run.
func (g *Graph) newInstances() (map[string]core.Step, error) {
	instances := make(map[string]core.Step, len(g.steps))

	for _, entry := range g.steps {
		step := entry.factory()
		if step == nil {
			return nil, core.NewConfigurationError("step factory for %q returned nil", entry.name)
		}

		if step.Name() != entry.name {
			return nil, core.NewConfigurationError(
				"step factory for %q produced a step named %q", entry.name, step.Name())
		}

		instances[entry.name] = step
	}

	return instances, nil
}
