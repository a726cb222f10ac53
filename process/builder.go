package process

import (
	"strings"

	"github.com/hupe1980/procmesh/core"
)

// Builder assembles a process definition: steps plus the event bindings that
// route between them. All wiring mistakes are collected and reported together
// by Build as a single ConfigurationError.
//
//	b := process.NewBuilder("DocumentationGeneration")
//	gather := b.AddStep(func() core.Step { return docgen.NewGatherProductInfo() })
//	generate := b.AddStep(func() core.Step { return docgen.NewGenerateDocumentation() })
//
//	b.OnInputEvent("Start").SendEventTo(gather, "gather_product_information", "product_name")
//	gather.OnOperationResult("gather_product_information").
//	    SendEventTo(generate, "generate_documentation", "product_info")
//
//	graph, err := b.Build()
type Builder struct {
	name     string
	steps    []stepEntry
	byName   map[string]*StepHandle
	bindings []Binding
	problems []string
}

// NewBuilder creates a Builder for a process with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, byName: map[string]*StepHandle{}}
}

// StepHandle refers to a step added to a Builder and is the anchor for
// routing rules whose source is that step.
type StepHandle struct {
	b          *Builder
	name       string
	operations []core.OperationSpec
}

// Name returns the step name.
func (h *StepHandle) Name() string { return h.name }

// AddStep registers a step factory. The factory is invoked once immediately
// to learn the step's name and declared operations, and again for every run
// to create a fresh instance with fresh state.
func (b *Builder) AddStep(factory func() core.Step) *StepHandle {
	if factory == nil {
		b.problem("AddStep called with a nil factory")
		return &StepHandle{b: b}
	}

	proto := factory()
	if proto == nil {
		b.problem("step factory returned nil")
		return &StepHandle{b: b}
	}

	name := proto.Name()
	if name == "" {
		b.problem("step factory produced a step with an empty name")
		return &StepHandle{b: b}
	}

	if _, exists := b.byName[name]; exists {
		b.problem("step %q added twice", name)
		return b.byName[name]
	}

	handle := &StepHandle{b: b, name: name, operations: proto.Operations()}
	b.byName[name] = handle
	b.steps = append(b.steps, stepEntry{name: name, factory: factory, operations: handle.operations})

	return handle
}

// OnInputEvent starts a routing rule for the named external trigger that
// enters the process from outside.
func (b *Builder) OnInputEvent(name string) *EdgeBuilder {
	return &EdgeBuilder{b: b, source: InputSource, event: name}
}

// OnEvent starts a routing rule for an event emitted by this step.
func (h *StepHandle) OnEvent(name string) *EdgeBuilder {
	return &EdgeBuilder{b: h.b, source: h.name, event: name}
}

// OnOperationResult starts a routing rule for the reserved result event of
// one of this step's operations (emitted via core.NewResultEvent).
func (h *StepHandle) OnOperationResult(operation string) *EdgeBuilder {
	if h.name != "" && !h.hasOperation(operation) {
		h.b.problem("step %q declares no operation %q for OnOperationResult", h.name, operation)
	}

	return &EdgeBuilder{b: h.b, source: h.name, event: core.ResultEventName(operation)}
}

func (h *StepHandle) hasOperation(operation string) bool {
	for _, op := range h.operations {
		if op.Name == operation {
			return true
		}
	}

	return false
}

// EdgeBuilder is the second half of a routing rule: the (source, event) pair
// awaiting its target.
type EdgeBuilder struct {
	b      *Builder
	source string
	event  string
}

// SendEventTo completes the routing rule, delivering the event's payload into
// the named parameter of the target step's operation.
func (e *EdgeBuilder) SendEventTo(target *StepHandle, operation, parameter string) *Builder {
	name := ""
	if target != nil {
		name = target.name
	}

	e.b.bindings = append(e.b.bindings, Binding{
		Source:          e.source,
		EventName:       e.event,
		TargetStep:      name,
		TargetOperation: operation,
		Parameter:       parameter,
	})

	return e.b
}

// Build validates every binding against the declared steps and operations and
// returns the immutable Graph. It fails with a ConfigurationError describing
// all wiring mistakes at once.
func (b *Builder) Build() (*Graph, error) {
	type dupKey struct {
		source, event, target, operation string
	}

	seen := map[dupKey]bool{}

	for _, bd := range b.bindings {
		target, ok := b.byName[bd.TargetStep]
		if !ok {
			b.problem("binding for event %q targets unknown step %q", bd.EventName, bd.TargetStep)
			continue
		}

		spec, ok := findOperation(target.operations, bd.TargetOperation)
		if !ok {
			b.problem("binding for event %q targets unknown operation %q on step %q",
				bd.EventName, bd.TargetOperation, bd.TargetStep)
			continue
		}

		if bd.Parameter != "" && !contains(spec.Parameters, bd.Parameter) {
			b.problem("binding for event %q routes into undeclared parameter %q of %s.%s",
				bd.EventName, bd.Parameter, bd.TargetStep, bd.TargetOperation)
		}

		key := dupKey{source: bd.Source, event: bd.EventName, target: bd.TargetStep, operation: bd.TargetOperation}
		if seen[key] {
			b.problem("duplicate route: event %q from %q already bound to %s.%s",
				bd.EventName, bd.Source, bd.TargetStep, bd.TargetOperation)
		}

		seen[key] = true
	}

	if len(b.problems) > 0 {
		return nil, core.NewConfigurationError("invalid process %q: %s", b.name, strings.Join(b.problems, "; "))
	}

	g := &Graph{
		name:     b.name,
		steps:    append([]stepEntry(nil), b.steps...),
		bindings: append([]Binding(nil), b.bindings...),
		routes:   map[routeKey][]Binding{},
	}

	for _, bd := range g.bindings {
		key := routeKey{source: bd.Source, event: bd.EventName}
		g.routes[key] = append(g.routes[key], bd)
	}

	return g, nil
}

func (b *Builder) problem(format string, args ...any) {
	b.problems = append(b.problems, core.NewConfigurationError(format, args...).Message)
}

func findOperation(ops []core.OperationSpec, name string) (core.OperationSpec, bool) {
	for _, op := range ops {
		if op.Name == name {
			return op, true
		}
	}

	return core.OperationSpec{}, false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}

	return false
}
