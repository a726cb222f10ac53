package docgen

import (
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/procmesh/core"
)

// StepPublish is the name of the terminal publishing step.
const StepPublish = "Publish"

// OpPublishDocumentation performs the publishing side effect. It emits no
// events; the pipeline is quiescent afterwards.
const OpPublishDocumentation = "publish_documentation"

// PublishOptions configures the Publish step.
type PublishOptions struct {
	// Writer receives the approved documentation. Defaults to os.Stdout.
	Writer io.Writer
}

// Publish writes approved documentation to the configured writer and keeps
// the published text as its state for inspection.
type Publish struct {
	writer    io.Writer
	published string
}

// NewPublish constructs the step with optional overrides.
func NewPublish(optFns ...func(o *PublishOptions)) *Publish {
	opts := PublishOptions{Writer: os.Stdout}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Publish{writer: opts.Writer}
}

// Name implements core.Step.
func (s *Publish) Name() string { return StepPublish }

// Operations implements core.Step.
func (s *Publish) Operations() []core.OperationSpec {
	return []core.OperationSpec{
		{Name: OpPublishDocumentation, Parameters: []string{"docs"}},
	}
}

// Invoke implements core.Step.
func (s *Publish) Invoke(rc *core.RunContext, operation string, params core.Params) ([]core.Event, error) {
	if operation != OpPublishDocumentation {
		return nil, core.NewConfigurationError("step %s has no operation %q", s.Name(), operation)
	}

	docs := params.String("docs")
	rc.Logger.Info("publishing documentation", "step", s.Name())

	if _, err := fmt.Fprintln(s.writer, docs); err != nil {
		return nil, fmt.Errorf("failed to write documentation: %w", err)
	}

	s.published = docs

	return nil, nil
}

// StateSnapshot implements core.Stateful, exposing the published text.
func (s *Publish) StateSnapshot() any { return s.published }
