package docgen

import (
	"fmt"
	"strings"

	"github.com/hupe1980/procmesh/core"
	"github.com/hupe1980/procmesh/model"
)

// StepGenerateDocumentation is the name of the documentation generation step.
const StepGenerateDocumentation = "GenerateDocumentation"

const (
	// OpGenerateDocumentation writes the first draft from product information.
	OpGenerateDocumentation = "generate_documentation"
	// OpApplySuggestions rewrites the draft taking proofreading feedback into
	// account, reusing the full accumulated conversation.
	OpApplySuggestions = "apply_suggestions"
)

// EventDocumentationGenerated carries the generated documentation text.
const EventDocumentationGenerated = "documentation_generated"

const generateInstructions = `Your job is to write high quality and engaging customer facing
documentation for a new product from Contoso. You will be provided with information about the
product in the form of internal documentation, specs, and troubleshooting guides and you must
use this information and nothing else to generate the documentation. If suggestions are provided
on the documentation you create, take the suggestions into account and rewrite the
documentation. Make sure the product sounds amazing.`

// GenerateDocumentation drafts and rewrites documentation. Its state is the
// conversation history seeded with a fixed system instruction; every
// invocation appends to it so each model call sees the full prior
// conversation. The history grows monotonically for the lifetime of a run.
type GenerateDocumentation struct {
	history *model.History
}

// NewGenerateDocumentation constructs the step with uninitialized state; the
// history is seeded lazily on activation.
func NewGenerateDocumentation() *GenerateDocumentation {
	return &GenerateDocumentation{}
}

// Name implements core.Step.
func (s *GenerateDocumentation) Name() string { return StepGenerateDocumentation }

// Operations implements core.Step.
func (s *GenerateDocumentation) Operations() []core.OperationSpec {
	return []core.OperationSpec{
		{Name: OpGenerateDocumentation, Parameters: []string{"product_info"}},
		{Name: OpApplySuggestions, Parameters: []string{"suggestions"}},
	}
}

// Activate implements core.Activatable, seeding the conversation history.
func (s *GenerateDocumentation) Activate(rc *core.RunContext) error {
	if s.history == nil {
		s.history = model.NewHistory(generateInstructions)
	}

	return nil
}

// Invoke implements core.Step.
func (s *GenerateDocumentation) Invoke(rc *core.RunContext, operation string, params core.Params) ([]core.Event, error) {
	switch operation {
	case OpGenerateDocumentation:
		rc.Logger.Info("generating documentation", "step", s.Name())
		return s.generate(rc, fmt.Sprintf("Product Information:\n%s", params.String("product_info")))
	case OpApplySuggestions:
		rc.Logger.Info("rewriting documentation with suggestions", "step", s.Name())

		feedback := formatFeedback(params["suggestions"])
		return s.generate(rc, fmt.Sprintf("Rewrite the documentation with the following suggestions:\n\n%s", feedback))
	default:
		return nil, core.NewConfigurationError("step %s has no operation %q", s.Name(), operation)
	}
}

// generate appends the user turn, calls the capability with the full history
// and records the reply so later rewrites see the complete conversation.
func (s *GenerateDocumentation) generate(rc *core.RunContext, userTurn string) ([]core.Event, error) {
	s.history.AddUserMessage(userTurn)

	resp, err := rc.Generate(s.history.Request())
	if err != nil {
		return nil, err
	}

	s.history.AddAssistantMessage(resp.Text)

	return []core.Event{core.NewEvent(EventDocumentationGenerated, resp.Text)}, nil
}

// StateSnapshot implements core.Stateful, exposing a copy of the history.
func (s *GenerateDocumentation) StateSnapshot() any {
	if s.history == nil {
		return nil
	}

	snapshot := model.History{Instructions: s.history.Instructions}
	snapshot.Messages = append(snapshot.Messages, s.history.Messages...)

	return snapshot
}

// formatFeedback renders a rejection payload as a user turn. Structured
// feedback keeps explanation and suggestions apart; anything else is used
// verbatim.
func formatFeedback(payload any) string {
	fb, ok := payload.(DocumentationFeedback)
	if !ok {
		return fmt.Sprintf("%v", payload)
	}

	var sb strings.Builder
	sb.WriteString(fb.Explanation)

	for _, suggestion := range fb.Suggestions {
		sb.WriteString("\n- ")
		sb.WriteString(suggestion)
	}

	return sb.String()
}
