package docgen

import (
	"github.com/hupe1980/procmesh/core"
	"github.com/hupe1980/procmesh/model"
)

// StepProofread is the name of the proofreading step.
const StepProofread = "Proofread"

// OpProofreadDocumentation evaluates a documentation draft and emits either
// an approval or a rejection event.
const OpProofreadDocumentation = "proofread_documentation"

const (
	// EventDocumentationApproved carries the approved documentation text,
	// unchanged.
	EventDocumentationApproved = "documentation_approved"
	// EventDocumentationRejected carries a DocumentationFeedback payload.
	EventDocumentationRejected = "documentation_rejected"
)

const proofreadInstructions = `Your job is to proofread customer facing documentation for a new
product from Contoso. You will be provided with proposed documentation for a product and you
must do the following things:

1. Determine if the documentation passes the following criteria:
    1. Documentation must use a professional tone.
    1. Documentation should be free of spelling or grammar mistakes.
    1. Documentation should be free of any offensive or inappropriate language.
    1. Documentation should be technically accurate.
2. If the documentation does not pass 1, you must write detailed feedback of the changes that
    are needed to improve the documentation.`

// ProofreadingResponse is the structured evaluation requested from the model.
type ProofreadingResponse struct {
	MeetsExpectations bool     `json:"meets_expectations" jsonschema:"description=Specifies if the proposed docs meet the standards for publishing"`
	Explanation       string   `json:"explanation" jsonschema:"description=An explanation of why the documentation does or does not meet expectations"`
	Suggestions       []string `json:"suggestions" jsonschema:"description=Suggestions for improvement; empty if there are none"`
}

// proofreadingSchema is reflected once; the schema never changes at runtime.
var proofreadingSchema = model.MustSchemaFor[ProofreadingResponse](
	"proofreading_response", "Structured evaluation of proposed product documentation")

// DocumentationFeedback is the payload of a rejection event.
type DocumentationFeedback struct {
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
}

// Proofread is a stateless step submitting a draft for structured review.
type Proofread struct{}

// NewProofread constructs the step.
func NewProofread() *Proofread { return &Proofread{} }

// Name implements core.Step.
func (s *Proofread) Name() string { return StepProofread }

// Operations implements core.Step.
func (s *Proofread) Operations() []core.OperationSpec {
	return []core.OperationSpec{
		{Name: OpProofreadDocumentation, Parameters: []string{"docs"}},
	}
}

// Invoke implements core.Step. A schema violation in the model's evaluation
// is fatal; callers wanting retry semantics must layer them outside the step.
func (s *Proofread) Invoke(rc *core.RunContext, operation string, params core.Params) ([]core.Event, error) {
	if operation != OpProofreadDocumentation {
		return nil, core.NewConfigurationError("step %s has no operation %q", s.Name(), operation)
	}

	docs := params.String("docs")
	rc.Logger.Info("proofreading documentation", "step", s.Name())

	resp, err := rc.Generate(model.Request{
		Instructions:   proofreadInstructions,
		Messages:       []model.Message{{Role: model.RoleUser, Text: docs}},
		ResponseFormat: proofreadingSchema,
	})
	if err != nil {
		return nil, err
	}

	review, err := model.DecodeStructured[ProofreadingResponse](resp)
	if err != nil {
		return nil, err
	}

	rc.Logger.Info("proofreading verdict",
		"step", s.Name(),
		"meets_expectations", review.MeetsExpectations,
		"explanation", review.Explanation)

	if review.MeetsExpectations {
		return []core.Event{core.NewEvent(EventDocumentationApproved, docs)}, nil
	}

	return []core.Event{core.NewEvent(EventDocumentationRejected, DocumentationFeedback{
		Explanation: review.Explanation,
		Suggestions: review.Suggestions,
	})}, nil
}
