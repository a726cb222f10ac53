package docgen

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/procmesh/core"
	"github.com/hupe1980/procmesh/model"
	"github.com/hupe1980/procmesh/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventNames(events []core.Event) []string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}

	return names
}

func TestPipelineApprovedFirstPass(t *testing.T) {
	var published bytes.Buffer

	graph, err := NewPipeline(func(o *PublishOptions) { o.Writer = &published })
	require.NoError(t, err)

	capability := model.NewMockModel().
		EnqueueText("GlowBrew lights up your mornings.").
		EnqueueStructured(ProofreadingResponse{MeetsExpectations: true, Explanation: "Reads well."})

	result := process.Start(context.Background(), graph, capability, TriggerStart, "Contoso GlowBrew")

	assert.Equal(t, process.StatusCompleted, result.Status)
	assert.NoError(t, result.Err)

	assert.Equal(t, []string{
		TriggerStart,
		core.ResultEventName(OpGatherProductInformation),
		EventDocumentationGenerated,
		EventDocumentationApproved,
	}, eventNames(result.Events))

	// Approval publishes the draft exactly as generated.
	assert.Equal(t, "GlowBrew lights up your mornings.\n", published.String())
	assert.Equal(t, "GlowBrew lights up your mornings.", result.StepStates[StepPublish])

	assert.Equal(t, 2, capability.CallCount())

	history, ok := result.StepStates[StepGenerateDocumentation].(model.History)
	require.True(t, ok)
	assert.Equal(t, 2, history.Len())
}

func TestPipelineRejectThenApprove(t *testing.T) {
	var published bytes.Buffer

	graph, err := NewPipeline(func(o *PublishOptions) { o.Writer = &published })
	require.NoError(t, err)

	capability := model.NewMockModel().
		EnqueueText("DRAFT").
		EnqueueStructured(ProofreadingResponse{
			MeetsExpectations: false,
			Explanation:       "too short",
			Suggestions:       []string{"add details"},
		}).
		EnqueueText("REVISED").
		EnqueueStructured(ProofreadingResponse{MeetsExpectations: true, Explanation: "much better"})

	result := process.Start(context.Background(), graph, capability, TriggerStart, "Contoso GlowBrew")

	assert.Equal(t, process.StatusCompleted, result.Status)

	assert.Equal(t, []string{
		TriggerStart,
		core.ResultEventName(OpGatherProductInformation),
		EventDocumentationGenerated,
		EventDocumentationRejected,
		EventDocumentationGenerated,
		EventDocumentationApproved,
	}, eventNames(result.Events))

	assert.Equal(t, "REVISED", result.StepStates[StepPublish])
	assert.Equal(t, "REVISED\n", published.String())

	reqs := capability.Requests()
	require.Len(t, reqs, 4)

	// First draft: one user turn carrying the gathered product information.
	assert.Equal(t, generateInstructions, reqs[0].Instructions)
	assert.Nil(t, reqs[0].ResponseFormat)
	require.Len(t, reqs[0].Messages, 1)
	assert.Contains(t, reqs[0].Messages[0].Text, "Contoso GlowBrew")

	// First review: the draft under the proofreading schema.
	assert.Equal(t, proofreadInstructions, reqs[1].Instructions)
	require.NotNil(t, reqs[1].ResponseFormat)
	require.Len(t, reqs[1].Messages, 1)
	assert.Equal(t, "DRAFT", reqs[1].Messages[0].Text)

	// Rewrite: the full prior conversation plus the feedback turn.
	assert.Equal(t, generateInstructions, reqs[2].Instructions)
	require.Len(t, reqs[2].Messages, 3)
	assert.Equal(t, model.RoleAssistant, reqs[2].Messages[1].Role)
	assert.Equal(t, "DRAFT", reqs[2].Messages[1].Text)
	assert.Contains(t, reqs[2].Messages[2].Text, "too short")
	assert.Contains(t, reqs[2].Messages[2].Text, "- add details")

	// Second review sees the rewrite.
	require.Len(t, reqs[3].Messages, 1)
	assert.Equal(t, "REVISED", reqs[3].Messages[0].Text)

	// Each generation cycle adds a user and an assistant turn.
	history, ok := result.StepStates[StepGenerateDocumentation].(model.History)
	require.True(t, ok)
	assert.Equal(t, 4, history.Len())
}

func TestPipelineCapabilityFailure(t *testing.T) {
	var published bytes.Buffer

	graph, err := NewPipeline(func(o *PublishOptions) { o.Writer = &published })
	require.NoError(t, err)

	capability := model.NewMockModel().
		EnqueueText("DRAFT").
		EnqueueError(model.NewError(model.ErrKindTransport, errors.New("connection reset"), "chat completion failed"))

	result := process.Start(context.Background(), graph, capability, TriggerStart, "Contoso GlowBrew")

	assert.Equal(t, process.StatusFailed, result.Status)
	assert.Equal(t, 1, result.ExitCode())

	var se *core.StepExecutionError
	require.ErrorAs(t, result.Err, &se)
	assert.Equal(t, StepProofread, se.Step)
	assert.Equal(t, OpProofreadDocumentation, se.Operation)

	assert.NotContains(t, eventNames(result.Events), EventDocumentationApproved)
	assert.Empty(t, published.String())
	assert.Equal(t, "", result.StepStates[StepPublish])
}

func TestPipelineSchemaViolationIsFatal(t *testing.T) {
	graph, err := NewPipeline(func(o *PublishOptions) { o.Writer = &bytes.Buffer{} })
	require.NoError(t, err)

	capability := model.NewMockModel().
		EnqueueText("DRAFT").
		EnqueueRaw(&model.Response{Text: "I think the draft is fine."})

	result := process.Start(context.Background(), graph, capability, TriggerStart, "Contoso GlowBrew")

	assert.Equal(t, process.StatusFailed, result.Status)
	assert.True(t, model.IsSchemaViolation(result.Err))

	var se *core.StepExecutionError
	require.ErrorAs(t, result.Err, &se)
	assert.Equal(t, StepProofread, se.Step)
}

func TestPipelineNeverConverges(t *testing.T) {
	graph, err := NewPipeline(func(o *PublishOptions) { o.Writer = &bytes.Buffer{} })
	require.NoError(t, err)

	rejection := ProofreadingResponse{
		MeetsExpectations: false,
		Explanation:       "still not good enough",
		Suggestions:       []string{"try again"},
	}

	capability := model.NewMockModel()
	for i := 0; i < 8; i++ {
		capability.EnqueueText("ANOTHER DRAFT").EnqueueStructured(rejection)
	}

	result := process.Start(context.Background(), graph, capability, TriggerStart, "Contoso GlowBrew",
		func(o *process.Options) { o.MaxDispatches = 6 })

	assert.Equal(t, process.StatusFailed, result.Status)
	assert.ErrorIs(t, result.Err, core.ErrNotConverged)
	assert.Equal(t, 6, result.Dispatches)
}

func TestGatherProductInfoStep(t *testing.T) {
	rc := core.NewRunContext(context.Background(), "run-1", "Test", nil, nil)
	step := NewGatherProductInfo()

	events, err := step.Invoke(rc, OpGatherProductInformation, core.Params{"product_name": "Contoso GlowBrew"})
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, core.ResultEventName(OpGatherProductInformation), events[0].Name)

	info, ok := events[0].Payload.(string)
	require.True(t, ok)
	assert.Contains(t, info, "Product: Contoso GlowBrew")
	assert.Contains(t, info, "Luminous Brew Technology")
}

func TestStepsRejectUnknownOperations(t *testing.T) {
	rc := core.NewRunContext(context.Background(), "run-1", "Test", nil, nil)

	steps := []core.Step{
		NewGatherProductInfo(),
		NewGenerateDocumentation(),
		NewProofread(),
		NewPublish(),
	}

	for _, step := range steps {
		_, err := step.Invoke(rc, "no_such_operation", core.Params{})
		require.Error(t, err, "step %s", step.Name())
		assert.True(t, core.IsConfigurationError(err), "step %s", step.Name())
	}
}

func TestFormatFeedback(t *testing.T) {
	fb := DocumentationFeedback{
		Explanation: "too short",
		Suggestions: []string{"add features", "fix tone"},
	}

	assert.Equal(t, "too short\n- add features\n- fix tone", formatFeedback(fb))
	assert.Equal(t, "plain text feedback", formatFeedback("plain text feedback"))
}

func TestPublishStep(t *testing.T) {
	var out bytes.Buffer

	rc := core.NewRunContext(context.Background(), "run-1", "Test", nil, nil)
	step := NewPublish(func(o *PublishOptions) { o.Writer = &out })

	_, err := step.Invoke(rc, OpPublishDocumentation, core.Params{"docs": "final docs"})
	require.NoError(t, err)

	assert.Equal(t, "final docs\n", out.String())
	assert.Equal(t, "final docs", step.StateSnapshot())
}

func TestProofreadingSchema(t *testing.T) {
	require.NotNil(t, proofreadingSchema)
	assert.Equal(t, "proofreading_response", proofreadingSchema.Name)

	props, ok := proofreadingSchema.Schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "meets_expectations")
	assert.Contains(t, props, "explanation")
	assert.Contains(t, props, "suggestions")
}
