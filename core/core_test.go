package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/procmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ev := NewEvent("documentation_generated", "some text")

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "documentation_generated", ev.Name)
	assert.Equal(t, "some text", ev.Payload)
	assert.Empty(t, ev.Source)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestResultEventName(t *testing.T) {
	assert.Equal(t, "gather.result", ResultEventName("gather"))

	ev := NewResultEvent("gather", 42)
	assert.Equal(t, "gather.result", ev.Name)
	assert.Equal(t, 42, ev.Payload)
}

func TestParams(t *testing.T) {
	p := Params{"docs": "draft", "count": 3, "empty": nil}

	assert.Equal(t, "draft", p.String("docs"))
	assert.Equal(t, "3", p.String("count"))
	assert.Equal(t, "", p.String("empty"))
	assert.Equal(t, "", p.String("missing"))

	v, ok := p.Get("docs")
	assert.True(t, ok)
	assert.Equal(t, "draft", v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("step %q added twice", "Publish")

	assert.EqualError(t, err, `configuration error: step "Publish" added twice`)
	assert.True(t, IsConfigurationError(err))
	assert.True(t, IsConfigurationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsConfigurationError(errors.New("other")))
}

func TestStepExecutionError(t *testing.T) {
	cause := errors.New("api unreachable")
	err := NewStepExecutionError("Proofread", "proofread_documentation", cause)

	assert.ErrorIs(t, err, cause)

	var se *StepExecutionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Proofread", se.Step)
	assert.Equal(t, "proofread_documentation", se.Operation)
	assert.Contains(t, err.Error(), "Proofread")
	assert.Contains(t, err.Error(), "api unreachable")
}

func TestRunContextGenerateWithoutCapability(t *testing.T) {
	rc := NewRunContext(context.Background(), "run-1", "Test", nil, nil)

	_, err := rc.Generate(model.Request{Instructions: "test"})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}
