package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	h := NewHistory("You are a technical writer.")
	h.AddUserMessage("Product info: GlowBrew")
	h.AddAssistantMessage("GlowBrew is a coffee machine.")

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, RoleUser, h.Messages[0].Role)
	assert.Equal(t, RoleAssistant, h.Messages[1].Role)

	req := h.Request()
	assert.Equal(t, "You are a technical writer.", req.Instructions)
	require.Len(t, req.Messages, 2)

	// The request holds a snapshot; later turns must not leak into it.
	h.AddUserMessage("Apply this feedback")
	assert.Len(t, req.Messages, 2)
	assert.Equal(t, 3, h.Len())
}

func TestMockModelScriptedOrder(t *testing.T) {
	m := NewMockModel().
		EnqueueText("first").
		EnqueueText("second")

	resp, err := m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	resp, err = m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)

	assert.Equal(t, 2, m.CallCount())
}

func TestMockModelEchoFallback(t *testing.T) {
	m := NewMockModel()

	req := Request{Messages: []Message{
		{Role: RoleUser, Text: "older"},
		{Role: RoleAssistant, Text: "draft"},
		{Role: RoleUser, Text: "latest"},
	}}

	resp, err := m.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: latest", resp.Text)
}

func TestMockModelStructured(t *testing.T) {
	type verdict struct {
		Approved bool   `json:"approved"`
		Reason   string `json:"reason"`
	}

	m := NewMockModel().EnqueueStructured(verdict{Approved: true, Reason: "reads well"})

	resp, err := m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Structured)

	got, err := DecodeStructured[verdict](resp)
	require.NoError(t, err)
	assert.True(t, got.Approved)
	assert.Equal(t, "reads well", got.Reason)
}

func TestMockModelPromotesValidJSONText(t *testing.T) {
	rf := &ResponseFormat{Name: "verdict", Schema: map[string]any{"type": "object"}}

	m := NewMockModel().EnqueueText(`{"approved":false}`)

	resp, err := m.Generate(context.Background(), Request{ResponseFormat: rf})
	require.NoError(t, err)
	assert.JSONEq(t, `{"approved":false}`, string(resp.Structured))
}

func TestMockModelScriptedError(t *testing.T) {
	scripted := NewError(ErrKindRateLimit, nil, "quota exhausted")
	m := NewMockModel().EnqueueError(scripted)

	_, err := m.Generate(context.Background(), Request{})
	require.Error(t, err)

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, ErrKindRateLimit, me.Kind)
}

func TestMockModelRecordsRequests(t *testing.T) {
	m := NewMockModel().EnqueueText("ok")

	_, err := m.Generate(context.Background(), Request{Instructions: "be brief"})
	require.NoError(t, err)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "be brief", reqs[0].Instructions)
}

func TestMockModelCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMockModel().EnqueueText("never delivered")

	_, err := m.Generate(ctx, Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, m.CallCount())
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "transport", ErrKindTransport.String())
	assert.Equal(t, "auth", ErrKindAuth.String())
	assert.Equal(t, "rate_limit", ErrKindRateLimit.String())
	assert.Equal(t, "schema", ErrKindSchema.String())
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewError(ErrKindTransport, cause, "openai chat completion failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "transport")
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, IsSchemaViolation(err))
}
