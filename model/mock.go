package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type scripted struct {
	resp *Response
	err  error
}

// MockModel is a lightweight in-memory Model useful for tests and offline
// examples. Responses are scripted in FIFO order; when the script is
// exhausted it echoes the last user turn. All requests are recorded for
// later inspection.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	script   []scripted
	requests []Request
}

// NewMockModel constructs an empty MockModel.
func NewMockModel() *MockModel {
	return &MockModel{
		info: Info{
			Name:               "mock",
			Provider:           "mock",
			SupportsStructured: true,
		},
	}
}

// EnqueueText scripts a plain text response.
func (m *MockModel) EnqueueText(text string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.script = append(m.script, scripted{resp: &Response{Text: text}})

	return m
}

// EnqueueStructured scripts a structured response; v is marshalled to JSON
// and also rendered as the response text. Panics on marshal failure since a
// broken script is a test bug.
func (m *MockModel) EnqueueStructured(v any) *MockModel {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("mock model: cannot marshal scripted response: %v", err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.script = append(m.script, scripted{resp: &Response{Text: string(raw), Structured: raw}})

	return m
}

// EnqueueRaw scripts a verbatim response, useful for malformed structured
// output scenarios.
func (m *MockModel) EnqueueRaw(resp *Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.script = append(m.script, scripted{resp: resp})

	return m
}

// EnqueueError scripts a generation failure.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.script = append(m.script, scripted{err: err})

	return m
}

// Generate implements Model. It pops the next scripted entry, or echoes the
// last user turn when nothing is scripted.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewError(ErrKindTransport, err, "generation cancelled")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]

		if next.err != nil {
			return nil, next.err
		}

		if req.ResponseFormat != nil && len(next.resp.Structured) == 0 && json.Valid([]byte(next.resp.Text)) {
			return &Response{Text: next.resp.Text, Structured: json.RawMessage(next.resp.Text)}, nil
		}

		return next.resp, nil
	}

	var lastUser string
	for _, msg := range req.Messages {
		if msg.Role == RoleUser {
			lastUser = msg.Text
		}
	}

	return &Response{Text: fmt.Sprintf("Mock response to: %s", lastUser)}, nil
}

// Requests returns a copy of all recorded generation requests in call order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.requests))
	copy(out, m.requests)

	return out
}

// CallCount returns the number of Generate invocations observed.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.requests)
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
