package core

import (
	"time"

	"github.com/google/uuid"
)

// Event is the primary unit of communication between steps and the engine.
// After emission it must be treated as immutable. Source is stamped by the
// engine when the event is enqueued: the emitting step's name, or the
// reserved external input source for the initial trigger.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event with a fresh ID and UTC timestamp.
func NewEvent(name string, payload any) Event {
	return Event{
		ID:        NewID(),
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ResultEventName returns the reserved event name carrying an operation's
// result. Bindings created via OnOperationResult match this name.
func ResultEventName(operation string) string { return operation + ".result" }

// NewResultEvent creates the reserved operation-result event for operation.
func NewResultEvent(operation string, payload any) Event {
	return NewEvent(ResultEventName(operation), payload)
}

// NewID generates a new unique identifier for events and runs.
func NewID() string { return uuid.NewString() }
