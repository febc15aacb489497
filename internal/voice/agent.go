package voice

import (
	"context"
	"strings"
)

type EventKind string

const (
	EventCallStart     EventKind = "call-start"
	EventCallEnd       EventKind = "call-end"
	EventSpeechStart   EventKind = "speech-start"
	EventSpeechEnd     EventKind = "speech-end"
	EventMessage       EventKind = "message"
	EventError         EventKind = "error"
	// EventStopRequested means the user ended the call from the page.
	EventStopRequested EventKind = "stop"
)

// Event is a lifecycle notification from a running call. Message is set for
// EventMessage, Err for EventError.
type Event struct {
	Kind    EventKind
	Message Message
	Err     error
}

// StartRequest configures a call. Exactly one of WorkflowID (the agent
// improvises from a workflow) or Assistant (the agent follows a script) is set.
type StartRequest struct {
	WorkflowID     string            `json:"workflowId,omitempty"`
	Assistant      *AssistantConfig  `json:"assistant,omitempty"`
	VariableValues map[string]string `json:"variableValues,omitempty"`
}

// Agent is a live voice call. Events is closed when the call transport goes away.
type Agent interface {
	Start(ctx context.Context, req StartRequest) error
	Stop(ctx context.Context) error
	Events() <-chan Event
}

// FormatQuestions renders questions as the "- q" lines the interviewer script expects.
func FormatQuestions(questions []string) string {
	lines := make([]string, len(questions))
	for i, q := range questions {
		lines[i] = "- " + q
	}
	return strings.Join(lines, "\n")
}
